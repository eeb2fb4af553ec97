// Package bitvec implements the sparse bitvector with rank/select support
// used by RecordArray (record-start offsets) and DASamples (sampled-record,
// sampled-offset, and range-start bitvectors).
//
// It is a thin value wrapper around github.com/RoaringBitmap/roaring/v2,
// which already bundles rank and select on the bitmap value itself; unlike
// sdsl's sd_vector, there is no separate support structure whose back
// reference needs re-binding after copy or move (see Design Notes in
// SPEC_FULL.md).
package bitvec

import (
	"io"

	"github.com/RoaringBitmap/roaring/v2"
)

// SparseBitVector is a bitvector over [0, universe) with a sparse set of 1
// bits, offering sdsl-style rank1/select1 queries.
type SparseBitVector struct {
	bits    *roaring.Bitmap
	built   bool
	popcnt  uint64
	universe uint64
}

// New returns an empty SparseBitVector over [0, universe).
func New(universe uint64) *SparseBitVector {
	return &SparseBitVector{bits: roaring.New(), universe: universe}
}

// Set marks position i as a 1 bit. Must be called before Build.
func (v *SparseBitVector) Set(i uint64) {
	if v.built {
		panic("bitvec: Set called after Build")
	}
	v.bits.Add(uint32(i))
}

// Build finalizes the bitvector, enabling rank/select queries. It runs the
// roaring container optimizer, the analog of sd_vector's one-shot build
// from an sd_vector_builder.
func (v *SparseBitVector) Build() {
	v.bits.RunOptimize()
	v.popcnt = v.bits.GetCardinality()
	v.built = true
}

// Universe returns the size of the domain this bitvector is defined over.
func (v *SparseBitVector) Universe() uint64 { return v.universe }

// PopCount returns the number of 1 bits.
func (v *SparseBitVector) PopCount() uint64 { return v.popcnt }

// Get reports whether position i is a 1 bit.
func (v *SparseBitVector) Get(i uint64) bool {
	return v.bits.Contains(uint32(i))
}

// Rank1 returns the number of 1 bits at positions strictly less than i.
func (v *SparseBitVector) Rank1(i uint64) uint64 {
	if i == 0 {
		return 0
	}
	return v.bits.Rank(uint32(i - 1))
}

// Select1 returns the position of the k-th 1 bit, 1-indexed (k == 1 is the
// first 1 bit). ok is false when k is out of range.
func (v *SparseBitVector) Select1(k uint64) (pos uint64, ok bool) {
	if k == 0 || k > v.popcnt {
		return 0, false
	}
	val, err := v.bits.Select(uint32(k - 1))
	if err != nil {
		return 0, false
	}
	return uint64(val), true
}

// WriteTo serializes the bitvector in roaring's portable wire format,
// preceded by the 8-byte little-endian universe size so ReadFrom can
// reconstruct it exactly.
func (v *SparseBitVector) WriteTo(w io.Writer) (int64, error) {
	var hdr [8]byte
	putUint64(hdr[:], v.universe)
	n1, err := w.Write(hdr[:])
	if err != nil {
		return int64(n1), err
	}
	n2, err := v.bits.WriteTo(w)
	return int64(n1) + n2, err
}

// ReadFrom deserializes a bitvector previously written by WriteTo.
func ReadFrom(r io.Reader) (*SparseBitVector, int64, error) {
	var hdr [8]byte
	n1, err := io.ReadFull(r, hdr[:])
	if err != nil {
		return nil, int64(n1), err
	}
	v := &SparseBitVector{bits: roaring.New(), universe: getUint64(hdr[:])}
	n2, err := v.bits.ReadFrom(r)
	if err != nil {
		return nil, int64(n1) + n2, err
	}
	v.built = true
	v.popcnt = v.bits.GetCardinality()
	return v, int64(n1) + n2, nil
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func getUint64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}
