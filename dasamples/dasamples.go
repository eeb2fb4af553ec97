// Package dasamples implements DASamples, the sparse document-array sample
// index used by locate(): for every node whose record carries at least one
// sample, the BWT offsets of that node are laid out back to back in a
// virtual concatenated address space, and two sparse bitvectors over that
// space mark where each record's range begins and which positions within
// it are actually sampled.
package dasamples

import (
	"io"
	"sort"

	"github.com/JervenBolleman/gbwt/bitvec"
	"github.com/JervenBolleman/gbwt/bytecode"
	"github.com/JervenBolleman/gbwt/core"
	"github.com/JervenBolleman/gbwt/record"
)

// DASamples is the frozen, read-only document-array sample index.
type DASamples struct {
	sampledRecords *bitvec.SparseBitVector
	bwtRanges      *bitvec.SparseBitVector
	sampledOffsets *bitvec.SparseBitVector
	array          []uint64
}

// New builds a DASamples index from the records of a completed BWT (one
// DynamicRecord per node, indexed by node id).
func New(bwt []*record.DynamicRecord) *DASamples {
	sampledRecords := bitvec.New(uint64(len(bwt)))
	var totalOffsets uint64
	sampleCount := 0
	for i, rec := range bwt {
		if rec.Samples() > 0 {
			sampledRecords.Set(uint64(i))
			totalOffsets += rec.Size()
			sampleCount += rec.Samples()
		}
	}
	sampledRecords.Build()

	bwtRanges := bitvec.New(totalOffsets)
	sampledOffsets := bitvec.New(totalOffsets)
	array := make([]uint64, 0, sampleCount)

	var offset uint64
	for _, rec := range bwt {
		if rec.Samples() == 0 {
			continue
		}
		bwtRanges.Set(offset)

		ids := append([]record.Sample(nil), rec.Ids...)
		sort.Slice(ids, func(i, j int) bool { return ids[i].Offset < ids[j].Offset })
		for _, sample := range ids {
			sampledOffsets.Set(offset + sample.Offset)
			array = append(array, sample.SequenceID)
		}
		offset += rec.Size()
	}
	bwtRanges.Build()
	sampledOffsets.Build()

	return &DASamples{
		sampledRecords: sampledRecords,
		bwtRanges:      bwtRanges,
		sampledOffsets: sampledOffsets,
		array:          array,
	}
}

// TryLocate returns the sequence id sampled at the given offset within the
// record for node `rec`, or core.InvalidSequence when that position was
// not sampled (the record wasn't sampled at all, or this particular offset
// fell between sample points).
func (d *DASamples) TryLocate(rec int, offset uint64) uint64 {
	if !d.sampledRecords.Get(uint64(rec)) {
		return core.InvalidSequence
	}
	rank := d.sampledRecords.Rank1(uint64(rec))
	recordStart, ok := d.bwtRanges.Select1(rank + 1)
	if !ok {
		return core.InvalidSequence
	}
	global := recordStart + offset
	if !d.sampledOffsets.Get(global) {
		return core.InvalidSequence
	}
	idx := d.sampledOffsets.Rank1(global)
	if idx >= uint64(len(d.array)) {
		return core.InvalidSequence
	}
	return d.array[idx]
}

// WriteTo serializes the index: the three bitvectors, then the packed
// sequence-id array as a ByteCode stream.
func (d *DASamples) WriteTo(w io.Writer) (int64, error) {
	var total int64

	n, err := d.sampledRecords.WriteTo(w)
	total += n
	if err != nil {
		return total, err
	}

	n, err = d.bwtRanges.WriteTo(w)
	total += n
	if err != nil {
		return total, err
	}

	n, err = d.sampledOffsets.WriteTo(w)
	total += n
	if err != nil {
		return total, err
	}

	var buf []byte
	buf = bytecode.Write(buf, uint64(len(d.array)))
	for _, v := range d.array {
		buf = bytecode.Write(buf, v)
	}

	var lenHdr [8]byte
	putUint64(lenHdr[:], uint64(len(buf)))
	written0, err := w.Write(lenHdr[:])
	total += int64(written0)
	if err != nil {
		return total, err
	}

	written, err := w.Write(buf)
	total += int64(written)
	return total, err
}

// ReadFrom deserializes an index previously written by WriteTo.
func ReadFrom(r io.Reader) (*DASamples, int64, error) {
	var total int64

	sampledRecords, n, err := bitvec.ReadFrom(r)
	total += n
	if err != nil {
		return nil, total, err
	}

	bwtRanges, n, err := bitvec.ReadFrom(r)
	total += n
	if err != nil {
		return nil, total, err
	}

	sampledOffsets, n, err := bitvec.ReadFrom(r)
	total += n
	if err != nil {
		return nil, total, err
	}

	var lenHdr [8]byte
	read0, err := io.ReadFull(r, lenHdr[:])
	total += int64(read0)
	if err != nil {
		return nil, total, err
	}
	rest := make([]byte, getUint64(lenHdr[:]))
	read1, err := io.ReadFull(r, rest)
	total += int64(read1)
	if err != nil {
		return nil, total, err
	}

	pos := 0
	var count uint64
	count, pos = bytecode.Read(rest, pos)
	array := make([]uint64, count)
	for i := range array {
		array[i], pos = bytecode.Read(rest, pos)
	}

	return &DASamples{
		sampledRecords: sampledRecords,
		bwtRanges:      bwtRanges,
		sampledOffsets: sampledOffsets,
		array:          array,
	}, total, nil
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
