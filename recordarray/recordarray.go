// Package recordarray implements RecordArray, the flat frozen encoding of
// every node's record: a single concatenated byte buffer plus a sparse
// bitvector of record-start offsets with select1 support, so record(i) is
// a constant-time byte-slice lookup rather than an index into a slice of
// separate allocations.
package recordarray

import (
	"io"

	"github.com/JervenBolleman/gbwt/bitvec"
	"github.com/JervenBolleman/gbwt/bytecode"
	"github.com/JervenBolleman/gbwt/compressed"
	"github.com/JervenBolleman/gbwt/record"
	"github.com/JervenBolleman/gbwt/runcode"
)

// RecordArray is the frozen, read-only encoding of a full set of records.
type RecordArray struct {
	records int
	data    []byte
	index   *bitvec.SparseBitVector
}

// New compresses bwt (one DynamicRecord per node, indexed by node id) into
// a RecordArray: outgoing edges and run body, ByteCode/Run encoded exactly
// as CompressedRecord expects to decode them, concatenated in node-id
// order with a sparse bitvector marking each record's start offset.
func New(bwt []*record.DynamicRecord) *RecordArray {
	offsets := make([]uint64, len(bwt))
	var data []byte
	for i, current := range bwt {
		offsets[i] = uint64(len(data))

		data = bytecode.Write(data, uint64(current.Outdegree()))
		var prev uint64
		for rank := 0; rank < current.Outdegree(); rank++ {
			successor := current.Successor(uint32(rank))
			data = bytecode.Write(data, successor-prev)
			prev = successor
			data = bytecode.Write(data, current.Offset(uint32(rank)))
		}

		if current.Outdegree() > 0 {
			sigma := uint32(current.Outdegree())
			for _, run := range current.Body {
				data = runcode.Write(data, sigma, run)
			}
		}
	}

	index := bitvec.New(uint64(len(data)) + 1)
	for _, offset := range offsets {
		index.Set(offset)
	}
	index.Build()

	return &RecordArray{records: len(bwt), data: data, index: index}
}

// Records returns the number of records stored.
func (a *RecordArray) Records() int { return a.records }

// Record decodes the record for node id `node` (its 0-based index into the
// original bwt slice passed to New).
func (a *RecordArray) Record(node int) *compressed.CompressedRecord {
	start, ok := a.index.Select1(uint64(node) + 1)
	if !ok {
		return compressed.NewCompressedRecord(a.data, len(a.data), len(a.data))
	}
	limit := len(a.data)
	if end, ok := a.index.Select1(uint64(node) + 2); ok {
		limit = int(end)
	}
	return compressed.NewCompressedRecord(a.data, int(start), limit)
}

// WriteTo serializes the array: record count, the start-offset bitvector,
// then the raw data buffer.
func (a *RecordArray) WriteTo(w io.Writer) (int64, error) {
	var hdr [8]byte
	putUint64(hdr[:], uint64(a.records))
	n1, err := w.Write(hdr[:])
	total := int64(n1)
	if err != nil {
		return total, err
	}

	n2, err := a.index.WriteTo(w)
	total += n2
	if err != nil {
		return total, err
	}

	var lenHdr [8]byte
	putUint64(lenHdr[:], uint64(len(a.data)))
	n3, err := w.Write(lenHdr[:])
	total += int64(n3)
	if err != nil {
		return total, err
	}

	n4, err := w.Write(a.data)
	total += int64(n4)
	return total, err
}

// ReadFrom deserializes an array previously written by WriteTo.
func ReadFrom(r io.Reader) (*RecordArray, int64, error) {
	var hdr [8]byte
	n1, err := io.ReadFull(r, hdr[:])
	total := int64(n1)
	if err != nil {
		return nil, total, err
	}
	records := int(getUint64(hdr[:]))

	index, n2, err := bitvec.ReadFrom(r)
	total += n2
	if err != nil {
		return nil, total, err
	}

	var lenHdr [8]byte
	n3, err := io.ReadFull(r, lenHdr[:])
	total += int64(n3)
	if err != nil {
		return nil, total, err
	}
	dataLen := getUint64(lenHdr[:])

	data := make([]byte, dataLen)
	n4, err := io.ReadFull(r, data)
	total += int64(n4)
	if err != nil {
		return nil, total, err
	}

	return &RecordArray{records: records, data: data, index: index}, total, nil
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
