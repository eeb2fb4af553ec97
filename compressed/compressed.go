// Package compressed implements CompressedRecord, the read-only byte-window
// view over a record's encoded outgoing list and run body, as used by
// RecordArray once a DynamicRecord has been frozen.
package compressed

import (
	"github.com/JervenBolleman/gbwt/bytecode"
	"github.com/JervenBolleman/gbwt/core"
	"github.com/JervenBolleman/gbwt/runcode"
)

// OutEdge is one decoded entry of a compressed record's outgoing list.
type OutEdge struct {
	Successor uint64
	Offset    uint64
}

// CompressedRecord is a record decoded lazily from a shared byte buffer: the
// outgoing list is decoded eagerly at construction (it is small and needed
// for every query), the run body stays as a byte slice and is only walked
// by an Iterator.
type CompressedRecord struct {
	Outgoing []OutEdge
	Body     []byte
}

// NewCompressedRecord decodes the record occupying source[start:limit]: a
// ByteCode outdegree, that many (gap, offset) ByteCode pairs where gap is
// the successor id delta from the previous successor, followed by the run
// body verbatim.
func NewCompressedRecord(source []byte, start, limit int) *CompressedRecord {
	pos := start
	var outdegree uint64
	outdegree, pos = bytecode.Read(source, pos)

	outgoing := make([]OutEdge, outdegree)
	var prev uint64
	for i := range outgoing {
		var gap uint64
		gap, pos = bytecode.Read(source, pos)
		successor := gap + prev
		prev = successor

		var offset uint64
		offset, pos = bytecode.Read(source, pos)
		outgoing[i] = OutEdge{Successor: successor, Offset: offset}
	}

	return &CompressedRecord{Outgoing: outgoing, Body: source[pos:limit]}
}

// Outdegree returns the number of distinct successor nodes.
func (r *CompressedRecord) Outdegree() int { return len(r.Outgoing) }

// Successor returns the successor node id at the given out-rank.
func (r *CompressedRecord) Successor(rank uint32) uint64 { return r.Outgoing[rank].Successor }

// Offset returns the cumulative LF base for the given out-rank.
func (r *CompressedRecord) Offset(rank uint32) uint64 { return r.Outgoing[rank].Offset }

// EdgeTo returns the out-rank of successor `to`, or Outdegree() if missing.
func (r *CompressedRecord) EdgeTo(to uint64) uint32 {
	for rank := 0; rank < len(r.Outgoing); rank++ {
		if r.Outgoing[rank].Successor == to {
			return uint32(rank)
		}
	}
	return uint32(len(r.Outgoing))
}

func (r *CompressedRecord) sigma() uint32 { return uint32(len(r.Outgoing)) }

// Size returns the total number of BWT positions encoded in the body.
func (r *CompressedRecord) Size() uint64 {
	if r.Outdegree() == 0 {
		return 0
	}
	var result uint64
	for it := NewIterator(r); !it.End(); it.Next() {
		result += it.Run().Length
	}
	return result
}

// Runs returns the number of runs in the body.
func (r *CompressedRecord) Runs() int {
	if r.Outdegree() == 0 {
		return 0
	}
	n := 0
	for it := NewIterator(r); !it.End(); it.Next() {
		n++
	}
	return n
}

// At returns the successor node id at BWT body position i, or
// core.ENDMARKER when i is out of range.
func (r *CompressedRecord) At(i uint64) uint64 {
	if r.Outdegree() == 0 {
		return core.ENDMARKER
	}
	for it := NewIterator(r); !it.End(); it.Next() {
		if it.Offset() > i {
			return r.Successor(it.Run().Rank)
		}
	}
	return core.ENDMARKER
}

// LF maps BWT position i to the corresponding (destination-node,
// destination-rank) edge. Returns core.InvalidEdge() when i is out of range.
func (r *CompressedRecord) LF(i uint64) core.Edge {
	if r.Outdegree() == 0 {
		return core.InvalidEdge()
	}
	for it := NewFullIterator(r); !it.End(); it.Next() {
		if it.Offset() > i {
			edge := it.Edge()
			edge.Offset -= it.Offset() - i
			return edge
		}
	}
	return core.InvalidEdge()
}

// LFTo maps BWT position i through the edge to successor `to`, returning
// the destination rank, or core.InvalidOffset when `to` is not a successor.
func (r *CompressedRecord) LFTo(i uint64, to uint64) uint64 {
	outrank := r.EdgeTo(to)
	if int(outrank) >= r.Outdegree() {
		return core.InvalidOffset
	}
	it := NewRankIterator(r, outrank)
	for !it.End() && it.Offset() < i {
		it.Next()
	}
	return it.RankAt(i)
}

// LFRange maps the closed range `rng` through the edge to successor `to`.
// An empty range or missing target yields core.EmptyRange().
func (r *CompressedRecord) LFRange(rng core.Range, to uint64) core.Range {
	if rng.Empty() {
		return core.EmptyRange()
	}
	outrank := r.EdgeTo(to)
	if int(outrank) >= r.Outdegree() {
		return core.EmptyRange()
	}
	it := NewRankIterator(r, outrank)
	for !it.End() && it.Offset() < rng.First {
		it.Next()
	}
	first := it.RankAt(rng.First)
	for !it.End() && it.Offset() <= rng.Last {
		it.Next()
	}
	last := it.RankAt(rng.Last+1) - 1
	return core.Range{First: first, Last: last}
}

// Iterator is a plain cursor over the (out-rank, run-length) pairs of a
// record's body, tracking the cumulative BWT offset reached so far.
type Iterator struct {
	rec    *CompressedRecord
	pos    int
	run    runcode.Run
	offset uint64
	done   bool
}

// NewIterator returns an iterator positioned at the first run, if any.
func NewIterator(rec *CompressedRecord) *Iterator {
	it := &Iterator{rec: rec}
	it.advance()
	return it
}

func (it *Iterator) advance() {
	if it.pos >= len(it.rec.Body) {
		it.done = true
		return
	}
	it.run, it.pos = runcode.Read(it.rec.Body, it.pos, it.rec.sigma())
	it.offset += it.run.Length
}

// End reports whether the iterator has exhausted the body.
func (it *Iterator) End() bool { return it.done }

// Run returns the current run.
func (it *Iterator) Run() runcode.Run { return it.run }

// Offset returns the cumulative BWT offset reached after the current run.
func (it *Iterator) Offset() uint64 { return it.offset }

// Next decodes the following run.
func (it *Iterator) Next() { it.advance() }

// FullIterator additionally tracks the running per-out-rank occurrence
// count, exposing the destination edge reached after each run.
type FullIterator struct {
	rec     *CompressedRecord
	pos     int
	run     runcode.Run
	offset  uint64
	running []uint64
	done    bool
}

// NewFullIterator returns a full iterator positioned at the first run.
func NewFullIterator(rec *CompressedRecord) *FullIterator {
	it := &FullIterator{rec: rec, running: make([]uint64, rec.Outdegree())}
	it.advance()
	return it
}

func (it *FullIterator) advance() {
	if it.pos >= len(it.rec.Body) {
		it.done = true
		return
	}
	it.run, it.pos = runcode.Read(it.rec.Body, it.pos, it.rec.sigma())
	it.running[it.run.Rank] += it.run.Length
	it.offset += it.run.Length
}

// End reports whether the iterator has exhausted the body.
func (it *FullIterator) End() bool { return it.done }

// Offset returns the cumulative BWT offset reached after the current run.
func (it *FullIterator) Offset() uint64 { return it.offset }

// Edge returns the destination edge reached by the current run: the
// current run's successor, and that out-rank's LF base plus its running
// occurrence count including the current run.
func (it *FullIterator) Edge() core.Edge {
	rank := it.run.Rank
	return core.Edge{Node: it.rec.Successor(rank), Offset: it.rec.Offset(rank) + it.running[rank]}
}

// Next decodes the following run.
func (it *FullIterator) Next() { it.advance() }

// RankIterator tracks only the running occurrence count of a single fixed
// out-rank, for driving LF queries against one target successor.
type RankIterator struct {
	rec       *CompressedRecord
	outrank   uint32
	pos       int
	run       runcode.Run
	offset    uint64
	rankCount uint64
	done      bool
}

// NewRankIterator returns a rank iterator fixed to out-rank `outrank`,
// positioned at the first run.
func NewRankIterator(rec *CompressedRecord, outrank uint32) *RankIterator {
	it := &RankIterator{rec: rec, outrank: outrank}
	it.advance()
	return it
}

func (it *RankIterator) advance() {
	if it.pos >= len(it.rec.Body) {
		it.done = true
		return
	}
	it.run, it.pos = runcode.Read(it.rec.Body, it.pos, it.rec.sigma())
	if it.run.Rank == it.outrank {
		it.rankCount += it.run.Length
	}
	it.offset += it.run.Length
}

// End reports whether the iterator has exhausted the body.
func (it *RankIterator) End() bool { return it.done }

// Offset returns the cumulative BWT offset reached after the current run.
func (it *RankIterator) Offset() uint64 { return it.offset }

// Next decodes the following run.
func (it *RankIterator) Next() { it.advance() }

// RankAt returns the destination rank for source position i, assuming the
// iterator has already been advanced to the run containing (or just past)
// i. Mirrors record.DynamicRecord's LFTo overshoot correction.
func (it *RankIterator) RankAt(i uint64) uint64 {
	result := it.rec.Outgoing[it.outrank].Offset + it.rankCount
	if it.run.Rank == it.outrank {
		result -= it.offset - i
	}
	return result
}
