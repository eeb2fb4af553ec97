// Package record implements DynamicRecord, the per-node mutable BWT record
// used during construction.
package record

import (
	"sort"

	"github.com/JervenBolleman/gbwt/core"
	"github.com/JervenBolleman/gbwt/runcode"
)

// InEdge is one entry of a record's incoming list: a predecessor node and
// how many BWT positions arrive from it.
type InEdge struct {
	Predecessor uint64
	Count       uint64
}

// OutEdge is one entry of a record's outgoing list: a successor node and
// the cumulative LF base (the starting rank, within the successor's
// record, of the first body position transitioning to it).
type OutEdge struct {
	Successor uint64
	Offset    uint64
}

// Sample is one (offset-in-body, sequence-id) document-array sample.
type Sample struct {
	Offset     uint64
	SequenceID uint64
}

// DynamicRecord is the mutable BWT record for a single node: its incoming
// and outgoing edge lists, the run-length body, and any document-array
// samples attached to its positions.
type DynamicRecord struct {
	BodySize uint64
	Incoming []InEdge
	Outgoing []OutEdge
	Body     []runcode.Run
	Ids      []Sample
}

// Size returns body_size, the total number of BWT positions whose
// preceding node is this record's node.
func (r *DynamicRecord) Size() uint64 { return r.BodySize }

// Empty reports whether the record has no body positions.
func (r *DynamicRecord) Empty() bool { return r.BodySize == 0 }

// Runs returns the number of runs in the body.
func (r *DynamicRecord) Runs() int { return len(r.Body) }

// Indegree returns the number of distinct predecessor nodes.
func (r *DynamicRecord) Indegree() int { return len(r.Incoming) }

// Outdegree returns the number of distinct successor nodes.
func (r *DynamicRecord) Outdegree() int { return len(r.Outgoing) }

// Samples returns the number of document-array samples stored in this
// record.
func (r *DynamicRecord) Samples() int { return len(r.Ids) }

// Successor returns the successor node id at the given out-rank.
func (r *DynamicRecord) Successor(rank uint32) uint64 { return r.Outgoing[rank].Successor }

// Offset returns the cumulative LF base for the given out-rank.
func (r *DynamicRecord) Offset(rank uint32) uint64 { return r.Outgoing[rank].Offset }

// Predecessor returns the predecessor node id at the given in-rank.
func (r *DynamicRecord) Predecessor(rank int) uint64 { return r.Incoming[rank].Predecessor }

// Count returns the number of BWT positions arriving from the predecessor
// at the given in-rank.
func (r *DynamicRecord) Count(rank int) uint64 { return r.Incoming[rank].Count }

// EdgeTo returns the out-rank of successor `to`, or Outdegree() if `to` is
// not a successor of this record.
func (r *DynamicRecord) EdgeTo(to uint64) uint32 {
	for rank := 0; rank < len(r.Outgoing); rank++ {
		if r.Outgoing[rank].Successor == to {
			return uint32(rank)
		}
	}
	return uint32(len(r.Outgoing))
}

// AddOutgoing appends a new outgoing edge to `to` with a zero LF base
// (to be filled in by the caller once the successor's incoming list is
// known) and returns its out-rank.
func (r *DynamicRecord) AddOutgoing(to uint64) uint32 {
	r.Outgoing = append(r.Outgoing, OutEdge{Successor: to})
	return uint32(len(r.Outgoing) - 1)
}

// SetOffset overwrites the cached LF base for the given out-rank.
func (r *DynamicRecord) SetOffset(rank uint32, offset uint64) {
	r.Outgoing[rank].Offset = offset
}

// LF maps BWT position i to the corresponding (destination-node,
// destination-rank) edge. Returns core.InvalidEdge() when i is out of
// range.
func (r *DynamicRecord) LF(i uint64) core.Edge {
	if i >= r.BodySize {
		return core.InvalidEdge()
	}

	running := make([]uint64, len(r.Outgoing))
	for idx := range r.Outgoing {
		running[idx] = r.Outgoing[idx].Offset
	}

	var lastRank uint32
	var offset uint64
	for _, run := range r.Body {
		lastRank = run.Rank
		running[run.Rank] += run.Length
		offset += run.Length
		if offset > i {
			break
		}
	}

	result := core.Edge{Node: r.Outgoing[lastRank].Successor, Offset: running[lastRank] - (offset - i)}
	return result
}

// LFTo maps BWT position i through the edge to successor `to`, returning
// the destination rank, or core.InvalidOffset when `to` is not a successor.
func (r *DynamicRecord) LFTo(i uint64, to uint64) uint64 {
	outRank := r.EdgeTo(to)
	if int(outRank) >= len(r.Outgoing) {
		return core.InvalidOffset
	}

	result := r.Outgoing[outRank].Offset
	var offset uint64
	for _, run := range r.Body {
		if run.Rank == outRank {
			result += run.Length
		}
		offset += run.Length
		if offset >= i {
			if run.Rank == outRank {
				result -= offset - i
			}
			break
		}
	}
	return result
}

// LFRange maps the closed range `rng` through the edge to successor `to`.
// An empty range or missing target yields core.EmptyRange().
func (r *DynamicRecord) LFRange(rng core.Range, to uint64) core.Range {
	if rng.Empty() {
		return core.EmptyRange()
	}
	outRank := r.EdgeTo(to)
	if int(outRank) >= len(r.Outgoing) || len(r.Body) == 0 {
		return core.EmptyRange()
	}

	idx := 0
	run := r.Body[idx]
	result := r.Outgoing[outRank].Offset
	if run.Rank == outRank {
		result += run.Length
	}
	offset := run.Length

	for offset < rng.First {
		idx++
		if idx == len(r.Body) {
			break
		}
		run = r.Body[idx]
		if run.Rank == outRank {
			result += run.Length
		}
		offset += run.Length
	}
	start := result
	if run.Rank == outRank {
		start -= offset - rng.First
	}

	for offset <= rng.Last {
		idx++
		if idx == len(r.Body) {
			break
		}
		run = r.Body[idx]
		if run.Rank == outRank {
			result += run.Length
		}
		offset += run.Length
	}
	last := result - 1
	if run.Rank == outRank {
		last -= offset - (rng.Last + 1)
	}

	return core.Range{First: start, Last: last}
}

// At returns the successor node id at BWT body position i, or
// core.ENDMARKER when i is out of range.
func (r *DynamicRecord) At(i uint64) uint64 {
	if i >= r.BodySize {
		return core.ENDMARKER
	}
	var offset uint64
	for _, run := range r.Body {
		offset += run.Length
		if offset > i {
			return r.Outgoing[run.Rank].Successor
		}
	}
	return core.ENDMARKER
}

// Increment records one more BWT position arriving from predecessor
// `from`, inserting and re-sorting the incoming list if `from` is new.
func (r *DynamicRecord) Increment(from uint64) {
	for i := range r.Incoming {
		if r.Incoming[i].Predecessor == from {
			r.Incoming[i].Count++
			return
		}
	}
	r.Incoming = append(r.Incoming, InEdge{Predecessor: from, Count: 1})
	sort.Slice(r.Incoming, func(i, j int) bool {
		return r.Incoming[i].Predecessor < r.Incoming[j].Predecessor
	})
}

// Recode re-labels out-ranks so that successor node ids in Outgoing are
// strictly increasing, as required before serialization. A no-op if the
// outgoing list is already sorted.
func (r *DynamicRecord) Recode() {
	if len(r.Outgoing) == 0 {
		return
	}
	sorted := true
	for rank := 1; rank < len(r.Outgoing); rank++ {
		if r.Outgoing[rank].Successor < r.Outgoing[rank-1].Successor {
			sorted = false
			break
		}
	}
	if sorted {
		return
	}

	for i := range r.Body {
		r.Body[i].Rank = uint32(r.Outgoing[r.Body[i].Rank].Successor)
	}
	sort.Slice(r.Outgoing, func(i, j int) bool {
		return r.Outgoing[i].Successor < r.Outgoing[j].Successor
	})
	for i := range r.Body {
		r.Body[i].Rank = r.EdgeTo(uint64(r.Body[i].Rank))
	}
}

// InsertAt splices a single new occurrence of out-rank `rank` into the
// body at position `offset`, merging with adjacent same-rank runs and
// shifting the offsets of any recorded samples at or after `offset`. It
// returns the number of existing body positions with the same out-rank
// that were strictly before `offset` (the new row's local rank within the
// out-rank's block, needed by the caller to compute the destination
// record's insertion position).
func (r *DynamicRecord) InsertAt(offset uint64, rank uint32) uint64 {
	var pos uint64
	var localBefore uint64
	idx := 0
	for idx < len(r.Body) {
		run := r.Body[idx]
		if pos+run.Length > offset {
			break
		}
		if run.Rank == rank {
			localBefore += run.Length
		}
		pos += run.Length
		idx++
	}

	if idx < len(r.Body) {
		run := r.Body[idx]
		within := offset - pos
		if run.Rank == rank {
			r.Body[idx].Length++
			localBefore += within
		} else {
			var replacement []runcode.Run
			if within > 0 {
				replacement = append(replacement, runcode.Run{Rank: run.Rank, Length: within})
			}
			replacement = append(replacement, runcode.Run{Rank: rank, Length: 1})
			if run.Length-within > 0 {
				replacement = append(replacement, runcode.Run{Rank: run.Rank, Length: run.Length - within})
			}
			tail := append([]runcode.Run{}, r.Body[idx+1:]...)
			r.Body = append(append(r.Body[:idx], replacement...), tail...)
		}
	} else if len(r.Body) > 0 && r.Body[len(r.Body)-1].Rank == rank {
		r.Body[len(r.Body)-1].Length++
	} else {
		r.Body = append(r.Body, runcode.Run{Rank: rank, Length: 1})
	}

	r.BodySize++
	for i := range r.Ids {
		if r.Ids[i].Offset >= offset {
			r.Ids[i].Offset++
		}
	}
	r.normalizeBody()
	return localBefore
}

// AddSample records a document-array sample at the given body offset.
func (r *DynamicRecord) AddSample(offset uint64, sequenceID uint64) {
	r.Ids = append(r.Ids, Sample{Offset: offset, SequenceID: sequenceID})
}

// normalizeBody merges adjacent runs that share the same out-rank.
// Consecutive runs with the same out-rank are forbidden in a serialized
// record, so this must run before Recode.
func (r *DynamicRecord) normalizeBody() {
	out := r.Body[:0]
	for _, run := range r.Body {
		if run.Length == 0 {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Rank == run.Rank {
			out[n-1].Length += run.Length
		} else {
			out = append(out, run)
		}
	}
	r.Body = out
}
