// Package gbwt assembles the per-package building blocks (core, record,
// compressed, recordarray, dasamples, bitvec) into the two top-level types
// construction code actually uses: DynamicGBWT (mutable, for building and
// inserting paths) and GBWT (frozen, for querying).
package gbwt

import (
	"io"

	"github.com/pkg/errors"

	"github.com/JervenBolleman/gbwt/bytecode"
	"github.com/JervenBolleman/gbwt/core"
	"github.com/JervenBolleman/gbwt/gbwterr"
	"github.com/JervenBolleman/gbwt/record"
)

// DynamicGBWT is the mutable index used during construction: one
// record.DynamicRecord per node, indexed directly by node id (index 0 is
// always core.ENDMARKER's record).
type DynamicGBWT struct {
	header   Header
	bwt      []*record.DynamicRecord
	opts     BuildOptions
	metadata *Metadata
}

// NewDynamicGBWT returns an empty index ready to accept paths via Insert.
func NewDynamicGBWT(opts BuildOptions) *DynamicGBWT {
	header := Header{AlphabetSize: 1}
	if opts.Bidirectional {
		header.Flags |= flagBidirectional
	}
	return &DynamicGBWT{
		header: header,
		bwt:    []*record.DynamicRecord{{}},
		opts:   opts,
	}
}

// Bidirectional reports whether this index was built with BuildOptions.Bidirectional
// set, the flag this index's header carries through Freeze/Serialize/Load.
func (g *DynamicGBWT) Bidirectional() bool { return g.header.bidirectional() }

// Size returns the total number of BWT positions stored.
func (g *DynamicGBWT) Size() uint64 { return g.header.Size }

// Empty reports whether the index holds no sequences.
func (g *DynamicGBWT) Empty() bool { return g.header.Size == 0 }

// Sequences returns the number of paths inserted so far.
func (g *DynamicGBWT) Sequences() uint64 { return g.header.Sequences }

// AlphabetSize returns sigma, one past the highest node id in use.
func (g *DynamicGBWT) AlphabetSize() uint64 { return g.header.AlphabetSize }

// Contains reports whether node is a valid, addressable node id: either
// core.ENDMARKER, or strictly within (offset, alphabet_size). Since this
// implementation never carries a reserved low dead range, Offset is always
// 0 and this reduces to node < AlphabetSize.
func (g *DynamicGBWT) Contains(node uint64) bool {
	return (node < g.header.AlphabetSize && node > g.header.Offset) || node == core.ENDMARKER
}

// Count returns the number of BWT positions whose record is node.
func (g *DynamicGBWT) Count(node uint64) uint64 {
	if !g.Contains(node) {
		return 0
	}
	return g.record(node).Size()
}

// record returns the live DynamicRecord for node, growing the backing
// slice first if node has not been seen before.
func (g *DynamicGBWT) record(node uint64) *record.DynamicRecord {
	g.ensureNode(node)
	return g.bwt[node]
}

func (g *DynamicGBWT) ensureNode(node uint64) {
	if node < uint64(len(g.bwt)) {
		return
	}
	for uint64(len(g.bwt)) <= node {
		g.bwt = append(g.bwt, &record.DynamicRecord{})
	}
	if node+1 > g.header.AlphabetSize {
		g.header.AlphabetSize = node + 1
	}
}

// LF maps BWT position i of node's record forward. See core.InvalidEdge.
func (g *DynamicGBWT) LF(node uint64, i uint64) core.Edge {
	return g.record(node).LF(i)
}

// LFTo maps BWT position i of node's record forward through the edge to
// `to`. See core.InvalidOffset.
func (g *DynamicGBWT) LFTo(node uint64, i uint64, to uint64) uint64 {
	return g.record(node).LFTo(i, to)
}

// LFRange maps a closed range of node's record forward through the edge to
// `to`. See core.EmptyRange.
func (g *DynamicGBWT) LFRange(node uint64, rng core.Range, to uint64) core.Range {
	return g.record(node).LFRange(rng, to)
}

// Insert appends one or more paths to the index. text is the concatenation
// of paths, each terminated by core.ENDMARKER (0); new sequences receive
// ids starting from Sequences().
func (g *DynamicGBWT) Insert(text []uint64) error {
	logger := g.opts.logger()
	start := 0
	for i, node := range text {
		if node != core.ENDMARKER {
			continue
		}
		path := text[start:i]
		if err := g.insertPath(path); err != nil {
			return errors.Wrap(err, "gbwt: insert")
		}
		start = i + 1
	}
	if start != len(text) {
		return gbwterr.NewUsageError("insert: text must end with an endmarker")
	}
	logger.Debug("gbwt: inserted batch", "sequences", g.header.Sequences, "size", g.header.Size)
	return nil
}

// InsertBuffered reads a ByteCode-encoded stream of node ids (as written by
// bytecode.Write) and inserts it in chunks, after the manner of
// DynamicGBWT::insert(text_buffer_type&, batch_size). The whole encoded
// stream is read into memory first. A chunk is passed to Insert as soon as
// it holds at least batchSize nodes and ends with an endmarker, so a chunk
// can exceed batchSize by up to one path; the remainder goes to a final
// Insert call. batchSize <= 0 uses BuildOptions.BatchSize, or
// DefaultInsertBatchSize when that is also unset.
func (g *DynamicGBWT) InsertBuffered(r io.Reader, batchSize int) error {
	if batchSize <= 0 {
		batchSize = g.opts.batchSize()
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "gbwt: read buffered text")
	}

	var batch []uint64
	pos := 0
	for pos < len(raw) {
		var v uint64
		v, pos = bytecode.Read(raw, pos)
		batch = append(batch, v)
		if v == core.ENDMARKER && len(batch) >= batchSize {
			if err := g.Insert(batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := g.Insert(batch); err != nil {
			return err
		}
	}
	return nil
}

// insertPath threads one path forward through the index, one occurrence at
// a time. Each node of the path, followed by an implicit terminating
// core.ENDMARKER, contributes exactly one new body row to the record of
// the node that precedes it.
//
// Every step recomputes the full set of cached Outgoing offsets on the
// successor's predecessors (refreshOffsets) rather than trying to patch
// just the one predecessor touched by this step: inserting into one
// predecessor's block shifts the cumulative base of every predecessor
// sorted after it. Recomputing all of them is more work than a precise
// incremental update, but it is simple to get right, and correctness
// rather than construction speed is the contract here.
func (g *DynamicGBWT) insertPath(path []uint64) error {
	for _, node := range path {
		if node == core.ENDMARKER {
			return gbwterr.NewUsageError("insert: embedded endmarker in path")
		}
	}

	seqID := g.header.Sequences
	interval := g.opts.sampleInterval()

	predNode := core.ENDMARKER
	predRecord := g.record(predNode)
	// Every call appends exactly one row to ENDMARKER's body, at its
	// current end, and seqID is assigned in that same lockstep order:
	// ENDMARKER's body offset i always equals the id of the i-th inserted
	// sequence. ENDMARKER's own record is never sampled (see below), so
	// Extract and Locate rely on this identity directly instead.
	insertOffset := predRecord.Size()

	full := make([]uint64, 0, len(path)+1)
	full = append(full, path...)
	full = append(full, core.ENDMARKER)

	for step, nextNode := range full {
		predRecord = g.record(predNode)
		g.ensureNode(nextNode)
		succRecord := g.record(nextNode)

		outRank := predRecord.EdgeTo(nextNode)
		if int(outRank) == predRecord.Outdegree() {
			outRank = predRecord.AddOutgoing(nextNode)
		}

		localBefore := predRecord.InsertAt(insertOffset, outRank)

		// step 0 threads the synthetic ENDMARKER -> path[0] edge through
		// ENDMARKER's own record, which is never the target of sampling:
		// pathPos counts body positions along the path itself, starting at
		// path[0]'s record (step 1), so the unconditional "first position
		// of a new path" sample (pathPos == 0) and every interval-th one
		// after it always land on a real node's record.
		if pathPos := step - 1; step >= 1 && pathPos%interval == 0 {
			predRecord.AddSample(insertOffset, seqID)
		}

		succRecord.Increment(predNode)
		g.refreshOffsets(nextNode, succRecord)

		insertOffset = predRecord.Offset(outRank) + localBefore
		predNode = nextNode
	}

	g.header.Sequences++
	g.header.Size += uint64(len(full))
	return nil
}

// refreshOffsets recomputes the cached LF base (Outgoing[rank].Offset) on
// every predecessor of succRecord, in incoming order. Grounded on
// support.cpp's DynamicRecord bookkeeping: a predecessor's base is the sum
// of the counts of every predecessor sorted before it.
func (g *DynamicGBWT) refreshOffsets(succNode uint64, succRecord *record.DynamicRecord) {
	var base uint64
	for rank := 0; rank < succRecord.Indegree(); rank++ {
		pred := succRecord.Predecessor(rank)
		predRecord := g.record(pred)
		outRank := predRecord.EdgeTo(succNode)
		predRecord.SetOffset(outRank, base)
		base += succRecord.Count(rank)
	}
}

// TryLocate returns the sequence id sampled at BWT position i of node's
// record, or core.InvalidSequence if that position was not sampled.
func (g *DynamicGBWT) TryLocate(node uint64, i uint64) uint64 {
	rec := g.record(node)
	for _, sample := range rec.Ids {
		if sample.Offset == i {
			return sample.SequenceID
		}
	}
	return core.InvalidSequence
}
