package record_test

import (
	"testing"

	"github.com/JervenBolleman/gbwt/core"
	"github.com/JervenBolleman/gbwt/record"
	"github.com/JervenBolleman/gbwt/runcode"
	"github.com/stretchr/testify/require"
)

func TestEdgeToMissing(t *testing.T) {
	r := &record.DynamicRecord{Outgoing: []record.OutEdge{{Successor: 5}, {Successor: 8}}}
	require.Equal(t, uint32(0), r.EdgeTo(5))
	require.Equal(t, uint32(1), r.EdgeTo(8))
	require.Equal(t, uint32(2), r.EdgeTo(99))
}

func TestInsertAtGrowsBodyAndMerges(t *testing.T) {
	r := &record.DynamicRecord{Outgoing: []record.OutEdge{{Successor: 3}, {Successor: 4}}}

	localBefore := r.InsertAt(0, 0)
	require.Equal(t, uint64(0), localBefore)
	require.Equal(t, uint64(1), r.Size())
	require.Equal(t, []runcode.Run{{Rank: 0, Length: 1}}, r.Body)

	localBefore = r.InsertAt(1, 0)
	require.Equal(t, uint64(1), localBefore)
	require.Equal(t, uint64(2), r.Size())
	require.Equal(t, []runcode.Run{{Rank: 0, Length: 2}}, r.Body)

	localBefore = r.InsertAt(1, 1)
	require.Equal(t, uint64(0), localBefore)
	require.Equal(t, uint64(3), r.Size())
	require.Equal(t, []runcode.Run{{Rank: 0, Length: 1}, {Rank: 1, Length: 1}, {Rank: 0, Length: 1}}, r.Body)
}

func TestInsertAtShiftsSamples(t *testing.T) {
	r := &record.DynamicRecord{
		Outgoing: []record.OutEdge{{Successor: 3}},
		Body:     []runcode.Run{{Rank: 0, Length: 2}},
		BodySize: 2,
		Ids:      []record.Sample{{Offset: 0, SequenceID: 7}, {Offset: 1, SequenceID: 8}},
	}
	r.InsertAt(1, 0)
	require.Equal(t, []record.Sample{{Offset: 0, SequenceID: 7}, {Offset: 2, SequenceID: 8}}, r.Ids)
}

func TestLFSingleNode(t *testing.T) {
	// record for node 3 in scenario 2: body is a single run of rank 0
	// (-> node 4), offset at out-rank 0 is 0.
	r := &record.DynamicRecord{
		Outgoing: []record.OutEdge{{Successor: 4, Offset: 0}},
		Body:     []runcode.Run{{Rank: 0, Length: 1}},
		BodySize: 1,
	}
	edge := r.LF(0)
	require.Equal(t, core.Edge{Node: 4, Offset: 0}, edge)
}

func TestLFOutOfRange(t *testing.T) {
	r := &record.DynamicRecord{Outgoing: []record.OutEdge{{Successor: 4}}, Body: []runcode.Run{{Rank: 0, Length: 1}}, BodySize: 1}
	require.Equal(t, core.InvalidEdge(), r.LF(5))
}

func TestLFToAndRange(t *testing.T) {
	// Two successors, interleaved runs: ranks [0,1,0,1] each length 1 -> size 4.
	r := &record.DynamicRecord{
		Outgoing: []record.OutEdge{{Successor: 10, Offset: 100}, {Successor: 20, Offset: 200}},
		Body: []runcode.Run{
			{Rank: 0, Length: 1},
			{Rank: 1, Length: 1},
			{Rank: 0, Length: 1},
			{Rank: 1, Length: 1},
		},
		BodySize: 4,
	}

	require.Equal(t, uint64(100), r.LFTo(0, 10))
	require.Equal(t, uint64(101), r.LFTo(1, 10))
	require.Equal(t, uint64(101), r.LFTo(2, 10))
	require.Equal(t, uint64(102), r.LFTo(3, 10))

	require.Equal(t, uint64(200), r.LFTo(0, 20))
	require.Equal(t, uint64(200), r.LFTo(1, 20))
	require.Equal(t, uint64(201), r.LFTo(2, 20))

	require.Equal(t, core.InvalidOffset, r.LFTo(0, 99))

	// The closed range [0,3] spans the whole record and holds two
	// occurrences of successor 10 (positions 0 and 2), so it maps to
	// [LFTo(0, 10), LFTo(4, 10) - 1] = [100, 101].
	rng := r.LFRange(core.Range{First: 0, Last: 3}, 10)
	require.Equal(t, core.Range{First: 100, Last: 101}, rng)

	empty := r.LFRange(core.EmptyRange(), 10)
	require.Equal(t, core.EmptyRange(), empty)
}

func TestAt(t *testing.T) {
	r := &record.DynamicRecord{
		Outgoing: []record.OutEdge{{Successor: 10}, {Successor: 20}},
		Body:     []runcode.Run{{Rank: 0, Length: 1}, {Rank: 1, Length: 1}},
		BodySize: 2,
	}
	require.Equal(t, uint64(10), r.At(0))
	require.Equal(t, uint64(20), r.At(1))
	require.Equal(t, core.ENDMARKER, r.At(5))
}

func TestIncrementInsertsSorted(t *testing.T) {
	r := &record.DynamicRecord{}
	r.Increment(5)
	r.Increment(2)
	r.Increment(5)
	require.Equal(t, []record.InEdge{{Predecessor: 2, Count: 1}, {Predecessor: 5, Count: 2}}, r.Incoming)
}

func TestRecodeNoopWhenSorted(t *testing.T) {
	r := &record.DynamicRecord{
		Outgoing: []record.OutEdge{{Successor: 1}, {Successor: 2}},
		Body:     []runcode.Run{{Rank: 0, Length: 1}, {Rank: 1, Length: 1}},
		BodySize: 2,
	}
	r.Recode()
	require.Equal(t, []record.OutEdge{{Successor: 1}, {Successor: 2}}, r.Outgoing)
	require.Equal(t, []runcode.Run{{Rank: 0, Length: 1}, {Rank: 1, Length: 1}}, r.Body)
}

func TestRecodeReordersOutOfOrderSuccessors(t *testing.T) {
	r := &record.DynamicRecord{
		Outgoing: []record.OutEdge{{Successor: 5, Offset: 50}, {Successor: 2, Offset: 20}},
		Body:     []runcode.Run{{Rank: 0, Length: 1}, {Rank: 1, Length: 1}, {Rank: 0, Length: 1}},
		BodySize: 3,
	}
	r.Recode()
	require.Equal(t, []record.OutEdge{{Successor: 2, Offset: 20}, {Successor: 5, Offset: 50}}, r.Outgoing)
	require.Equal(t, []runcode.Run{{Rank: 1, Length: 1}, {Rank: 0, Length: 1}, {Rank: 1, Length: 1}}, r.Body)
}
