package recordarray_test

import (
	"bytes"
	"testing"

	"github.com/JervenBolleman/gbwt/record"
	"github.com/JervenBolleman/gbwt/recordarray"
	"github.com/JervenBolleman/gbwt/runcode"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []*record.DynamicRecord {
	return []*record.DynamicRecord{
		{
			Outgoing: []record.OutEdge{{Successor: 1, Offset: 0}},
			Body:     []runcode.Run{{Rank: 0, Length: 2}},
			BodySize: 2,
		},
		{
			Outgoing: []record.OutEdge{{Successor: 2, Offset: 0}, {Successor: 3, Offset: 1}},
			Body:     []runcode.Run{{Rank: 0, Length: 1}, {Rank: 1, Length: 1}},
			BodySize: 2,
		},
		{},
	}
}

func TestRecordRoundTrip(t *testing.T) {
	src := sampleRecords()
	arr := recordarray.New(src)
	require.Equal(t, 3, arr.Records())

	r0 := arr.Record(0)
	require.Equal(t, uint64(2), r0.Size())
	require.Equal(t, uint64(1), r0.Successor(0))

	r1 := arr.Record(1)
	require.Equal(t, uint64(2), r1.Size())
	require.Equal(t, uint64(2), r1.Successor(0))
	require.Equal(t, uint64(3), r1.Successor(1))

	r2 := arr.Record(2)
	require.Equal(t, uint64(0), r2.Size())
	require.Equal(t, 0, r2.Outdegree())
}

func TestAtValues(t *testing.T) {
	arr := recordarray.New(sampleRecords())
	r1 := arr.Record(1)
	require.Equal(t, uint64(2), r1.At(0))
	require.Equal(t, uint64(3), r1.At(1))
}

func TestSerializeRoundTrip(t *testing.T) {
	arr := recordarray.New(sampleRecords())
	var buf bytes.Buffer
	_, err := arr.WriteTo(&buf)
	require.NoError(t, err)

	got, _, err := recordarray.ReadFrom(&buf)
	require.NoError(t, err)
	require.Equal(t, arr.Records(), got.Records())

	r0 := got.Record(0)
	require.Equal(t, uint64(2), r0.Size())
	require.Equal(t, uint64(1), r0.Successor(0))

	r1 := got.Record(1)
	require.Equal(t, uint64(2), r1.At(0))
	require.Equal(t, uint64(3), r1.At(1))
}
