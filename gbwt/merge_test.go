package gbwt_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JervenBolleman/gbwt"
	"github.com/JervenBolleman/gbwt/core"
)

// Scenario 6: merge. Build index A from one set of disjoint-node-id paths,
// index B from another, and confirm A.Merge(B.Freeze()) answers count/LF
// queries identically to an index built directly from the union.
func TestMerge(t *testing.T) {
	a := gbwt.NewDynamicGBWT(gbwt.BuildOptions{})
	require.NoError(t, a.Insert([]uint64{3, 4, core.ENDMARKER}))
	a.SetMetadata(&gbwt.Metadata{Names: []gbwt.PathName{{Sample: 1, Contig: 1}}})

	b := gbwt.NewDynamicGBWT(gbwt.BuildOptions{})
	require.NoError(t, b.Insert([]uint64{5, 6, core.ENDMARKER}))
	b.SetMetadata(&gbwt.Metadata{Names: []gbwt.PathName{{Sample: 2, Contig: 1}}})
	frozenB, err := b.Freeze()
	require.NoError(t, err)

	require.NoError(t, a.Merge(frozenB, 0))

	require.Equal(t, []gbwt.PathName{{Sample: 1, Contig: 1}, {Sample: 2, Contig: 1}}, a.Metadata().Names)

	require.Equal(t, uint64(2), a.Sequences())
	require.Equal(t, uint64(1), a.Count(3))
	require.Equal(t, uint64(1), a.Count(5))
	require.Equal(t, core.Edge{Node: 4, Offset: 0}, a.LF(3, 0))
	require.Equal(t, core.Edge{Node: 6, Offset: 0}, a.LF(5, 0))

	union := gbwt.NewDynamicGBWT(gbwt.BuildOptions{})
	require.NoError(t, union.Insert([]uint64{3, 4, core.ENDMARKER, 5, 6, core.ENDMARKER}))

	require.Equal(t, union.Sequences(), a.Sequences())
	require.Equal(t, union.Count(3), a.Count(3))
	require.Equal(t, union.Count(5), a.Count(5))

	frozenA, err := a.Freeze()
	require.NoError(t, err)
	extractedPaths := make([][]uint64, 0, 2)
	for seq := uint64(0); seq < frozenA.Sequences(); seq++ {
		path, err := frozenA.Extract(seq)
		require.NoError(t, err)
		extractedPaths = append(extractedPaths, path)
	}
	require.ElementsMatch(t, [][]uint64{{3, 4}, {5, 6}}, extractedPaths)
}
