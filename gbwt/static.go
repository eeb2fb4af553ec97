package gbwt

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/JervenBolleman/gbwt/core"
	"github.com/JervenBolleman/gbwt/dasamples"
	"github.com/JervenBolleman/gbwt/gbwterr"
	"github.com/JervenBolleman/gbwt/internal/parallel"
	"github.com/JervenBolleman/gbwt/recordarray"
)

// GBWT is the frozen, read-only index produced by DynamicGBWT.Freeze or
// loaded from disk. All navigation methods are safe for concurrent use;
// nothing on this type mutates after construction.
type GBWT struct {
	header   Header
	bwt      *recordarray.RecordArray
	samples  *dasamples.DASamples
	metadata *Metadata
}

// Size returns the total number of BWT positions stored.
func (g *GBWT) Size() uint64 { return g.header.Size }

// Empty reports whether the index holds no sequences.
func (g *GBWT) Empty() bool { return g.header.Size == 0 }

// Sequences returns the number of paths indexed.
func (g *GBWT) Sequences() uint64 { return g.header.Sequences }

// AlphabetSize returns sigma, one past the highest node id in use.
func (g *GBWT) AlphabetSize() uint64 { return g.header.AlphabetSize }

// Bidirectional reports whether this index was built with BuildOptions.Bidirectional
// set, carried through from DynamicGBWT.Bidirectional by Freeze/Serialize/Load.
func (g *GBWT) Bidirectional() bool { return g.header.bidirectional() }

// Contains reports whether node is a valid, addressable node id.
func (g *GBWT) Contains(node uint64) bool {
	return (node < g.header.AlphabetSize && node > g.header.Offset) || node == core.ENDMARKER
}

// Count returns the number of BWT positions whose record is node.
func (g *GBWT) Count(node uint64) uint64 {
	if !g.Contains(node) {
		return 0
	}
	return g.bwt.Record(int(node)).Size()
}

// LF maps BWT position i of node's record forward.
func (g *GBWT) LF(node uint64, i uint64) core.Edge {
	return g.bwt.Record(int(node)).LF(i)
}

// LFTo maps BWT position i of node's record forward through the edge to
// `to`.
func (g *GBWT) LFTo(node uint64, i uint64, to uint64) uint64 {
	return g.bwt.Record(int(node)).LFTo(i, to)
}

// LFRange maps a closed range of node's record forward through the edge to
// `to`.
func (g *GBWT) LFRange(node uint64, rng core.Range, to uint64) core.Range {
	return g.bwt.Record(int(node)).LFRange(rng, to)
}

// TryLocate returns the sequence id sampled at BWT position i of node's
// record, or core.InvalidSequence if that position was not sampled.
func (g *GBWT) TryLocate(node uint64, i uint64) uint64 {
	return g.samples.TryLocate(int(node), i)
}

// Locate walks backward from (node, i) through LF until a sampled position
// resolves a sequence id. Because every non-start node is sampled at
// SampleInterval spacing and every path's first position is always
// sampled, the walk is bounded by the sampling density.
func (g *GBWT) Locate(node uint64, i uint64) (uint64, error) {
	steps := uint64(0)
	for {
		if seq := g.TryLocate(node, i); seq != core.InvalidSequence {
			return seq, nil
		}
		edge := g.LF(node, i)
		if edge.Offset == core.InvalidOffset {
			return 0, gbwterr.NewUsageError("locate: reached an unsampled dead end")
		}
		node, i = edge.Node, edge.Offset
		steps++
		if steps > g.header.Size+1 {
			return 0, gbwterr.NewUsageError("locate: exceeded index size without finding a sample")
		}
	}
}

// Extract reconstructs the full node sequence of path `sequenceID` by
// following LF forward from its ENDMARKER occurrence. ENDMARKER's body
// offsets are assigned in strict insertion order (DynamicGBWT.insertPath
// appends each new path's row at the then-current end of ENDMARKER's
// body in lockstep with assigning it the next sequence id), so
// sequenceID itself is that starting offset; no sample lookup is needed.
func (g *GBWT) Extract(sequenceID uint64) ([]uint64, error) {
	if sequenceID >= g.header.Sequences {
		return nil, gbwterr.NewUsageError("extract: sequence id out of range")
	}

	var path []uint64
	node, offset := core.ENDMARKER, sequenceID
	for {
		edge := g.LF(node, offset)
		if edge.Offset == core.InvalidOffset || edge.Node == core.ENDMARKER {
			break
		}
		path = append(path, edge.Node)
		node, offset = edge.Node, edge.Offset
	}
	return path, nil
}

// Freeze recodes every record's outgoing list into sorted order and builds
// the frozen RecordArray/DASamples pair backing a GBWT, the handoff from
// construction to read-only navigation. Recode operates only on the fields
// of its own receiver, so recoding every record is embarrassingly parallel;
// BuildOptions.Parallel selects internal/parallel.ForEach over Sequential to
// run it.
func (g *DynamicGBWT) Freeze() (*GBWT, error) {
	recode := parallel.Sequential
	if g.opts.Parallel {
		recode = parallel.ForEach
	}
	bwt := g.bwt
	if err := recode(context.Background(), len(bwt), func(_ context.Context, i int) error {
		bwt[i].Recode()
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "gbwt: freeze: recode records")
	}
	return &GBWT{
		header:   g.header,
		bwt:      recordarray.New(g.bwt),
		samples:  dasamples.New(g.bwt),
		metadata: g.metadata,
	}, nil
}

// Serialize writes the frozen index to path on fs: header, record array,
// then document-array samples, each self-delimiting.
func (g *GBWT) Serialize(fs afero.Fs, path string) error {
	f, err := fs.Create(path)
	if err != nil {
		return errors.Wrap(err, "gbwt: create output file")
	}
	defer f.Close()

	if _, err := g.header.writeTo(f); err != nil {
		return errors.Wrap(err, "gbwt: write header")
	}
	if _, err := g.bwt.WriteTo(f); err != nil {
		return errors.Wrap(err, "gbwt: write record array")
	}
	if _, err := g.samples.WriteTo(f); err != nil {
		return errors.Wrap(err, "gbwt: write document array samples")
	}
	if g.header.hasMetadata() {
		if _, err := writeMetadata(f, g.metadata); err != nil {
			return errors.Wrap(err, "gbwt: write metadata")
		}
	}
	return nil
}

// Load reads a frozen index previously written by Serialize.
func Load(fs afero.Fs, path string) (*GBWT, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "gbwt: open input file")
	}
	defer f.Close()
	return readGBWT(f)
}

func readGBWT(r io.Reader) (*GBWT, error) {
	header, _, err := readHeader(r)
	if err != nil {
		return nil, errors.Wrap(err, "gbwt: read header")
	}
	bwt, _, err := recordarray.ReadFrom(r)
	if err != nil {
		return nil, errors.Wrap(err, "gbwt: read record array")
	}
	samples, _, err := dasamples.ReadFrom(r)
	if err != nil {
		return nil, errors.Wrap(err, "gbwt: read document array samples")
	}
	var metadata *Metadata
	if header.hasMetadata() {
		metadata, _, err = readMetadata(r)
		if err != nil {
			return nil, errors.Wrap(err, "gbwt: read metadata")
		}
	}
	return &GBWT{header: header, bwt: bwt, samples: samples, metadata: metadata}, nil
}

// Serialize freezes g and writes the resulting index to path on fs, the
// construction-to-query handoff collapsed into a single call for callers
// that don't need the intermediate *GBWT value.
func (g *DynamicGBWT) Serialize(fs afero.Fs, path string) error {
	frozen, err := g.Freeze()
	if err != nil {
		return err
	}
	return frozen.Serialize(fs, path)
}
