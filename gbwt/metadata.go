package gbwt

import (
	"io"

	"github.com/JervenBolleman/gbwt/bytecode"
)

// PathName is a human-readable label for one stored sequence: a (sample,
// contig, phase, count) tuple identifying where a path came from. This has
// no C++ source counterpart in the retrieved pack; it is a supplemental
// addition for attaching names to sequence ids.
type PathName struct {
	Sample uint64
	Contig uint64
	Phase  uint64
	Count  uint64
}

// Metadata is the optional side-table attaching PathNames to sequence ids.
// Nil is a valid, empty Metadata; attaching metadata is entirely additive
// and never required to answer a navigation query.
type Metadata struct {
	Names []PathName
}

// SetMetadata attaches (or replaces) the path-name side-table and sets the
// has-metadata header flag.
func (g *DynamicGBWT) SetMetadata(m *Metadata) {
	g.metadata = m
	if m != nil {
		g.header.Flags |= flagHasMetadata
	} else {
		g.header.Flags &^= flagHasMetadata
	}
}

// Metadata returns the currently attached path-name side-table, or nil.
func (g *DynamicGBWT) Metadata() *Metadata { return g.metadata }

// Metadata returns the frozen index's path-name side-table, or nil if none
// was serialized.
func (g *GBWT) Metadata() *Metadata { return g.metadata }

// rebaseMetadata appends src's names to dst in place (allocating dst when
// it is nil) and returns dst. Names is indexed by sequence id, so appending
// shifts src's entries by len(dst.Names); the PathName fields are copied
// unchanged.
func rebaseMetadata(dst, src *Metadata) *Metadata {
	if src == nil {
		return dst
	}
	if dst == nil {
		dst = &Metadata{}
	}
	dst.Names = append(dst.Names, src.Names...)
	return dst
}

func writeMetadata(w io.Writer, m *Metadata) (int64, error) {
	var buf []byte
	if m == nil {
		buf = bytecode.Write(buf, 0)
	} else {
		buf = bytecode.Write(buf, uint64(len(m.Names)))
		for _, n := range m.Names {
			buf = bytecode.Write(buf, n.Sample)
			buf = bytecode.Write(buf, n.Contig)
			buf = bytecode.Write(buf, n.Phase)
			buf = bytecode.Write(buf, n.Count)
		}
	}
	written, err := w.Write(buf)
	return int64(written), err
}

func readMetadata(r io.Reader) (*Metadata, int64, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, int64(len(raw)), err
	}
	pos := 0
	var count uint64
	count, pos = bytecode.Read(raw, pos)
	if count == 0 {
		return nil, int64(pos), nil
	}
	names := make([]PathName, count)
	for i := range names {
		var sample, contig, phase, cnt uint64
		sample, pos = bytecode.Read(raw, pos)
		contig, pos = bytecode.Read(raw, pos)
		phase, pos = bytecode.Read(raw, pos)
		cnt, pos = bytecode.Read(raw, pos)
		names[i] = PathName{Sample: sample, Contig: contig, Phase: phase, Count: cnt}
	}
	return &Metadata{Names: names}, int64(pos), nil
}
