package gbwt

import (
	"github.com/pkg/errors"

	"github.com/JervenBolleman/gbwt/core"
)

// Merge inserts every path of other into g. It always goes through the
// general reconstruct-then-insert path: each of other's sequences is
// extracted to its node list and threaded in through insertPath exactly as
// if it had been passed to Insert directly. A fast path exploiting disjoint
// node-id ranges between g and other (present as a FIXME in the original
// C++ source) is left unimplemented: it is an optimization, not a
// correctness requirement, and this path is always correct regardless of
// whether the two indexes' node ids overlap.
func (g *DynamicGBWT) Merge(other *GBWT, batchSize int) error {
	if batchSize <= 0 {
		batchSize = DefaultMergeBatchSize
	}
	logger := g.opts.logger()

	for seq := uint64(0); seq < other.Sequences(); seq++ {
		path, err := other.Extract(seq)
		if err != nil {
			return errors.Wrapf(err, "gbwt: merge: extract sequence %d", seq)
		}
		for _, node := range path {
			if node == core.ENDMARKER {
				return errors.Errorf("gbwt: merge: sequence %d contains an embedded endmarker", seq)
			}
		}
		if err := g.insertPath(path); err != nil {
			return errors.Wrapf(err, "gbwt: merge: insert sequence %d", seq)
		}
		if seq%uint64(batchSize) == 0 {
			logger.Debug("gbwt: merge progress", "sequences", seq, "total", other.Sequences())
		}
	}

	if other.Metadata() != nil {
		g.metadata = rebaseMetadata(g.metadata, other.Metadata())
		g.header.Flags |= flagHasMetadata
	}
	return nil
}
