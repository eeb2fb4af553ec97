package gbwt

import (
	log "github.com/erigontech/erigon-lib/log/v3"
)

// Construction size constants, carried over from the C++ GBWT's
// dynamic_gbwt.h. DefaultInsertBatchSize is the chunk size InsertBuffered
// falls back to; DefaultMergeBatchSize is Merge's default batchSize, which
// sets how often Merge logs progress; the sample interval trades locate()
// speed for index size.
const (
	DefaultInsertBatchSize = 100_000_000 // nodes
	DefaultMergeBatchSize  = 2000         // sequences
	DefaultSampleInterval  = 1024         // positions per sampled sequence
)

// BuildOptions configures a DynamicGBWT: batching, sampling density,
// logging, and the sequential-vs-worker-pool execution strategy for
// per-record work, in the style of erigon's index-build option structs
// (e.g. recsplit.RecSplitArgs).
type BuildOptions struct {
	// BatchSize is the chunk size, in nodes, InsertBuffered uses when its own
	// batchSize argument is <= 0. Zero means DefaultInsertBatchSize. Offsets
	// are refreshed after every insertion step regardless of this value.
	BatchSize int

	// SampleInterval is the target spacing, in sequence positions, between
	// consecutive document-array samples. Zero means DefaultSampleInterval.
	SampleInterval int

	// Logger receives structured progress/diagnostic events. Nil uses a
	// discarding logger (logging is an injected dependency, not a global
	// verbosity knob).
	Logger log.Logger

	// Parallel selects internal/parallel.ForEach over internal/parallel.Sequential
	// for independent per-record work in DynamicGBWT.Freeze (recoding every
	// record's outgoing list into sorted order, which touches only that
	// record's own fields). Defaults to false (sequential, deterministic
	// ordering) so tests are reproducible. Path insertion itself is not
	// parallelized: each step of insertPath depends on the offset computed
	// by the previous one.
	Parallel bool

	// Bidirectional sets the bidirectional-extension flag bit in the
	// serialized header, readable back via DynamicGBWT.Bidirectional /
	// GBWT.Bidirectional. Construction of the actual reverse index (per-node
	// v/v^1 pairing for backward search) is not implemented; this only
	// threads the flag through construction and serialization.
	Bidirectional bool
}

func (o BuildOptions) logger() log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Root()
}

func (o BuildOptions) batchSize() int {
	if o.BatchSize > 0 {
		return o.BatchSize
	}
	return DefaultInsertBatchSize
}

func (o BuildOptions) sampleInterval() int {
	if o.SampleInterval > 0 {
		return o.SampleInterval
	}
	return DefaultSampleInterval
}
