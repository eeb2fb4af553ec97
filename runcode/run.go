// Package runcode implements the run codec: a (out-rank, length) pair
// packed against a record's outdegree. Short runs fit in a single byte; a
// sentinel length byte plus a ByteCode extension handles the rest.
//
// The codec is purely functional: outdegree (sigma) is passed explicitly to
// every call rather than carried as object state, since a single record's
// outdegree rarely changes and the caller already has it at hand.
package runcode

import "github.com/JervenBolleman/gbwt/bytecode"

// Run is a decoded (out-rank, length) pair from a record's body.
type Run struct {
	Rank   uint32
	Length uint64
}

// continues returns RUN_CONTINUES for the given outdegree: the number of
// values the length part of a run's first byte can take. The highest of
// them (RUN_CONTINUES-1) is the sentinel announcing a ByteCode extension.
func continues(sigma uint32) uint64 {
	if sigma == 0 {
		return 255
	}
	return 256 / uint64(sigma)
}

// Write appends the ByteCode/Run encoding of run to buf given the record's
// outdegree sigma. Lengths below RUN_CONTINUES-1 take one byte; longer runs
// store the sentinel followed by ByteCode(length - (RUN_CONTINUES-1)).
func Write(buf []byte, sigma uint32, run Run) []byte {
	rc := continues(sigma)
	if run.Length < rc-1 {
		return append(buf, byte(uint64(run.Rank)*rc+run.Length))
	}
	buf = append(buf, byte(uint64(run.Rank)*rc+(rc-1)))
	return bytecode.Write(buf, run.Length-(rc-1))
}

// Read decodes a single run starting at buf[pos] given outdegree sigma, and
// returns the run together with the position immediately after it.
func Read(buf []byte, pos int, sigma uint32) (run Run, next int) {
	rc := continues(sigma)
	b := uint64(buf[pos])
	pos++
	run.Rank = uint32(b / rc)
	short := b % rc
	if short < rc-1 {
		run.Length = short
		return run, pos
	}
	extra, next := bytecode.Read(buf, pos)
	run.Length = (rc - 1) + extra
	return run, next
}
