package gbwt

import (
	"encoding/binary"
	"io"

	"github.com/JervenBolleman/gbwt/gbwterr"
)

const headerMagic uint32 = 0x6762_7774 // "gbwt"
const headerVersion uint32 = 1

// flag bits carried in Header.Flags.
const (
	flagBidirectional uint64 = 1 << 0
	flagHasMetadata   uint64 = 1 << 1
)

// Header is the fixed-width preamble of a serialized GBWT: the size
// bookkeeping that lets record(node) and sequences() answer without
// rescanning the body.
type Header struct {
	Size         uint64 // sum of every record's body size
	Sequences    uint64 // number of paths; equals the ENDMARKER record's size
	AlphabetSize uint64 // sigma: one past the highest node id in use
	Offset       uint64 // nodes in [1, Offset] do not exist
	Flags        uint64
}

func (h Header) bidirectional() bool { return h.Flags&flagBidirectional != 0 }
func (h Header) hasMetadata() bool   { return h.Flags&flagHasMetadata != 0 }

func (h *Header) writeTo(w io.Writer) (int64, error) {
	var buf [8 * 6]byte
	binary.LittleEndian.PutUint32(buf[0:4], headerMagic)
	binary.LittleEndian.PutUint32(buf[4:8], headerVersion)
	binary.LittleEndian.PutUint64(buf[8:16], h.Size)
	binary.LittleEndian.PutUint64(buf[16:24], h.Sequences)
	binary.LittleEndian.PutUint64(buf[24:32], h.AlphabetSize)
	binary.LittleEndian.PutUint64(buf[32:40], h.Offset)
	binary.LittleEndian.PutUint64(buf[40:48], h.Flags)
	n, err := w.Write(buf[:])
	return int64(n), err
}

func readHeader(r io.Reader) (Header, int64, error) {
	var buf [8 * 6]byte
	n, err := io.ReadFull(r, buf[:])
	if err != nil {
		return Header{}, int64(n), err
	}
	magic := binary.LittleEndian.Uint32(buf[0:4])
	version := binary.LittleEndian.Uint32(buf[4:8])
	if magic != headerMagic {
		return Header{}, int64(n), gbwterr.NewFormatError("not a gbwt file: bad magic")
	}
	if version != headerVersion {
		return Header{}, int64(n), gbwterr.NewFormatError("unsupported gbwt file version")
	}
	h := Header{
		Size:         binary.LittleEndian.Uint64(buf[8:16]),
		Sequences:    binary.LittleEndian.Uint64(buf[16:24]),
		AlphabetSize: binary.LittleEndian.Uint64(buf[24:32]),
		Offset:       binary.LittleEndian.Uint64(buf[32:40]),
		Flags:        binary.LittleEndian.Uint64(buf[40:48]),
	}
	return h, int64(n), nil
}
