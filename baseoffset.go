package hdf5

import (
	"errors"
	"io"

	"github.com/goframed/hdf5/internal/binary"
	"github.com/goframed/hdf5/internal/core"
)

// candidateSignatureOffsets are the byte positions the HDF5 format spec
// requires a reader to probe for the 8-byte magic, in search order. The
// first one found defines the file's base offset. MAT-file v7.3 containers
// carry a 512-byte MATLAB subsystem header before the HDF5 region, so 512
// is the offset real-world MAT-file readers hit.
var candidateSignatureOffsets = []int64{0, 512, 1024, 2048}

// findSignatureOffset scans the well-known candidate offsets for the HDF5
// magic and returns the first (smallest) one that matches. Reading goes
// through a binary.Reader rather than a bare ReadAt call so the probe uses
// the same low-level byte-reading path every other parser in this reader
// eventually builds on.
func findSignatureOffset(r io.ReaderAt) (int64, error) {
	br := binary.NewReader(r, binary.DefaultConfig())
	for _, off := range candidateSignatureOffsets {
		buf, err := br.At(off).ReadBytes(8)
		if err != nil {
			continue
		}
		if string(buf) == core.Signature {
			return off, nil
		}
	}
	return 0, errors.New("invalid signature: no HDF5 magic found at offset 0, 512, 1024, or 2048")
}

// offsetReaderAt translates every read through a fixed base offset, so that
// file-relative HDF5 addresses (always relative to the start of the HDF5
// region, not the start of the file) can be read without threading the base
// offset through every parser call site.
type offsetReaderAt struct {
	r    io.ReaderAt
	base int64
}

func (o *offsetReaderAt) ReadAt(p []byte, off int64) (int, error) {
	return o.r.ReadAt(p, off+o.base)
}
