package core

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ObjectHeaderWriterV1 writes a version 1 object header: the format used by
// the root group and any object reachable through a v0-style superblock.
// Unlike v2, a v1 header has no "OHDR" signature and pads every message to
// an 8-byte boundary.
type ObjectHeaderWriterV1 struct {
	Messages []MessageWriter
}

// messageSizeV1 returns the padded on-disk size of a single v1 message:
// 8-byte prefix (type, size, flags, reserved) plus data rounded up to 8 bytes.
func messageSizeV1(dataLen int) uint64 {
	total := uint64(8 + dataLen)
	if rem := total % 8; rem != 0 {
		total += 8 - rem
	}
	return total
}

// Size returns the total on-disk size of the header, including the 16-byte
// prefix.
func (ohw *ObjectHeaderWriterV1) Size() uint64 {
	size := uint64(16)
	for _, msg := range ohw.Messages {
		size += messageSizeV1(len(msg.Data))
	}
	return size
}

// WriteTo writes the v1 object header at address and returns its total size.
//
// Format:
//
//	Byte 0:      Version (1)
//	Byte 1:      Reserved (0)
//	Bytes 2-3:   Number of messages
//	Bytes 4-7:   Object reference count (1)
//	Bytes 8-11:  Object header size (bytes following this prefix)
//	Bytes 12-15: Padding
//	Messages:    type(2) + size(2) + flags(1) + reserved(3) + data, 8-byte aligned
func (ohw *ObjectHeaderWriterV1) WriteTo(w io.WriterAt, address uint64) (uint64, error) {
	var bodySize uint64
	for _, msg := range ohw.Messages {
		bodySize += messageSizeV1(len(msg.Data))
	}

	total := 16 + bodySize
	buf := make([]byte, total)

	buf[0] = 1 // version
	buf[1] = 0 // reserved
	binary.LittleEndian.PutUint16(buf[2:4], uint16(len(ohw.Messages)))
	binary.LittleEndian.PutUint32(buf[4:8], 1) // reference count
	binary.LittleEndian.PutUint32(buf[8:12], uint32(bodySize))

	offset := 16
	for _, msg := range ohw.Messages {
		binary.LittleEndian.PutUint16(buf[offset:offset+2], uint16(msg.Type))
		binary.LittleEndian.PutUint16(buf[offset+2:offset+4], uint16(len(msg.Data)))
		buf[offset+4] = 0 // flags
		// bytes offset+5:offset+8 reserved, already zero
		copy(buf[offset+8:], msg.Data)
		offset += int(messageSizeV1(len(msg.Data)))
	}

	n, err := w.WriteAt(buf, int64(address))
	if err != nil {
		return 0, fmt.Errorf("failed to write v1 object header at address %d: %w", address, err)
	}
	if n != len(buf) {
		return 0, fmt.Errorf("incomplete v1 object header write: wrote %d bytes, expected %d", n, len(buf))
	}

	return total, nil
}
