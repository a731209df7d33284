package core

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestReadDatasetStrings_MockData tests ReadDatasetStrings with synthetic data.
func TestReadDatasetStrings_MockData(t *testing.T) {
	// Skip this test - creating valid HDF5 message structures is complex
	// The convertToStrings function is tested directly instead
	t.Skip("Requires complex HDF5 message structure - test convertToStrings directly instead")
}

// TestReadDatasetStrings_ErrorCases tests error handling.
func TestReadDatasetStrings_ErrorCases(t *testing.T) {
	tests := []struct {
		name    string
		header  *ObjectHeader
		sb      *Superblock
		wantErr string
	}{
		{
			name: "missing datatype message",
			header: &ObjectHeader{
				Messages: []*HeaderMessage{
					{
						Type: MsgDataspace,
						Data: buildSimpleDataspaceMessage([]uint64{10}),
					},
					{
						Type: MsgDataLayout,
						Data: buildContiguousLayoutMessage(0x1000, 100),
					},
				},
			},
			sb:      &Superblock{OffsetSize: 8, LengthSize: 8, Endianness: binary.LittleEndian},
			wantErr: "datatype message not found",
		},
		{
			name: "missing dataspace message",
			header: &ObjectHeader{
				Messages: []*HeaderMessage{
					{
						Type: MsgDatatype,
						Data: buildFixedStringDatatypeMessage(10, 0),
					},
					{
						Type: MsgDataLayout,
						Data: buildContiguousLayoutMessage(0x1000, 100),
					},
				},
			},
			sb:      &Superblock{OffsetSize: 8, LengthSize: 8, Endianness: binary.LittleEndian},
			wantErr: "dataspace message not found",
		},
		{
			name: "missing layout message",
			header: &ObjectHeader{
				Messages: []*HeaderMessage{
					{
						Type: MsgDatatype,
						Data: buildFixedStringDatatypeMessage(10, 0),
					},
					{
						Type: MsgDataspace,
						Data: buildSimpleDataspaceMessage([]uint64{10}),
					},
				},
			},
			sb:      &Superblock{OffsetSize: 8, LengthSize: 8, Endianness: binary.LittleEndian},
			wantErr: "data layout message not found",
		},
		{
			name: "not a string datatype",
			header: &ObjectHeader{
				Messages: []*HeaderMessage{
					{
						Type: MsgDatatype,
						Data: buildFloat64DatatypeMessage(), // Float, not string!
					},
					{
						Type: MsgDataspace,
						Data: buildSimpleDataspaceMessage([]uint64{10}),
					},
					{
						Type: MsgDataLayout,
						Data: buildContiguousLayoutMessage(0x1000, 80),
					},
				},
			},
			sb:      &Superblock{OffsetSize: 8, LengthSize: 8, Endianness: binary.LittleEndian},
			wantErr: "datatype is not string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emptyFile := &emptyReaderAt{}

			// Call function - should return error
			data, err := ReadDatasetStrings(emptyFile, tt.header, tt.sb)

			// Verify error occurred
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
			require.Nil(t, data)
		})
	}
}

// TestReadDatasetStrings_EmptyDataset tests reading empty string datasets.
func TestReadDatasetStrings_EmptyDataset(t *testing.T) {
	header := &ObjectHeader{
		Messages: []*HeaderMessage{
			{
				Type: MsgDatatype,
				Data: buildFixedStringDatatypeMessage(10, 0),
			},
			{
				Type: MsgDataspace,
				Data: buildSimpleDataspaceMessage([]uint64{0}), // Empty
			},
			{
				Type: MsgDataLayout,
				Data: buildContiguousLayoutMessage(0x1000, 0),
			},
		},
	}
	sb := &Superblock{OffsetSize: 8, LengthSize: 8, Endianness: binary.LittleEndian}

	emptyFile := &emptyReaderAt{}

	// Read empty dataset
	data, err := ReadDatasetStrings(emptyFile, header, sb)
	require.NoError(t, err)
	require.Empty(t, data)
}

// Helper functions

// buildFixedStringDatatypeMessage creates a fixed-length string datatype.
func buildFixedStringDatatypeMessage(size uint32, paddingType uint8) []byte {
	// String datatype format (version 1, minimal):
	// Bytes 0-3: class_and_version
	//   - Bits 0-3: class (3 = DatatypeString)
	//   - Bits 4-7: version (1)
	//   - Bits 8-23: class bit field (padding type in lower bits)
	// Bytes 4-7: size
	data := make([]byte, 8)
	classBitField := uint32(paddingType & 0x0F) // Padding in bits 0-3
	classAndVersion := uint32(DatatypeString) | (1 << 4) | (classBitField << 8)
	binary.LittleEndian.PutUint32(data[0:4], classAndVersion)
	binary.LittleEndian.PutUint32(data[4:8], size)
	return data
}

// TestDecodeFixedString_Integration tests string decoding with different padding types.
func TestDecodeFixedString_Integration(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		paddingType uint8
		want        string
	}{
		{
			name:        "null-terminated - short string",
			data:        []byte{'h', 'i', 0, 0, 0},
			paddingType: 0,
			want:        "hi",
		},
		{
			name:        "null-terminated - no null",
			data:        []byte{'h', 'e', 'l', 'l', 'o'},
			paddingType: 0,
			want:        "hello",
		},
		{
			name:        "null-padded - trailing nulls",
			data:        []byte{'t', 'e', 's', 't', 0, 0, 0},
			paddingType: 1,
			want:        "test",
		},
		{
			name:        "space-padded - trailing spaces",
			data:        []byte{'a', 'b', 'c', ' ', ' ', ' '},
			paddingType: 2,
			want:        "abc",
		},
		{
			name:        "unknown padding - return as-is",
			data:        []byte{'x', 'y', 'z'},
			paddingType: 99,
			want:        "xyz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeFixedString(tt.data, tt.paddingType)
			require.Equal(t, tt.want, got)
		})
	}
}

// TestConvertToStrings_DataTruncation tests handling of truncated data.
func TestConvertToStrings_DataTruncation(t *testing.T) {
	// Create datatype for 10-byte strings
	datatype := &DatatypeMessage{
		Class:         DatatypeString,
		Size:          10,
		ClassBitField: 0, // Null-terminated, fixed-length
	}

	// Provide only 15 bytes for 2 strings (should be 20 bytes)
	rawData := bytes.Repeat([]byte{'a'}, 15)

	// Should return error about truncation
	result, err := convertToStrings(nil, rawData, datatype, nil, 2)
	require.Error(t, err)
	require.Contains(t, err.Error(), "data truncated")
	require.Nil(t, result)
}

// TestConvertToStrings_VariableLength resolves variable-length string elements
// against a global heap collection, the path readChunkedData/ReadDatasetStrings
// exercise for VL-string datasets.
func TestConvertToStrings_VariableLength(t *testing.T) {
	const offsetSize = 8
	const heapAddr = 16 // Nonzero: heap address 0 is read as a null reference.

	// Build a global heap collection at address heapAddr holding two objects.
	heap := make([]byte, 64)
	copy(heap[0:4], "GCOL")
	heap[4] = 1
	binary.LittleEndian.PutUint64(heap[8:16], uint64(len(heap)))

	off := 16
	putObject := func(id uint16, text string) {
		binary.LittleEndian.PutUint16(heap[off:off+2], id)
		binary.LittleEndian.PutUint16(heap[off+2:off+4], 0)
		binary.LittleEndian.PutUint64(heap[off+8:off+16], uint64(len(text)))
		copy(heap[off+16:], text)
		off += 16 + len(text)
		if pad := off % 8; pad != 0 {
			off += 8 - pad
		}
	}
	putObject(1, "meters")
	putObject(2, "kelvin")

	r := bytes.NewReader(append(make([]byte, heapAddr), heap...))
	sb := &Superblock{OffsetSize: offsetSize}

	// Two vlen descriptors: heap address heapAddr, object indices 1 and 2.
	rawData := make([]byte, 2*(offsetSize+4))
	binary.LittleEndian.PutUint64(rawData[0:8], heapAddr)
	binary.LittleEndian.PutUint32(rawData[8:12], 1)
	binary.LittleEndian.PutUint64(rawData[12:20], heapAddr)
	binary.LittleEndian.PutUint32(rawData[20:24], 2)

	datatype := &DatatypeMessage{
		Class:         DatatypeVarLen,
		Size:          uint32(offsetSize + 4),
		ClassBitField: 0x0001, // VL type = 1 (string)
	}

	result, err := convertToStrings(r, rawData, datatype, sb, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"meters", "kelvin"}, result)
}
