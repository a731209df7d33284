package hdf5

import (
	"fmt"

	"github.com/goframed/hdf5/internal/core"
)

// Write assembles a minimal HDF5 file containing one dataset at path and its
// attributes, per §4.15/§6.2: superblock v0, a root group with a symbol-table
// entry for the dataset, and the dataset's contiguous raw bytes. It is the
// one-shot counterpart to the CreateForWrite/CreateDataset/WriteRawBytes/
// WriteAttribute sequence for callers that only need a single dataset.
//
// data must already be row-major encoded bytes matching dtype and shape
// (element size * product(shape) bytes); this mirrors the Writer's
// Non-goal: no chunking, no filters, no compound/variable-length types on
// write. attrs maps attribute name to a Go value understood by
// DatasetWriter.WriteAttribute (numeric scalars/slices, strings).
func Write(path string, name string, dtype Datatype, shape []uint64, data []byte, attrs map[string]interface{}) error {
	fw, err := CreateForWrite(path, CreateTruncate, WithSuperblockVersion(core.Version0))
	if err != nil {
		return fmt.Errorf("hdf5 write %s: %w", path, err)
	}
	defer fw.Close()

	ds, err := fw.CreateDataset(name, dtype, shape)
	if err != nil {
		return fmt.Errorf("hdf5 write %s: create dataset %s: %w", path, name, err)
	}

	if err := ds.WriteRawBytes(data); err != nil {
		return fmt.Errorf("hdf5 write %s: write dataset %s: %w", path, name, err)
	}

	for attrName, value := range attrs {
		if err := ds.WriteAttribute(attrName, value); err != nil {
			return fmt.Errorf("hdf5 write %s: attribute %s on %s: %w", path, attrName, name, err)
		}
	}

	if err := fw.Close(); err != nil {
		return fmt.Errorf("hdf5 write %s: close: %w", path, err)
	}
	return nil
}
