// Package hdf5 provides a pure Go implementation for reading HDF5 files.
// It supports HDF5 format versions 0, 2, and 3, with capabilities for
// reading datasets, groups, attributes, and various data layouts.
package hdf5

import (
	"fmt"
	"io"
	"os"

	"github.com/goframed/hdf5/internal/core"
	"github.com/goframed/hdf5/internal/utils"
)

// defaultMemoryBudget bounds how many bytes Dataset.Read/ReadStrings/
// ReadCompound will decode into memory for a single call, based on the
// dataspace's declared element count and the datatype's declared size.
const defaultMemoryBudget = 256 * 1024 * 1024

// File represents an open HDF5 file with its metadata and root group.
type File struct {
	osFile       *os.File
	reader       io.ReaderAt // base-offset-translating view over osFile
	baseOffset   int64
	sb           *core.Superblock
	root         *Group
	cache        *cache
	memoryBudget uint64
}

// OpenOption configures optional behavior for Open.
type OpenOption func(*File)

// WithMemoryBudget overrides the default 256MiB cap on how much memory a
// single Dataset read is allowed to decode. A dataset whose declared shape
// and datatype imply a larger allocation fails fast with ErrShapeOverflow
// before any chunk or contiguous data is read.
func WithMemoryBudget(bytes uint64) OpenOption {
	return func(f *File) {
		f.memoryBudget = bytes
	}
}

// Open opens an HDF5 file for reading and returns a File handle.
// The file must be a valid HDF5 file with a supported format version.
func Open(filename string, opts ...OpenOption) (*File, error) {
	//nolint:gosec // G304: User-provided filename is intentional for HDF5 file library
	f, err := os.Open(filename)
	if err != nil {
		return nil, utils.WrapError("file open failed", err)
	}

	// Locate the HDF5 magic: offset 0 for a plain HDF5 file, or 512/1024/2048
	// for containers (e.g. MATLAB v7.3 MAT-files) that prepend other data.
	base, err := findSignatureOffset(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	reader := &offsetReaderAt{r: f, base: base}

	// Get file size for address validation.
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, utils.WrapError("file stat failed", err)
	}
	fileSize := fi.Size() - base
	if fileSize < 0 {
		fileSize = 0
	}

	sb, err := core.ReadSuperblock(reader)
	if err != nil {
		_ = f.Close()
		return nil, utils.WrapError("superblock read failed", err)
	}

	file := &File{
		osFile:       f,
		reader:       reader,
		baseOffset:   base,
		sb:           sb,
		cache:        newCache(defaultCacheCapacity),
		memoryBudget: defaultMemoryBudget,
	}
	for _, opt := range opts {
		opt(file)
	}

	// Validate root group address.
	//nolint:gosec // G115: File size is always positive, safe to convert int64 to uint64
	if sb.RootGroup >= uint64(fileSize) {
		_ = f.Close()
		return nil, fmt.Errorf("root group address %d beyond file size %d",
			sb.RootGroup, fileSize)
	}

	// For all versions, sb.RootGroup now contains the correct object header address.
	file.root, err = loadGroup(file, sb.RootGroup)
	if err != nil {
		_ = f.Close()
		return nil, utils.WrapError("root group load failed", err)
	}

	// Ensure root group always has name "/" (may be empty from object header)
	file.root.name = "/"

	return file, nil
}

// SetDebug enables or disables per-message diagnostic logging across every
// open file handle. It is a static flag, not a per-call option: once set, all
// object-header parsing in the process logs one line per message kind,
// address, and length via logrus.
func SetDebug(enabled bool) {
	core.SetDebug(enabled)
}

// BaseOffset returns the byte distance from the start of the file to the
// HDF5 signature (0 for a plain HDF5 file, 512/1024/2048 for a container
// format such as a MATLAB v7.3 MAT-file).
func (f *File) BaseOffset() int64 {
	return f.baseOffset
}

// Close closes the HDF5 file and releases associated resources.
// It is safe to call Close multiple times.
func (f *File) Close() error {
	if f.osFile == nil {
		return nil // Already closed.
	}
	err := f.osFile.Close()
	f.osFile = nil // Prevent double close.
	return err
}

// Root returns the root group of the HDF5 file.
func (f *File) Root() *Group {
	return f.root
}

// ListRoot returns the names of the root group's immediate children.
func (f *File) ListRoot() []string {
	children := f.root.Children()
	names := make([]string, len(children))
	for i, c := range children {
		names[i] = c.Name()
	}
	return names
}

// Walk traverses the entire file structure, calling fn for each object.
// Objects are visited in depth-first order starting from the root group.
func (f *File) Walk(fn func(path string, obj Object)) {
	walkGroup(f.root, "/", fn)
}

func walkGroup(g *Group, currentPath string, fn func(string, Object)) {
	fn(currentPath, g)

	for _, child := range g.Children() {
		childPath := currentPath + child.Name()

		if childGroup, ok := child.(*Group); ok {
			walkGroup(childGroup, childPath+"/", fn)
		} else {
			fn(childPath, child)
		}
	}
}

// SuperblockVersion returns the HDF5 superblock format version (0, 2, or 3).
func (f *File) SuperblockVersion() uint8 {
	return f.sb.Version
}

// Superblock returns the file's superblock metadata structure.
func (f *File) Superblock() *core.Superblock {
	return f.sb
}

// Reader returns the base-offset-translated file reader for low-level access.
// Every read through it is relative to the start of the HDF5 region, not the
// start of the underlying file (see BaseOffset).
func (f *File) Reader() io.ReaderAt {
	return f.reader
}

// readObjectHeader parses the object header at address, serving a cached
// copy when one is available. Object headers are immutable once written,
// so a cache hit is always equal to a fresh parse of the same bytes.
func (f *File) readObjectHeader(address uint64) (*core.ObjectHeader, error) {
	key := cacheKey{purpose: purposeObjectHeader, address: address}
	if v, ok := f.cache.get(key); ok {
		return v.(*core.ObjectHeader), nil
	}

	header, err := core.ReadObjectHeader(f.reader, address, f.sb)
	if err != nil {
		return nil, err
	}
	f.cache.put(key, header)
	return header, nil
}

// readSignature reads 4 bytes at address and returns string.
func readSignature(r io.ReaderAt, address uint64) string {
	buf := make([]byte, 4)
	//nolint:gosec // G115: HDF5 addresses fit in int64 for io.ReaderAt interface
	if _, err := r.ReadAt(buf, int64(address)); err != nil {
		return ""
	}
	return string(buf)
}
