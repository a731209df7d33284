package hdf5

import (
	"strings"

	"github.com/goframed/hdf5/internal/core"
)

// InspectResult summarizes a file's object tree without reading any dataset
// values, intended for quick diagnostics and the CLI dump tools.
type InspectResult struct {
	Version         uint8
	RootChildren    int
	DatasetCount    int
	GroupCount      int
	MaxDepth        int
	ChunkedCount    int
	CompressedCount int
}

// Inspect walks the entire object tree and reports aggregate counts: how many
// groups and datasets exist, how deep the tree goes, and how many datasets
// are chunked or carry a filter pipeline (compressed/shuffled/checksummed).
func (f *File) Inspect() (*InspectResult, error) {
	result := &InspectResult{
		Version:      f.sb.Version,
		RootChildren: len(f.root.Children()),
	}

	var walkErr error
	var walk func(g *Group, depth int)
	walk = func(g *Group, depth int) {
		if depth > result.MaxDepth {
			result.MaxDepth = depth
		}
		for _, child := range g.Children() {
			switch c := child.(type) {
			case *Group:
				result.GroupCount++
				walk(c, depth+1)
			case *Dataset:
				result.DatasetCount++
				if walkErr != nil {
					continue
				}
				chunked, compressed, err := c.layoutFlags()
				if err != nil {
					walkErr = err
					continue
				}
				if chunked {
					result.ChunkedCount++
				}
				if compressed {
					result.CompressedCount++
				}
			}
		}
	}
	walk(f.root, 0)
	if walkErr != nil {
		return nil, walkErr
	}
	return result, nil
}

// ObjectKind distinguishes the entries returned by ListRecursive.
type ObjectKind string

const (
	KindGroup   ObjectKind = "group"
	KindDataset ObjectKind = "dataset"
	KindLink    ObjectKind = "link"
)

// ListEntry describes one object discovered by ListRecursive. Shape and
// Datatype are populated only for datasets.
type ListEntry struct {
	Kind     ObjectKind
	Shape    []uint64
	Datatype *core.DatatypeMessage
}

// ListRecursive walks the entire object tree and returns a map from each
// object's absolute path to a description of its kind and, for datasets, its
// shape and datatype.
func (f *File) ListRecursive() (map[string]ListEntry, error) {
	entries := make(map[string]ListEntry)
	var walkErr error

	f.Walk(func(path string, obj Object) {
		if walkErr != nil {
			return
		}
		switch o := obj.(type) {
		case *Group:
			// Walk reports groups with a trailing "/"; key them by plain path.
			key := path
			if key != "/" {
				key = strings.TrimSuffix(key, "/")
			}
			entries[key] = ListEntry{Kind: KindGroup}
		case *Dataset:
			shape, err := o.Shape()
			if err != nil {
				walkErr = err
				return
			}
			dtype, err := o.Datatype()
			if err != nil {
				walkErr = err
				return
			}
			entries[path] = ListEntry{Kind: KindDataset, Shape: shape, Datatype: dtype}
		case *SoftLink:
			entries[path] = ListEntry{Kind: KindLink}
		}
	})

	if walkErr != nil {
		return nil, walkErr
	}
	return entries, nil
}
