package hdf5

import (
	"fmt"
	"strings"

	"github.com/goframed/hdf5/internal/herrors"
)

// Child looks up a single direct child of g by name. It does not follow
// soft links; callers that need transparent soft-link resolution go through
// File.Resolve (or OpenDataset/OpenGroup), which carries the visited-path
// set needed for cycle detection.
func (g *Group) Child(name string) (Object, error) {
	for _, c := range g.children {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", herrors.ErrPathNotFound, name)
}

// splitPath splits an absolute or relative HDF5 path into non-empty
// segments. "/" and "" both yield zero segments (the root group itself).
func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// normalizePath renders path as an absolute, "/"-prefixed path with no
// trailing slash (except for the root itself), for use as a visited-set key
// during soft-link cycle detection.
func normalizePath(path string) string {
	segs := splitPath(path)
	if len(segs) == 0 {
		return "/"
	}
	return "/" + strings.Join(segs, "/")
}

// Resolve walks path from the root group, transparently following soft
// links and failing with herrors.ErrLinkCycle if that following ever
// revisits an absolute path already on the current resolution stack.
func (f *File) Resolve(path string) (Object, error) {
	return f.resolve(path, make(map[string]bool))
}

func (f *File) resolve(path string, visited map[string]bool) (Object, error) {
	abs := normalizePath(path)
	if visited[abs] {
		return nil, fmt.Errorf("%w: %q", herrors.ErrLinkCycle, abs)
	}
	visited[abs] = true

	segments := splitPath(path)
	var cur Object = f.root
	walked := ""

	for _, seg := range segments {
		group, ok := cur.(*Group)
		if !ok {
			return nil, fmt.Errorf("%w: %q", herrors.ErrNotAGroup, walked)
		}

		child, err := group.Child(seg)
		if err != nil {
			return nil, err
		}

		if link, ok := child.(*SoftLink); ok {
			resolved, err := f.resolve(link.target, visited)
			if err != nil {
				return nil, err
			}
			child = resolved
		}

		cur = child
		walked += "/" + seg
	}

	return cur, nil
}

// OpenGroup resolves path to a Group, following soft links transparently.
// It fails with herrors.ErrNotAGroup if the resolved object is a Dataset.
func (f *File) OpenGroup(path string) (*Group, error) {
	obj, err := f.Resolve(path)
	if err != nil {
		return nil, err
	}
	group, ok := obj.(*Group)
	if !ok {
		return nil, fmt.Errorf("%w: %q", herrors.ErrNotAGroup, path)
	}
	return group, nil
}

// OpenDataset resolves path to a Dataset, following soft links
// transparently. It fails with herrors.ErrNotADataset if the resolved
// object is a Group.
func (f *File) OpenDataset(path string) (*Dataset, error) {
	obj, err := f.Resolve(path)
	if err != nil {
		return nil, err
	}
	dataset, ok := obj.(*Dataset)
	if !ok {
		return nil, fmt.Errorf("%w: %q", herrors.ErrNotADataset, path)
	}
	return dataset, nil
}
