package hdf5

import (
	"errors"
	"testing"

	"github.com/goframed/hdf5/internal/herrors"
	"github.com/stretchr/testify/require"
)

// buildTestFile assembles an in-memory group tree without touching a real
// HDF5 byte source, so path resolution can be exercised in isolation.
func buildTestFile() *File {
	root := &Group{name: "/"}
	a := &Group{name: "a"}
	x := &Dataset{name: "x"}

	a.children = []Object{x}
	root.children = []Object{a}

	f := &File{root: root}
	a.file = f
	root.file = f
	x.file = f
	return f
}

func TestResolveNestedPath(t *testing.T) {
	f := buildTestFile()

	obj, err := f.Resolve("/a/x")
	require.NoError(t, err)
	ds, ok := obj.(*Dataset)
	require.True(t, ok)
	require.Equal(t, "x", ds.Name())
}

func TestResolveRootPath(t *testing.T) {
	f := buildTestFile()

	obj, err := f.Resolve("/")
	require.NoError(t, err)
	require.Same(t, f.root, obj)
}

func TestOpenDatasetAndOpenGroup(t *testing.T) {
	f := buildTestFile()

	ds, err := f.OpenDataset("/a/x")
	require.NoError(t, err)
	require.Equal(t, "x", ds.Name())

	g, err := f.OpenGroup("/a")
	require.NoError(t, err)
	require.Equal(t, "a", g.Name())

	_, err = f.OpenGroup("/a/x")
	require.ErrorIs(t, err, herrors.ErrNotAGroup)

	_, err = f.OpenDataset("/a")
	require.ErrorIs(t, err, herrors.ErrNotADataset)
}

// TestResolveNotAGroup mirrors spec scenario S4: requesting a path through
// a dataset segment fails with "not a group" rather than "path not found".
func TestResolveNotAGroup(t *testing.T) {
	f := buildTestFile()

	_, err := f.Resolve("/a/x/z")
	require.ErrorIs(t, err, herrors.ErrNotAGroup)
}

func TestResolvePathNotFound(t *testing.T) {
	f := buildTestFile()

	_, err := f.Resolve("/a/missing")
	require.ErrorIs(t, err, herrors.ErrPathNotFound)
}

func TestResolveSoftLinkTransparentFollow(t *testing.T) {
	f := buildTestFile()

	root := f.root
	link := &SoftLink{name: "alias", target: "/a/x"}
	root.children = append(root.children, link)

	obj, err := f.Resolve("/alias")
	require.NoError(t, err)
	ds, ok := obj.(*Dataset)
	require.True(t, ok)
	require.Equal(t, "x", ds.Name())
}

// TestResolveSoftLinkCycle mirrors spec scenario S6: a soft link that
// (directly or transitively) points back at itself must fail with
// herrors.ErrLinkCycle, not recurse forever.
func TestResolveSoftLinkCycle(t *testing.T) {
	f := buildTestFile()

	root := f.root
	g := &Group{name: "g", file: f}
	self := &SoftLink{name: "self", target: "/g/self"}
	g.children = []Object{self}
	root.children = append(root.children, g)

	_, err := f.Resolve("/g/self")
	require.Error(t, err)
	require.True(t, errors.Is(err, herrors.ErrLinkCycle))
}

func TestSplitAndNormalizePath(t *testing.T) {
	require.Equal(t, []string{"a", "b", "c"}, splitPath("/a/b/c"))
	require.Equal(t, []string{}, splitPath("/"))
	require.Equal(t, []string{}, splitPath(""))

	require.Equal(t, "/", normalizePath(""))
	require.Equal(t, "/", normalizePath("/"))
	require.Equal(t, "/a/b", normalizePath("/a/b/"))
	require.Equal(t, "/a/b", normalizePath("a/b"))
}
