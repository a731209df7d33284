package hdf5

import (
	"testing"

	"github.com/goframed/hdf5/internal/core"
	"github.com/stretchr/testify/require"
)

// buildGroupOnlyTestFile builds a tree with no datasets, so Inspect and
// ListRecursive can be exercised without a real object-header backing store.
func buildGroupOnlyTestFile() *File {
	root := &Group{name: "/"}
	a := &Group{name: "a"}
	b := &Group{name: "b"}

	a.children = []Object{b}
	root.children = []Object{a}

	f := &File{root: root, sb: &core.Superblock{}}
	a.file = f
	b.file = f
	root.file = f
	return f
}

func TestInspectCountsGroupsAndDepth(t *testing.T) {
	f := buildGroupOnlyTestFile()

	result, err := f.Inspect()
	require.NoError(t, err)
	require.Equal(t, 1, result.RootChildren)
	require.Equal(t, 2, result.GroupCount)
	require.Equal(t, 0, result.DatasetCount)
	require.Equal(t, 0, result.ChunkedCount)
	require.Equal(t, 0, result.CompressedCount)
	require.Equal(t, 2, result.MaxDepth)
}

func TestListRecursiveReportsGroupsAndLinks(t *testing.T) {
	f := buildGroupOnlyTestFile()
	root := f.root
	link := &SoftLink{name: "alias", target: "/a/b"}
	root.children = append(root.children, link)

	entries, err := f.ListRecursive()
	require.NoError(t, err)

	require.Equal(t, KindGroup, entries["/"].Kind)
	require.Equal(t, KindGroup, entries["/a"].Kind)
	require.Equal(t, KindGroup, entries["/a/b"].Kind)
	require.Equal(t, KindLink, entries["/alias"].Kind)
}

func TestListRootReturnsChildNames(t *testing.T) {
	f := buildGroupOnlyTestFile()
	require.Equal(t, []string{"a"}, f.ListRoot())
}

func TestInspectPropagatesObjectHeaderErrors(t *testing.T) {
	f := buildTestFile()
	f.sb = &core.Superblock{}
	f.reader = &fakeReaderAt{data: make([]byte, 64)} // no valid object header signature
	f.cache = newCache(defaultCacheCapacity)

	_, err := f.Inspect()
	require.Error(t, err)
}
