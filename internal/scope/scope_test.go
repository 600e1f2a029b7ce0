package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeParentage(t *testing.T) {
	tree := NewTree()
	root := tree.Root()

	_, ok := tree.Parent(root)
	assert.False(t, ok, "root has no parent")

	child := tree.NewChild(root)
	grandchild := tree.NewChild(child)

	p, ok := tree.Parent(grandchild)
	require.True(t, ok)
	assert.Equal(t, child, p)
	assert.Equal(t, 3, tree.Len())
}

func TestIsDescendantOf(t *testing.T) {
	tree := NewTree()
	root := tree.Root()
	a := tree.NewChild(root)
	b := tree.NewChild(root)
	aa := tree.NewChild(a)

	assert.True(t, tree.IsDescendantOf(aa, a))
	assert.True(t, tree.IsDescendantOf(aa, root))
	assert.True(t, tree.IsDescendantOf(a, a), "a scope is its own descendant")
	assert.False(t, tree.IsDescendantOf(aa, b))
	assert.False(t, tree.IsDescendantOf(root, a))
}
