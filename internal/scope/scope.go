// Package scope models the visibility tree for components. Every component
// belongs to exactly one scope; a component registered in a scope is visible
// to that scope and all of its descendants.
package scope

// ID identifies a single scope within a Tree.
type ID int32

// Tree is an append-only scope tree. The root scope always has id 0.
type Tree struct {
	parents []ID
}

// NewTree creates a tree containing only the root scope.
func NewTree() *Tree {
	return &Tree{parents: []ID{-1}}
}

// Root returns the id of the root scope.
func (t *Tree) Root() ID {
	return 0
}

// NewChild adds a scope nested under parent and returns its id.
func (t *Tree) NewChild(parent ID) ID {
	id := ID(len(t.parents))
	t.parents = append(t.parents, parent)
	return id
}

// Parent returns the parent of id. The root scope has no parent.
func (t *Tree) Parent(id ID) (ID, bool) {
	p := t.parents[id]
	if p < 0 {
		return 0, false
	}
	return p, true
}

// Len returns the number of scopes in the tree.
func (t *Tree) Len() int {
	return len(t.parents)
}

// IsDescendantOf reports whether id is ancestor itself or nested anywhere
// below it.
func (t *Tree) IsDescendantOf(id, ancestor ID) bool {
	for {
		if id == ancestor {
			return true
		}
		p, ok := t.Parent(id)
		if !ok {
			return false
		}
		id = p
	}
}
