package computation

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/girder/internal/interner"
	"github.com/vk/girder/internal/typesys"
)

// Store interns computations and hands out stable ids.
type Store struct {
	in *interner.Interner[string, Computation, ID]
}

// NewStore creates an empty computation store.
func NewStore() *Store {
	return &Store{in: interner.New[string, Computation, ID]()}
}

// Intern returns the id for c, allocating one if c was never seen.
func (s *Store) Intern(c Computation) ID {
	id, _ := s.in.Intern(c.key(), c)
	return id
}

// Callable interns a resolved function signature under the given symbol
// path.
func (s *Store) Callable(path string, sig Signature) ID {
	return s.Intern(Computation{Kind: KindCallable, Path: path, Sig: sig})
}

// FrameworkItem interns a framework-provided value of the given type.
func (s *Store) FrameworkItem(path string, t cty.Type) ID {
	return s.Intern(Computation{Kind: KindFrameworkItem, Path: path, Sig: Signature{Output: t}})
}

// Get returns the computation for id.
func (s *Store) Get(id ID) Computation {
	return s.in.Get(id)
}

// Len returns the number of interned computations.
func (s *Store) Len() int {
	return s.in.Len()
}

// Split derives the two-variant outcome matchers for a fallible
// computation: one projecting the success branch, one the error branch.
// It panics if id is not fallible, which indicates a defect in the caller.
func (s *Store) Split(id ID) (okID, errID ID) {
	c := s.Get(id)
	if !c.Sig.Fallible() {
		panic(fmt.Sprintf("computation: split of infallible computation %q", c.Path))
	}
	okID = s.Intern(Computation{
		Kind:   KindMatchOutcome,
		Path:   c.Path,
		Sig:    Signature{Output: c.Sig.Output},
		Of:     id,
		Branch: BranchOK,
	})
	errID = s.Intern(Computation{
		Kind:   KindMatchOutcome,
		Path:   c.Path,
		Sig:    Signature{Output: c.Sig.Err},
		Of:     id,
		Branch: BranchErr,
	})
	return okID, errID
}

// BindTypeParams returns a copy of the computation with the given concrete
// types substituted for its generic parameters. The result is not interned;
// the caller decides whether it becomes a new computation.
func (s *Store) BindTypeParams(id ID, bindings map[string]cty.Type) Computation {
	c := s.Get(id)
	bound := c
	bound.Sig = Signature{
		Inputs: make([]cty.Type, len(c.Sig.Inputs)),
		Output: typesys.Bind(c.Sig.Output, bindings),
		Err:    c.Sig.Err,
	}
	if c.Sig.Fallible() {
		bound.Sig.Err = typesys.Bind(c.Sig.Err, bindings)
	}
	for i, in := range c.Sig.Inputs {
		bound.Sig.Inputs[i] = typesys.Bind(in, bindings)
	}
	return bound
}
