package computation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/girder/internal/typesys"
)

func TestInternDedup(t *testing.T) {
	s := NewStore()
	sig := Signature{Inputs: []cty.Type{cty.String}, Output: cty.Number}

	a := s.Callable("pool.New", sig)
	b := s.Callable("pool.New", Signature{Inputs: []cty.Type{cty.String}, Output: cty.Number})
	assert.Equal(t, a, b)

	c := s.Callable("pool.New", Signature{Inputs: []cty.Type{cty.Bool}, Output: cty.Number})
	assert.NotEqual(t, a, c)
	assert.Equal(t, 2, s.Len())
}

func TestFallible(t *testing.T) {
	fallible := Signature{Output: cty.Number, Err: cty.String}
	assert.True(t, fallible.Fallible())
	assert.False(t, Signature{Output: cty.Number}.Fallible())
}

func TestSplit(t *testing.T) {
	s := NewStore()
	id := s.Callable("pool.New", Signature{Output: cty.Number, Err: cty.String})

	okID, errID := s.Split(id)
	assert.NotEqual(t, okID, errID)

	ok := s.Get(okID)
	assert.Equal(t, KindMatchOutcome, ok.Kind)
	assert.Equal(t, BranchOK, ok.Branch)
	assert.Equal(t, id, ok.Of)
	assert.True(t, ok.Sig.Output.Equals(cty.Number))
	assert.False(t, ok.Sig.Fallible())

	errC := s.Get(errID)
	assert.Equal(t, BranchErr, errC.Branch)
	assert.True(t, errC.Sig.Output.Equals(cty.String))

	// Splitting twice yields the same matcher ids.
	okAgain, errAgain := s.Split(id)
	assert.Equal(t, okID, okAgain)
	assert.Equal(t, errID, errAgain)
}

func TestSplitPanicsOnInfallible(t *testing.T) {
	s := NewStore()
	id := s.Callable("now", Signature{Output: cty.Number})
	assert.Panics(t, func() { s.Split(id) })
}

func TestBindTypeParams(t *testing.T) {
	s := NewStore()
	sig := Signature{
		Inputs: []cty.Type{cty.Number},
		Output: typesys.Param("T"),
		Err:    cty.Object(map[string]cty.Type{"cause": typesys.Param("T")}),
	}
	id := s.Callable("generic.New", sig)

	bound := s.BindTypeParams(id, map[string]cty.Type{"T": cty.String})
	assert.True(t, bound.Sig.Output.Equals(cty.String))
	assert.True(t, bound.Sig.Err.Equals(cty.Object(map[string]cty.Type{"cause": cty.String})))
	assert.Equal(t, "generic.New", bound.Path)

	// Binding produces a distinct interned identity from the template,
	// and re-interning the same binding twice collapses to one id.
	boundID := s.Intern(bound)
	require.NotEqual(t, id, boundID)
	assert.Equal(t, boundID, s.Intern(s.BindTypeParams(id, map[string]cty.Type{"T": cty.String})))
}
