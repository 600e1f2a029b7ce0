package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/girder/internal/computation"
	"github.com/vk/girder/internal/typesys"
)

func TestRegistryDedup(t *testing.T) {
	r := NewRegistry()

	a, fresh := r.Intern(Component{Kind: KindConstructor, Source: SyntheticSource(3, 0)})
	require.True(t, fresh)
	b, fresh := r.Intern(Component{Kind: KindConstructor, Source: SyntheticSource(3, 0)})
	assert.False(t, fresh)
	assert.Equal(t, a, b)

	// A different scope is a different component.
	c, fresh := r.Intern(Component{Kind: KindConstructor, Source: SyntheticSource(3, 1)})
	assert.True(t, fresh)
	assert.NotEqual(t, a, c)
	assert.Equal(t, 2, r.Len())
}

func TestRegistryEachOrder(t *testing.T) {
	r := NewRegistry()
	r.Intern(Component{Kind: KindConstructor, Source: DeclSource(0)})
	r.Intern(Component{Kind: KindRequestHandler, Source: DeclSource(1)})

	var kinds []Kind
	r.Each(func(_ ID, c Component) bool {
		kinds = append(kinds, c.Kind)
		return true
	})
	assert.Equal(t, []Kind{KindConstructor, KindRequestHandler}, kinds)
}

func TestValidateConstructor(t *testing.T) {
	assert.NoError(t, ValidateConstructor(computation.Signature{Output: cty.String}))
	assert.Error(t, ValidateConstructor(computation.Signature{}), "missing output")
	assert.Error(t, ValidateConstructor(computation.Signature{Output: typesys.Param("T")}), "naked generic output")
	assert.NoError(t, ValidateConstructor(computation.Signature{Output: cty.List(typesys.Param("T"))}),
		"generic output is fine when it is not a bare parameter")
}

func TestValidateWrappingMiddleware(t *testing.T) {
	next := cty.Object(map[string]cty.Type{"next": cty.Bool})
	response := cty.String

	assert.NoError(t, ValidateWrappingMiddleware(computation.Signature{
		Inputs: []cty.Type{cty.Number, next},
		Output: response,
	}, next))
	assert.Error(t, ValidateWrappingMiddleware(computation.Signature{
		Inputs: []cty.Type{cty.Number},
		Output: response,
	}, next), "missing continuation input")
	assert.Error(t, ValidateWrappingMiddleware(computation.Signature{
		Inputs: []cty.Type{next},
	}, next), "missing output")
}

func TestValidateErrorObserver(t *testing.T) {
	canonErr := cty.Object(map[string]cty.Type{"message": cty.String})

	idx, err := ValidateErrorObserver(computation.Signature{
		Inputs: []cty.Type{cty.String, canonErr},
	}, canonErr)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	_, err = ValidateErrorObserver(computation.Signature{Inputs: []cty.Type{cty.String}}, canonErr)
	assert.Error(t, err, "missing error input")

	_, err = ValidateErrorObserver(computation.Signature{
		Inputs: []cty.Type{canonErr},
		Output: cty.String,
	}, canonErr)
	assert.Error(t, err, "observers cannot return values")

	_, err = ValidateErrorObserver(computation.Signature{
		Inputs: []cty.Type{canonErr},
		Err:    cty.String,
	}, canonErr)
	assert.Error(t, err, "observers cannot be fallible")
}

func TestValidateErrorHandler(t *testing.T) {
	errType := cty.Object(map[string]cty.Type{"cause": typesys.Param("T")})

	idx, err := ValidateErrorHandler(computation.Signature{
		Inputs: []cty.Type{cty.Object(map[string]cty.Type{"cause": typesys.Param("S")})},
		Output: cty.String,
	}, errType)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	_, err = ValidateErrorHandler(computation.Signature{
		Inputs: []cty.Type{cty.Number},
		Output: cty.String,
	}, errType)
	assert.Error(t, err, "no equivalent error input")

	_, err = ValidateErrorHandler(computation.Signature{
		Inputs: []cty.Type{errType},
	}, errType)
	assert.Error(t, err, "missing output")
}

func TestErrorInputIndexRemap(t *testing.T) {
	errType := cty.Object(map[string]cty.Type{"cause": typesys.Param("T")})
	handlerInput := cty.Object(map[string]cty.Type{"cause": typesys.Param("S")})

	idx, remap, ok := ErrorInputIndex(computation.Signature{
		Inputs: []cty.Type{cty.String, handlerInput},
		Output: cty.String,
	}, errType)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, typesys.Remap{"T": "S"}, remap)
}
