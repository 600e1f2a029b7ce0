package diag

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindRoundTrip(t *testing.T) {
	rng := hcl.Range{Filename: "blueprint.hcl", Start: hcl.Pos{Line: 3, Column: 1}}
	d := New(MissingErrorHandler, rng, "missing error handler", "no handler covers this fallible constructor")

	assert.Equal(t, hcl.DiagError, d.Severity)
	require.NotNil(t, d.Subject)
	assert.Equal(t, "blueprint.hcl", d.Subject.Filename)

	k, ok := KindOf(d)
	require.True(t, ok)
	assert.Equal(t, MissingErrorHandler, k)

	_, ok = KindOf(&hcl.Diagnostic{Severity: hcl.DiagError, Summary: "foreign"})
	assert.False(t, ok)
}

func TestFilterAndCount(t *testing.T) {
	var diags hcl.Diagnostics
	diags = append(diags,
		New(MissingErrorHandler, hcl.Range{}, "a", ""),
		New(ResponseNotConvertible, hcl.Range{}, "b", ""),
		New(MissingErrorHandler, hcl.Range{}, "c", ""),
	)

	assert.Equal(t, 2, Count(diags, MissingErrorHandler))
	assert.Equal(t, 1, Count(diags, ResponseNotConvertible))
	assert.Equal(t, 0, Count(diags, InvalidConstructorShape))

	filtered := Filter(diags, MissingErrorHandler)
	require.Len(t, filtered, 2)
	assert.Equal(t, "a", filtered[0].Summary)
	assert.Equal(t, "c", filtered[1].Summary)
}
