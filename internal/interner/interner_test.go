package interner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testID int32

func TestInternDeduplicates(t *testing.T) {
	in := New[string, int, testID]()

	a, fresh := in.Intern("alpha", 1)
	require.True(t, fresh)
	b, fresh := in.Intern("beta", 2)
	require.True(t, fresh)
	assert.NotEqual(t, a, b)

	again, fresh := in.Intern("alpha", 99)
	assert.False(t, fresh)
	assert.Equal(t, a, again)
	// First insertion wins; re-interning never rewrites the stored value.
	assert.Equal(t, 1, in.Get(a))
	assert.Equal(t, 2, in.Len())
}

func TestLookupDoesNotInsert(t *testing.T) {
	in := New[string, int, testID]()

	_, ok := in.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, 0, in.Len())

	id, _ := in.Intern("present", 7)
	got, ok := in.Lookup("present")
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestEachInsertionOrder(t *testing.T) {
	in := New[string, string, testID]()
	for _, k := range []string{"c", "a", "b"} {
		in.Intern(k, k+k)
	}

	var keys []string
	in.Each(func(id testID, v string) bool {
		keys = append(keys, in.Key(id))
		return true
	})
	assert.Equal(t, []string{"c", "a", "b"}, keys)

	var visited int
	in.Each(func(testID, string) bool {
		visited++
		return false
	})
	assert.Equal(t, 1, visited)
}
