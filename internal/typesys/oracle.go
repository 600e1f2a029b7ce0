package typesys

import (
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Capability names a behaviour a type may support, e.g. conversion into the
// canonical response type.
type Capability string

// Oracle answers the type questions the graph builder cannot decide on its
// own: capability membership, structural equivalence, and the symbol to call
// to convert between two types.
type Oracle interface {
	// Implements reports whether t satisfies cap.
	Implements(t cty.Type, cap Capability) bool
	// Equivalent reports structural equivalence up to parameter renaming.
	Equivalent(a, b cty.Type) (Remap, bool)
	// ConversionPath returns the callable symbol that converts from into to.
	ConversionPath(from, to cty.Type) (string, bool)
}

// Table is the default Oracle: explicit grants and conversion registrations,
// with cty's own conversion rules as a fallback for capabilities that have a
// bound target type.
type Table struct {
	grants  map[string]struct{}
	targets map[Capability]cty.Type
	paths   map[string]string
}

// NewTable creates an empty oracle table.
func NewTable() *Table {
	return &Table{
		grants:  make(map[string]struct{}),
		targets: make(map[Capability]cty.Type),
		paths:   make(map[string]string),
	}
}

// Grant declares that t satisfies cap. Returns the table for chaining.
func (tb *Table) Grant(t cty.Type, cap Capability) *Table {
	tb.grants[grantKey(t, cap)] = struct{}{}
	return tb
}

// BindTarget associates cap with a target type. A type that cty can convert
// into the target satisfies cap even without an explicit grant.
func (tb *Table) BindTarget(cap Capability, target cty.Type) *Table {
	tb.targets[cap] = target
	return tb
}

// RegisterConversion records the callable symbol converting from into to.
func (tb *Table) RegisterConversion(from, to cty.Type, path string) *Table {
	tb.paths[pathKey(from, to)] = path
	return tb
}

func (tb *Table) Implements(t cty.Type, cap Capability) bool {
	if _, ok := tb.grants[grantKey(t, cap)]; ok {
		return true
	}
	target, ok := tb.targets[cap]
	if !ok {
		return false
	}
	if t.Equals(target) {
		return true
	}
	return convert.GetConversionUnsafe(t, target) != nil
}

func (tb *Table) Equivalent(a, b cty.Type) (Remap, bool) {
	return Equivalent(a, b)
}

func (tb *Table) ConversionPath(from, to cty.Type) (string, bool) {
	if path, ok := tb.paths[pathKey(from, to)]; ok {
		return path, true
	}
	if from.Equals(to) {
		return "identity", true
	}
	if convert.GetConversionUnsafe(from, to) != nil {
		return "convert." + Key(from) + ".to." + Key(to), true
	}
	return "", false
}

func grantKey(t cty.Type, cap Capability) string {
	return Key(t) + "|" + string(cap)
}

func pathKey(from, to cty.Type) string {
	return Key(from) + "->" + Key(to)
}
