package typesys

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/zclconf/go-cty/cty"
)

// paramCell is the encapsulated Go type backing parameter capsule types.
// The capsule identity, not the cell contents, is what distinguishes two
// parameters; the cell only exists because cty requires one.
type paramCell struct{}

var (
	paramsMu    sync.Mutex
	paramByName = map[string]cty.Type{}
	nameByParam = map[cty.Type]string{}
)

// Param returns the type representing the named generic parameter.
// Calling it twice with the same name returns the identical type.
func Param(name string) cty.Type {
	paramsMu.Lock()
	defer paramsMu.Unlock()
	if t, ok := paramByName[name]; ok {
		return t
	}
	t := cty.Capsule("param."+name, reflect.TypeOf(paramCell{}))
	paramByName[name] = t
	nameByParam[t] = name
	return t
}

// ParamName returns the parameter name if t is a parameter type.
func ParamName(t cty.Type) (string, bool) {
	// Only capsule types can be parameters. The guard also keeps composite
	// types out of the map lookup: cty object types are not hashable.
	if t == cty.NilType || !t.IsCapsuleType() {
		return "", false
	}
	paramsMu.Lock()
	defer paramsMu.Unlock()
	name, ok := nameByParam[t]
	return name, ok
}

// IsParam reports whether t is a generic parameter type.
func IsParam(t cty.Type) bool {
	_, ok := ParamName(t)
	return ok
}

// FreeParams returns the names of all generic parameters appearing anywhere
// inside t, in deterministic (sorted) order.
func FreeParams(t cty.Type) []string {
	seen := map[string]struct{}{}
	collectParams(t, seen)
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func collectParams(t cty.Type, into map[string]struct{}) {
	if name, ok := ParamName(t); ok {
		into[name] = struct{}{}
		return
	}
	for _, e := range children(t) {
		collectParams(e, into)
	}
}

// Bind substitutes concrete types for the named parameters inside t.
// Parameters absent from bindings are left in place.
func Bind(t cty.Type, bindings map[string]cty.Type) cty.Type {
	if name, ok := ParamName(t); ok {
		if concrete, ok := bindings[name]; ok {
			return concrete
		}
		return t
	}
	switch {
	case t.IsListType():
		return cty.List(Bind(t.ElementType(), bindings))
	case t.IsSetType():
		return cty.Set(Bind(t.ElementType(), bindings))
	case t.IsMapType():
		return cty.Map(Bind(t.ElementType(), bindings))
	case t.IsTupleType():
		elems := t.TupleElementTypes()
		bound := make([]cty.Type, len(elems))
		for i, e := range elems {
			bound[i] = Bind(e, bindings)
		}
		return cty.Tuple(bound)
	case t.IsObjectType():
		attrs := t.AttributeTypes()
		bound := make(map[string]cty.Type, len(attrs))
		for name, a := range attrs {
			bound[name] = Bind(a, bindings)
		}
		return cty.Object(bound)
	default:
		return t
	}
}

// Key renders a canonical structural key for t, suitable for interning.
// Two types produce the same key iff they are structurally identical,
// parameter names included.
func Key(t cty.Type) string {
	if t == cty.NilType {
		return "nil"
	}
	if name, ok := ParamName(t); ok {
		return "$" + name
	}
	switch {
	case t.IsListType():
		return "list<" + Key(t.ElementType()) + ">"
	case t.IsSetType():
		return "set<" + Key(t.ElementType()) + ">"
	case t.IsMapType():
		return "map<" + Key(t.ElementType()) + ">"
	case t.IsTupleType():
		parts := make([]string, 0, len(t.TupleElementTypes()))
		for _, e := range t.TupleElementTypes() {
			parts = append(parts, Key(e))
		}
		return "tuple<" + strings.Join(parts, ",") + ">"
	case t.IsObjectType():
		attrs := t.AttributeTypes()
		names := make([]string, 0, len(attrs))
		for n := range attrs {
			names = append(names, n)
		}
		sort.Strings(names)
		parts := make([]string, 0, len(names))
		for _, n := range names {
			parts = append(parts, fmt.Sprintf("%s:%s", n, Key(attrs[n])))
		}
		return "object<" + strings.Join(parts, ",") + ">"
	default:
		return t.FriendlyName()
	}
}

// children returns the immediate element types of a composite type.
func children(t cty.Type) []cty.Type {
	switch {
	case t.IsListType(), t.IsSetType(), t.IsMapType():
		return []cty.Type{t.ElementType()}
	case t.IsTupleType():
		return t.TupleElementTypes()
	case t.IsObjectType():
		attrs := t.AttributeTypes()
		names := make([]string, 0, len(attrs))
		for n := range attrs {
			names = append(names, n)
		}
		sort.Strings(names)
		out := make([]cty.Type, 0, len(names))
		for _, n := range names {
			out = append(out, attrs[n])
		}
		return out
	default:
		return nil
	}
}
