// Package component defines the tagged component variants that make up the
// graph, the canonicalizing registry that owns their identity, and the
// shape validation rules applied before a declaration becomes a component.
package component

import (
	"github.com/vk/girder/internal/computation"
	"github.com/vk/girder/internal/decl"
	"github.com/vk/girder/internal/interner"
	"github.com/vk/girder/internal/scope"
)

// ID identifies a component. Ids are issued by the Registry, are stable for
// the lifetime of the graph, and are never reused or removed.
type ID int32

// Kind discriminates the component variants. The set is closed: every
// consumption site switches exhaustively over it.
type Kind uint8

const (
	KindConstructor Kind = iota
	KindRequestHandler
	KindWrappingMiddleware
	KindErrorHandler
	KindErrorObserver
	KindTransformer
)

func (k Kind) String() string {
	switch k {
	case KindConstructor:
		return "constructor"
	case KindRequestHandler:
		return "request handler"
	case KindWrappingMiddleware:
		return "wrapping middleware"
	case KindErrorHandler:
		return "error handler"
	case KindErrorObserver:
		return "error observer"
	case KindTransformer:
		return "transformer"
	default:
		return "unknown"
	}
}

// ConsumptionMode records how a transformer consumes its input.
type ConsumptionMode uint8

const (
	ByValue ConsumptionMode = iota
	ByPointer
)

// Source is where a component comes from: a user declaration, or a
// synthesized (computation, scope) pair.
type Source struct {
	FromDecl    bool
	Decl        decl.ID
	Computation computation.ID
	Scope       scope.ID
}

// DeclSource points a component at a user declaration.
func DeclSource(id decl.ID) Source {
	return Source{FromDecl: true, Decl: id}
}

// SyntheticSource points a component at an interned computation in a scope.
func SyntheticSource(comp computation.ID, sc scope.ID) Source {
	return Source{Computation: comp, Scope: sc}
}

// Component is a single graph node. All fields are scalar so that the
// struct itself is the hash-consing key: structurally identical components
// always collapse to one id.
type Component struct {
	Kind   Kind
	Source Source
	// Transformed is the component this transformer attaches to.
	// Only meaningful when Kind is KindTransformer.
	Transformed ID
	// Mode is the transformer's consumption mode.
	Mode ConsumptionMode
}

// Registry is the canonicalizing registry: the single writer of component
// identity.
type Registry struct {
	in *interner.Interner[Component, Component, ID]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{in: interner.New[Component, Component, ID]()}
}

// Intern returns the id for c, allocating one if a structurally identical
// component was never registered. The second return reports whether the
// component is new.
func (r *Registry) Intern(c Component) (ID, bool) {
	return r.in.Intern(c, c)
}

// Get returns the component for id.
func (r *Registry) Get(id ID) Component {
	return r.in.Get(id)
}

// Len returns the number of registered components.
func (r *Registry) Len() int {
	return r.in.Len()
}

// Each visits every component in insertion order until fn returns false.
func (r *Registry) Each(fn func(ID, Component) bool) {
	r.in.Each(fn)
}
