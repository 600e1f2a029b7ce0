package graphdb

import (
	"github.com/vk/girder/internal/component"
	"github.com/vk/girder/internal/computation"
	"github.com/vk/girder/internal/decl"
	"github.com/vk/girder/internal/scope"
)

// Read API consumed by the downstream emitter. The graph is immutable by
// the time these are called.

// Component returns the component for id.
func (g *Graph) Component(id component.ID) component.Component {
	return g.registry.Get(id)
}

// ComputationOf returns the computation backing the component.
func (g *Graph) ComputationOf(id component.ID) computation.ID {
	return g.computationOf(id)
}

// Len returns the number of components in the graph.
func (g *Graph) Len() int {
	return g.registry.Len()
}

// Each visits every component in insertion order until fn returns false.
func (g *Graph) Each(fn func(component.ID, component.Component) bool) {
	g.registry.Each(fn)
}

// Lifecycle returns the lifecycle of a component. Every component has one.
func (g *Graph) Lifecycle(id component.ID) decl.Lifecycle {
	return g.lifecycles[id]
}

// CloningStrategy returns the duplication policy of a constructor.
func (g *Graph) CloningStrategy(id component.ID) (decl.CloningStrategy, bool) {
	c, ok := g.cloning[id]
	return c, ok
}

// MiddlewareChain returns the ordered middleware ids wrapped around a
// request handler. The chain exists for every registered handler, empty or
// not.
func (g *Graph) MiddlewareChain(id component.ID) ([]component.ID, bool) {
	chain, ok := g.middlewareChains[id]
	return chain, ok
}

// ErrorObservers returns the ordered observer ids invoked when something
// goes wrong in the handler's pipeline.
func (g *Graph) ErrorObservers(id component.ID) ([]component.ID, bool) {
	chain, ok := g.observerChains[id]
	return chain, ok
}

// TransformerIDs returns the transformers attached to a component, in
// insertion order.
func (g *Graph) TransformerIDs(id component.ID) []component.ID {
	return g.transformers[id]
}

// OutcomeMatch returns the success and error splitter ids of a fallible
// component. It reports false for infallible components.
func (g *Graph) OutcomeMatch(id component.ID) (MatchPair, bool) {
	pair, ok := g.matchPairs[id]
	return pair, ok
}

// FallibleOf returns the fallible component a splitter belongs to.
func (g *Graph) FallibleOf(matchID component.ID) (component.ID, bool) {
	id, ok := g.fallibleOf[matchID]
	return id, ok
}

// ErrorHandlerFor returns the error handler paired with an error splitter.
func (g *Graph) ErrorHandlerFor(errMatchID component.ID) (component.ID, bool) {
	id, ok := g.errHandlers[errMatchID]
	return id, ok
}

// DerivedFrom returns the user-declared root a derived constructor was
// built from.
func (g *Graph) DerivedFrom(id component.ID) (component.ID, bool) {
	root, ok := g.derivedFrom[id]
	return root, ok
}

// DerivedComponentIDs returns every component derived from id, depth
// first: its splitters, their splitters, and so on.
func (g *Graph) DerivedComponentIDs(id component.ID) []component.ID {
	var out []component.ID
	if pair, ok := g.matchPairs[id]; ok {
		out = append(out, pair.OK, pair.Err)
		out = append(out, g.DerivedComponentIDs(pair.OK)...)
		out = append(out, g.DerivedComponentIDs(pair.Err)...)
	}
	return out
}

// IsFrameworkPrimitive reports whether the component was injected from the
// framework item list rather than declared by the user.
func (g *Graph) IsFrameworkPrimitive(id component.ID) bool {
	_, ok := g.frameworkIDs[id]
	return ok
}

// ObserverErrorIndex returns the position of the error parameter in an
// observer's input list.
func (g *Graph) ObserverErrorIndex(id component.ID) (int, bool) {
	idx, ok := g.observerErrIndex[id]
	return idx, ok
}

// InsertionPolicy returns when a transformer should be applied.
func (g *Graph) InsertionPolicy(id component.ID) (InsertionPolicy, bool) {
	p, ok := g.insertionPolicy[id]
	return p, ok
}

// Lints returns the lint overrides of the declaration behind the
// component, if it has one.
func (g *Graph) Lints(id component.ID) map[decl.Lint]decl.LintSetting {
	c := g.registry.Get(id)
	if !c.Source.FromDecl {
		return nil
	}
	return g.decls.LintsOf(c.Source.Decl)
}

// ComponentOf returns the component a declaration became, if it survived
// validation.
func (g *Graph) ComponentOf(d decl.ID) (component.ID, bool) {
	id, ok := g.declComponents[d]
	return id, ok
}

// RequestHandlerIDs returns every request handler component, in insertion
// order.
func (g *Graph) RequestHandlerIDs() []component.ID {
	var out []component.ID
	g.registry.Each(func(id component.ID, c component.Component) bool {
		if c.Kind == component.KindRequestHandler {
			out = append(out, id)
		}
		return true
	})
	return out
}

// Constructors returns every constructor component, user-declared or
// synthetic, in insertion order.
func (g *Graph) Constructors() []component.ID {
	var out []component.ID
	g.registry.Each(func(id component.ID, c component.Component) bool {
		if c.Kind == component.KindConstructor {
			out = append(out, id)
		}
		return true
	})
	return out
}

// ScopesWithObservers returns the snapshot of scopes that contain at least
// one handler with a non-empty observer chain.
func (g *Graph) ScopesWithObservers() []scope.ID {
	return append([]scope.ID(nil), g.scopesWithObservers...)
}
