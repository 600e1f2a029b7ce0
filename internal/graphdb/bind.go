package graphdb

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/girder/internal/component"
	"github.com/vk/girder/internal/computation"
)

// maxDerivationDepth bounds the root-finding walk. The derivation mirror
// graph already prevents cycles; the depth guard additionally catches a
// chain that somehow grows without bound.
const maxDerivationDepth = 64

// rootOf walks from id to the user-declared component it is ultimately
// derived from. Binding must always start at a root: specializing an
// intermediate derived node would produce duplicate, inconsistent
// subtrees.
func (g *Graph) rootOf(id component.ID) component.ID {
	for depth := 0; depth < maxDerivationDepth; depth++ {
		c := g.registry.Get(id)
		switch c.Kind {
		case component.KindWrappingMiddleware:
			return id
		case component.KindConstructor:
			comp := g.comps.Get(g.computationOf(id))
			if comp.Kind != computation.KindMatchOutcome {
				return id
			}
			fallible, ok := g.fallibleOf[id]
			if !ok {
				panic(fmt.Sprintf("graphdb: matcher %d has no fallible back-pointer", id))
			}
			id = fallible
		default:
			panic(fmt.Sprintf("graphdb: cannot bind generic parameters on a %s", c.Kind))
		}
	}
	panic(fmt.Sprintf("graphdb: derivation chain behind %d exceeds depth %d", id, maxDerivationDepth))
}

// BindTypeParams specializes a templated component (and its whole derived
// subtree) to the concrete types in bindings, reusing canonical identity:
// binding the same root with the same map twice returns the same id.
func (g *Graph) BindTypeParams(id component.ID, bindings map[string]cty.Type) component.ID {
	id = g.rootOf(id)
	sc := g.ScopeOf(id)
	c := g.registry.Get(id)

	var boundID component.ID
	switch c.Kind {
	case component.KindConstructor:
		bound := g.comps.BindTypeParams(g.computationOf(id), bindings)
		if err := component.ValidateConstructor(bound.Sig); err != nil {
			panic(fmt.Sprintf("graphdb: binding constructor %d broke its shape: %v", id, err))
		}
		// Interning the bound constructor re-derives the whole subtree
		// (splitters, upcasts) under the new concrete id.
		boundID = g.internSyntheticConstructor(g.comps.Intern(bound), sc,
			g.lifecycles[id], g.cloning[id], id, phaseAutoMatch)
	case component.KindWrappingMiddleware:
		bound := g.comps.BindTypeParams(g.computationOf(id), bindings)
		boundID = g.internSyntheticMiddleware(g.comps.Intern(bound), sc, phaseAutoMatch)
	}

	pair, fallible := g.matchPairs[id]
	if !fallible {
		return boundID
	}
	handlerID, ok := g.errHandlers[pair.Err]
	if !ok {
		return boundID
	}
	g.rebindErrorHandler(id, handlerID, boundID, bindings)
	return boundID
}

// rebindErrorHandler specializes the error handler paired with a fallible
// root when the root itself gets bound. The handler's generic parameters
// may be named differently from the root's, so a structural equivalence
// query against the error type translates the bindings first. The
// handler's own transformer subtree is then rebound with the original,
// untranslated bindings and reattached under the bound handler.
func (g *Graph) rebindErrorHandler(rootID, handlerID, boundRootID component.ID, bindings map[string]cty.Type) {
	rootErr := g.comps.Get(g.computationOf(rootID)).Sig.Err
	handlerCompID := g.computationOf(handlerID)
	handlerSig := g.comps.Get(handlerCompID).Sig

	_, remap, ok := component.ErrorInputIndex(handlerSig, rootErr)
	if !ok {
		panic(fmt.Sprintf("graphdb: error handler %d no longer accepts the error type of %d", handlerID, rootID))
	}

	// Not every root parameter appears in the handler's signature; only
	// the remapped ones carry over.
	handlerBindings := make(map[string]cty.Type, len(bindings))
	for name, concrete := range bindings {
		if mapped, ok := remap[name]; ok {
			handlerBindings[mapped] = concrete
		}
	}

	boundHandler := g.comps.BindTypeParams(handlerCompID, handlerBindings)
	boundHandlerID := g.internErrorHandler(
		component.SyntheticSource(g.comps.Intern(boundHandler), g.ScopeOf(rootID)),
		boundRootID, phaseAutoMatch)

	subtree := append([]component.ID(nil), g.transformers[handlerID]...)
	for _, tID := range subtree {
		tc := g.registry.Get(tID)
		boundT := g.comps.BindTypeParams(g.computationOf(tID), bindings)
		g.internTransformer(g.comps.Intern(boundT), boundHandlerID, g.ScopeOf(rootID),
			tc.Mode, g.insertionPolicy[tID], phaseAutoMatch)
	}
}
