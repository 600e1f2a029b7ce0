package graphdb

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/girder/internal/component"
	"github.com/vk/girder/internal/computation"
)

// maybeRegisterMatchers splits the component's outcome when the pipeline
// has reached the auto-match phase. During seeding, splitting is deferred
// to the backlog flush so the observer-scope snapshot exists first.
func (g *Graph) maybeRegisterMatchers(id component.ID, ph phase) {
	if ph == phaseAutoMatch {
		g.registerMatchers(id)
	}
}

// flushMatcherBacklog splits every fallible component interned during the
// seeding passes.
func (g *Graph) flushMatcherBacklog() {
	ids := make([]component.ID, 0, g.registry.Len())
	g.registry.Each(func(id component.ID, _ component.Component) bool {
		ids = append(ids, id)
		return true
	})
	for _, id := range ids {
		g.registerMatchers(id)
	}
}

// registerMatchers derives the success and error splitters for a fallible
// component.
//
// The success branch of a constructor becomes a synthetic constructor —
// consumers depend on the unwrapped value directly — inheriting the
// original's lifecycle and duplication policy. The success branch of any
// other kind, and every error branch, become transformers attached to the
// original. Re-deriving an already-split component is a no-op.
func (g *Graph) registerMatchers(id component.ID) {
	if _, done := g.matchPairs[id]; done {
		return
	}
	c := g.registry.Get(id)
	if c.Kind == component.KindTransformer {
		return
	}
	compID := g.computationOf(id)
	comp := g.comps.Get(compID)
	if !comp.Sig.Fallible() {
		return
	}

	okCompID, errCompID := g.comps.Split(compID)
	sc := g.ScopeOf(id)

	var okID component.ID
	if c.Kind == component.KindConstructor {
		okID = g.internSyntheticConstructor(okCompID, sc, g.lifecycles[id], g.cloning[id], id, phaseAutoMatch)
	} else {
		okID = g.internTransformer(okCompID, id, sc, component.ByValue, InsertEager, phaseAutoMatch)
	}
	errID := g.internTransformer(errCompID, id, sc, component.ByValue, InsertEager, phaseAutoMatch)

	g.matchPairs[id] = MatchPair{OK: okID, Err: errID}
	g.fallibleOf[okID] = id
	g.fallibleOf[errID] = id
	g.recordDerivation(id, okID)
	g.recordDerivation(id, errID)

	// Observers always receive the canonical error type, whatever the
	// concrete error is. The upcast is needed only in scopes that actually
	// have observers, per the snapshot taken during the observer pass.
	if !comp.Sig.Err.Equals(g.canon.Error) {
		for _, obsScope := range g.scopesWithObservers {
			upcast := g.comps.Callable(g.canon.ErrorCtorPath, computation.Signature{
				Inputs: []cty.Type{comp.Sig.Err},
				Output: g.canon.Error,
			})
			g.internTransformer(upcast, errID, obsScope, component.ByPointer, InsertEager, phaseAutoMatch)
		}
	}
}
