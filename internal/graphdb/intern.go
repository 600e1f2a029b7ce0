package graphdb

import (
	"fmt"

	"github.com/vk/girder/internal/component"
	"github.com/vk/girder/internal/computation"
	"github.com/vk/girder/internal/decl"
	"github.com/vk/girder/internal/scope"
)

// The intern helpers below are the only writers of the registry and the
// side tables. Each one records the metadata its kind requires and then
// hands the id to the matcher deriver, which splits it immediately when
// the pipeline has reached the auto-match phase.

func (g *Graph) intern(c component.Component, lc decl.Lifecycle) component.ID {
	id, _ := g.registry.Intern(c)
	if c.Source.FromDecl {
		g.declComponents[c.Source.Decl] = id
	}
	g.lifecycles[id] = lc
	return id
}

func (g *Graph) internRequestHandler(d decl.ID, ph phase) component.ID {
	id := g.intern(component.Component{
		Kind:   component.KindRequestHandler,
		Source: component.DeclSource(d),
	}, g.decls.LifecycleOf(d))
	g.maybeRegisterMatchers(id, ph)
	return id
}

func (g *Graph) internObserver(d decl.ID, errIndex int, ph phase) component.ID {
	id := g.intern(component.Component{
		Kind:   component.KindErrorObserver,
		Source: component.DeclSource(d),
	}, g.decls.LifecycleOf(d))
	g.observerErrIndex[id] = errIndex
	g.maybeRegisterMatchers(id, ph)
	return id
}

func (g *Graph) internUserConstructor(d decl.ID, ph phase) component.ID {
	id := g.intern(component.Component{
		Kind:   component.KindConstructor,
		Source: component.DeclSource(d),
	}, g.decls.LifecycleOf(d))
	g.cloning[id] = g.decls.CloningOf(d)
	g.maybeRegisterMatchers(id, ph)
	return id
}

func (g *Graph) internSyntheticConstructor(comp computation.ID, sc scope.ID, lc decl.Lifecycle,
	clone decl.CloningStrategy, derivedFrom component.ID, ph phase) component.ID {

	id := g.intern(component.Component{
		Kind:   component.KindConstructor,
		Source: component.SyntheticSource(comp, sc),
	}, lc)
	g.cloning[id] = clone
	if derivedFrom != noComponent {
		// The derived-from table always points at the user-declared root,
		// never at an intermediate derived node.
		root := derivedFrom
		if r, ok := g.derivedFrom[derivedFrom]; ok {
			root = r
		}
		g.derivedFrom[id] = root
		if id != derivedFrom {
			g.recordDerivation(derivedFrom, id)
		}
	}
	g.maybeRegisterMatchers(id, ph)
	return id
}

func (g *Graph) internUserMiddleware(d decl.ID, ph phase) component.ID {
	id := g.intern(component.Component{
		Kind:   component.KindWrappingMiddleware,
		Source: component.DeclSource(d),
	}, g.decls.LifecycleOf(d))
	g.maybeRegisterMatchers(id, ph)
	return id
}

func (g *Graph) internSyntheticMiddleware(comp computation.ID, sc scope.ID, ph phase) component.ID {
	id := g.intern(component.Component{
		Kind:   component.KindWrappingMiddleware,
		Source: component.SyntheticSource(comp, sc),
	}, decl.RequestScoped)
	g.maybeRegisterMatchers(id, ph)
	return id
}

// internErrorHandler pairs a handler with the error splitter of the
// fallible component it covers. The fallible component must already have
// been split; a missing match pair is a builder defect.
func (g *Graph) internErrorHandler(src component.Source, fallible component.ID, ph phase) component.ID {
	pair, ok := g.matchPairs[fallible]
	if !ok {
		panic(fmt.Sprintf("graphdb: error handler paired with unsplit component %d", fallible))
	}
	id := g.intern(component.Component{
		Kind:   component.KindErrorHandler,
		Source: src,
	}, g.lifecycles[fallible])
	g.errHandlers[pair.Err] = id
	g.maybeRegisterMatchers(id, ph)
	return id
}

func (g *Graph) internTransformer(comp computation.ID, transformed component.ID, sc scope.ID,
	mode component.ConsumptionMode, policy InsertionPolicy, ph phase) component.ID {

	id := g.intern(component.Component{
		Kind:        component.KindTransformer,
		Source:      component.SyntheticSource(comp, sc),
		Transformed: transformed,
		Mode:        mode,
	}, g.lifecycles[transformed])
	g.insertionPolicy[id] = policy
	g.attachTransformer(transformed, id)
	g.maybeRegisterMatchers(id, ph)
	return id
}

// attachTransformer appends id to the owner's transformer set, keeping
// insertion order and ignoring duplicates.
func (g *Graph) attachTransformer(owner, id component.ID) {
	for _, existing := range g.transformers[owner] {
		if existing == id {
			return
		}
	}
	g.transformers[owner] = append(g.transformers[owner], id)
}
