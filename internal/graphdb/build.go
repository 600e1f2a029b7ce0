package graphdb

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"

	"github.com/vk/girder/internal/component"
	"github.com/vk/girder/internal/computation"
	"github.com/vk/girder/internal/ctxlog"
	"github.com/vk/girder/internal/decl"
	"github.com/vk/girder/internal/diag"
	"github.com/vk/girder/internal/scope"
)

// phase is the pipeline position threaded through every intern call.
// During seeding, matcher auto-registration is held back; once the backlog
// has been flushed, every fallible intern is split immediately.
type phase uint8

const (
	phaseSeeding phase = iota
	phaseAutoMatch
)

// Build constructs the complete component graph from the declaration store.
// Local declaration failures become diagnostics and the declaration is
// dropped; the build always runs to completion.
func Build(ctx context.Context, in BuildInput) (*Graph, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	g := newGraph(in)
	var diags hcl.Diagnostics

	// Fallible components that still need an error handler, in first-seen
	// order so missing-handler diagnostics come out deterministically.
	needs := newDeclSet()

	g.registerRequestHandlers(&diags, needs, phaseSeeding)
	logger.Debug("Build: request handlers registered.", "components", g.registry.Len())

	// Must run after request handlers: the observer-scope snapshot needs
	// every handler's scope to be known.
	g.registerErrorObservers(&diags, phaseSeeding)
	logger.Debug("Build: error observers registered.", "scopes_with_observers", len(g.scopesWithObservers))

	g.flushMatcherBacklog()
	logger.Debug("Build: matcher backlog flushed.", "components", g.registry.Len())

	g.registerConstructors(&diags, needs, phaseAutoMatch)
	logger.Debug("Build: constructors registered.", "components", g.registry.Len())

	g.registerWrappingMiddlewares(&diags, needs, phaseAutoMatch)
	logger.Debug("Build: wrapping middlewares registered.", "components", g.registry.Len())

	g.computeMiddlewareChains()
	logger.Debug("Build: middleware chains computed.")

	g.registerErrorHandlers(&diags, needs, phaseAutoMatch)
	logger.Debug("Build: error handlers registered.")

	for _, d := range needs.items() {
		diags = append(diags, diag.New(diag.MissingErrorHandler, g.decls.RangeOf(d),
			"missing error handler",
			fmt.Sprintf("the fallible %s has no error handler registered for it", g.decls.Get(d).Kind)))
	}

	g.attachResponseTransformers(&diags, phaseAutoMatch)
	logger.Debug("Build: response transformers attached.", "components", g.registry.Len())

	g.injectFrameworkPrimitives(in.FrameworkItems, phaseAutoMatch)
	logger.Debug("Build: framework primitives injected.", "components", g.registry.Len())

	logger.Debug("Build: graph construction complete.", "diagnostics", len(diags))
	return g, diags
}

// registerRequestHandlers validates and interns request handlers and
// fallback handlers. Fallible handlers join the needs-error-handler set.
func (g *Graph) registerRequestHandlers(diags *hcl.Diagnostics, needs *declSet, ph phase) {
	for _, d := range g.decls.RequestHandlers() {
		sig := g.comps.Get(g.decls.Get(d).Computation).Sig
		if err := component.ValidateRequestHandler(sig); err != nil {
			*diags = append(*diags, diag.New(diag.InvalidHandlerShape, g.decls.RangeOf(d),
				"invalid request handler", err.Error()))
			continue
		}
		g.internRequestHandler(d, ph)
		if sig.Fallible() {
			needs.add(d)
		}
	}
}

// registerErrorObservers validates and interns error observers, computes
// the observer chain for every registered handler, and snapshots — once —
// the set of scopes that contain a handler with a non-empty observer
// chain. Error splitters created later consult this snapshot to decide
// whether their raw error must be upcast to the canonical error type.
func (g *Graph) registerErrorObservers(diags *hcl.Diagnostics, ph phase) {
	for _, d := range g.decls.ByKind(decl.KindErrorObserver) {
		sig := g.comps.Get(g.decls.Get(d).Computation).Sig
		errIndex, err := component.ValidateErrorObserver(sig, g.canon.Error)
		if err != nil {
			*diags = append(*diags, diag.New(diag.InvalidObserverShape, g.decls.RangeOf(d),
				"invalid error observer", err.Error()))
			continue
		}
		g.internObserver(d, errIndex, ph)
	}

	g.computeObserverChains()

	seen := make(map[scope.ID]struct{})
	for _, d := range g.decls.RequestHandlers() {
		id, ok := g.declComponents[d]
		if !ok {
			continue
		}
		if len(g.observerChains[id]) == 0 {
			continue
		}
		sc := g.ScopeOf(id)
		if _, dup := seen[sc]; dup {
			continue
		}
		seen[sc] = struct{}{}
		g.scopesWithObservers = append(g.scopesWithObservers, sc)
	}
}

// registerConstructors validates and interns user constructors. Fallible
// constructors join the needs-error-handler set unless they are
// singletons: a singleton's failure surfaces once at startup and is never
// handled per call.
func (g *Graph) registerConstructors(diags *hcl.Diagnostics, needs *declSet, ph phase) {
	for _, d := range g.decls.ByKind(decl.KindConstructor) {
		sig := g.comps.Get(g.decls.Get(d).Computation).Sig
		if err := component.ValidateConstructor(sig); err != nil {
			*diags = append(*diags, diag.New(diag.InvalidConstructorShape, g.decls.RangeOf(d),
				"invalid constructor", err.Error()))
			continue
		}
		id := g.internUserConstructor(d, ph)
		if sig.Fallible() && g.lifecycles[id] != decl.Singleton {
			needs.add(d)
		}
	}
}

// registerWrappingMiddlewares validates and interns wrapping middlewares.
func (g *Graph) registerWrappingMiddlewares(diags *hcl.Diagnostics, needs *declSet, ph phase) {
	for _, d := range g.decls.ByKind(decl.KindWrappingMiddleware) {
		sig := g.comps.Get(g.decls.Get(d).Computation).Sig
		if err := component.ValidateWrappingMiddleware(sig, g.canon.Next); err != nil {
			*diags = append(*diags, diag.New(diag.InvalidMiddlewareShape, g.decls.RangeOf(d),
				"invalid wrapping middleware", err.Error()))
			continue
		}
		g.internUserMiddleware(d, ph)
		if sig.Fallible() {
			needs.add(d)
		}
	}
}

// computeMiddlewareChains assembles the ordered middleware list for every
// successfully registered handler. Middlewares that failed their own
// validation are silently omitted: their failure was already diagnosed and
// must not cascade into the handler.
func (g *Graph) computeMiddlewareChains() {
	for _, d := range g.decls.RequestHandlers() {
		id, ok := g.declComponents[d]
		if !ok {
			continue
		}
		chain := make([]component.ID, 0, len(g.decls.MiddlewareIDs(d)))
		for _, mw := range g.decls.MiddlewareIDs(d) {
			if mid, ok := g.declComponents[mw]; ok {
				chain = append(chain, mid)
			}
		}
		g.middlewareChains[id] = chain
	}
}

// computeObserverChains assembles the ordered error-observer list for
// every successfully registered handler. Invalid observers are omitted.
func (g *Graph) computeObserverChains() {
	for _, d := range g.decls.RequestHandlers() {
		id, ok := g.declComponents[d]
		if !ok {
			continue
		}
		chain := make([]component.ID, 0, len(g.decls.ObserverIDs(d)))
		for _, ob := range g.decls.ObserverIDs(d) {
			if oid, ok := g.declComponents[ob]; ok {
				chain = append(chain, oid)
			}
		}
		g.observerChains[id] = chain
	}
}

// registerErrorHandlers pairs user-declared error handlers with the
// fallible declarations they cover.
func (g *Graph) registerErrorHandlers(diags *hcl.Diagnostics, needs *declSet, ph phase) {
	for _, d := range g.decls.ByKind(decl.KindErrorHandler) {
		target := g.decls.Get(d).Fallible

		if g.decls.LifecycleOf(target) == decl.Singleton {
			*diags = append(*diags, diag.New(diag.ErrorHandlerForSingleton, g.decls.RangeOf(d),
				"error handler attached to a singleton",
				"singleton failures surface once at startup and are never handled per call"))
			continue
		}

		targetSig := g.comps.Get(g.decls.Get(target).Computation).Sig
		if !targetSig.Fallible() {
			*diags = append(*diags, diag.New(diag.ErrorHandlerForInfallible, g.decls.RangeOf(d),
				"error handler attached to an infallible component",
				fmt.Sprintf("the %s it points at cannot fail", g.decls.Get(target).Kind)))
			continue
		}

		sig := g.comps.Get(g.decls.Get(d).Computation).Sig
		if _, err := component.ValidateErrorHandler(sig, targetSig.Err); err != nil {
			*diags = append(*diags, diag.New(diag.ErrorHandlerSignatureMismatch, g.decls.RangeOf(d),
				"error handler signature mismatch", err.Error()))
			continue
		}

		// The fallible declaration may have failed its own validation; it
		// already carries a diagnostic, so the pairing is dropped quietly.
		fallibleID, ok := g.declComponents[target]
		if !ok {
			continue
		}
		g.internErrorHandler(component.DeclSource(d), fallibleID, ph)
		needs.remove(target)
	}
}

// injectFrameworkPrimitives interns one root constructor per framework
// item, plus the synthesized constructor for the next-in-chain
// continuation type that middlewares wrap.
func (g *Graph) injectFrameworkPrimitives(items []FrameworkItem, ph phase) {
	root := g.decls.Scopes().Root()
	for _, item := range items {
		compID := g.comps.FrameworkItem(item.Path, item.Type)
		id := g.internSyntheticConstructor(compID, root, item.Lifecycle, item.Cloning, noComponent, ph)
		g.frameworkIDs[id] = struct{}{}
	}

	nextCtor := g.comps.Callable(g.canon.NextCtorPath, computation.Signature{Output: g.canon.Next})
	g.internSyntheticConstructor(nextCtor, root, decl.RequestScoped, decl.NeverDuplicate, noComponent, ph)
}

// declSet is an insertion-ordered set of declaration ids.
type declSet struct {
	ids  []decl.ID
	seen map[decl.ID]struct{}
}

func newDeclSet() *declSet {
	return &declSet{seen: make(map[decl.ID]struct{})}
}

func (s *declSet) add(id decl.ID) {
	if _, ok := s.seen[id]; ok {
		return
	}
	s.seen[id] = struct{}{}
	s.ids = append(s.ids, id)
}

func (s *declSet) remove(id decl.ID) {
	if _, ok := s.seen[id]; !ok {
		return
	}
	delete(s.seen, id)
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
}

func (s *declSet) items() []decl.ID {
	return s.ids
}
