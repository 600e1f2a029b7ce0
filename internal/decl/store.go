package decl

import (
	"github.com/hashicorp/hcl/v2"

	"github.com/vk/girder/internal/computation"
	"github.com/vk/girder/internal/scope"
)

// Store holds all user declarations for one build, in registration order.
type Store struct {
	scopes      *scope.Tree
	decls       []Decl
	byKind      map[Kind][]ID
	lints       map[ID]map[Lint]LintSetting
	middlewares map[ID][]ID
	observers   map[ID][]ID
}

// NewStore creates an empty store backed by the given scope tree.
func NewStore(scopes *scope.Tree) *Store {
	return &Store{
		scopes:      scopes,
		byKind:      make(map[Kind][]ID),
		lints:       make(map[ID]map[Lint]LintSetting),
		middlewares: make(map[ID][]ID),
		observers:   make(map[ID][]ID),
	}
}

func (s *Store) add(d Decl) ID {
	id := ID(len(s.decls))
	s.decls = append(s.decls, d)
	s.byKind[d.Kind] = append(s.byKind[d.Kind], id)
	return id
}

// AddConstructor registers a value constructor.
func (s *Store) AddConstructor(comp computation.ID, sc scope.ID, lc Lifecycle, clone CloningStrategy, rng hcl.Range) ID {
	return s.add(Decl{Kind: KindConstructor, Computation: comp, Scope: sc, Lifecycle: lc, Cloning: clone, Range: rng})
}

// AddRequestHandler registers a request handler. Handlers are always
// request-scoped.
func (s *Store) AddRequestHandler(comp computation.ID, sc scope.ID, rng hcl.Range) ID {
	return s.add(Decl{Kind: KindRequestHandler, Computation: comp, Scope: sc, Lifecycle: RequestScoped, Range: rng})
}

// AddFallback registers a fallback handler. It follows the same shape and
// chain rules as a request handler.
func (s *Store) AddFallback(comp computation.ID, sc scope.ID, rng hcl.Range) ID {
	return s.add(Decl{Kind: KindFallback, Computation: comp, Scope: sc, Lifecycle: RequestScoped, Range: rng})
}

// AddWrappingMiddleware registers a middleware that wraps the rest of the
// chain.
func (s *Store) AddWrappingMiddleware(comp computation.ID, sc scope.ID, rng hcl.Range) ID {
	return s.add(Decl{Kind: KindWrappingMiddleware, Computation: comp, Scope: sc, Lifecycle: RequestScoped, Range: rng})
}

// AddErrorHandler registers an error handler paired with the fallible
// declaration it covers. Its scope follows the fallible declaration.
func (s *Store) AddErrorHandler(comp computation.ID, fallible ID, rng hcl.Range) ID {
	return s.add(Decl{
		Kind:        KindErrorHandler,
		Computation: comp,
		Scope:       s.decls[fallible].Scope,
		Lifecycle:   s.decls[fallible].Lifecycle,
		Fallible:    fallible,
		Range:       rng,
	})
}

// AddErrorObserver registers an error observer invoked for side effects
// whenever an error occurs in its scope.
func (s *Store) AddErrorObserver(comp computation.ID, sc scope.ID, rng hcl.Range) ID {
	return s.add(Decl{Kind: KindErrorObserver, Computation: comp, Scope: sc, Lifecycle: Transient, Range: rng})
}

// SetMiddlewares pre-associates a handler with its ordered middleware
// declarations.
func (s *Store) SetMiddlewares(handler ID, mws []ID) {
	s.middlewares[handler] = mws
}

// SetObservers pre-associates a handler with its ordered error observer
// declarations.
func (s *Store) SetObservers(handler ID, obs []ID) {
	s.observers[handler] = obs
}

// OverrideLint records a per-declaration lint override.
func (s *Store) OverrideLint(id ID, l Lint, setting LintSetting) {
	m, ok := s.lints[id]
	if !ok {
		m = make(map[Lint]LintSetting)
		s.lints[id] = m
	}
	m[l] = setting
}

// Get returns the declaration for id.
func (s *Store) Get(id ID) Decl {
	return s.decls[id]
}

// Len returns the number of declarations.
func (s *Store) Len() int {
	return len(s.decls)
}

// ByKind returns the ids of the given kind in registration order.
func (s *Store) ByKind(k Kind) []ID {
	return s.byKind[k]
}

// RequestHandlers returns request handlers and fallback handlers together,
// in registration order.
func (s *Store) RequestHandlers() []ID {
	handlers := make([]ID, 0, len(s.byKind[KindRequestHandler])+len(s.byKind[KindFallback]))
	for id, d := range s.decls {
		if d.Kind == KindRequestHandler || d.Kind == KindFallback {
			handlers = append(handlers, ID(id))
		}
	}
	return handlers
}

// ScopeOf returns the scope the declaration belongs to.
func (s *Store) ScopeOf(id ID) scope.ID {
	return s.decls[id].Scope
}

// LifecycleOf returns the declared lifecycle.
func (s *Store) LifecycleOf(id ID) Lifecycle {
	return s.decls[id].Lifecycle
}

// CloningOf returns the declared duplication policy.
func (s *Store) CloningOf(id ID) CloningStrategy {
	return s.decls[id].Cloning
}

// LintsOf returns the lint overrides for the declaration, if any.
func (s *Store) LintsOf(id ID) map[Lint]LintSetting {
	return s.lints[id]
}

// MiddlewareIDs returns the ordered middleware declarations wrapped around
// the handler.
func (s *Store) MiddlewareIDs(handler ID) []ID {
	return s.middlewares[handler]
}

// ObserverIDs returns the ordered error observer declarations attached to
// the handler.
func (s *Store) ObserverIDs(handler ID) []ID {
	return s.observers[handler]
}

// RangeOf returns the source range of the declaration.
func (s *Store) RangeOf(id ID) hcl.Range {
	return s.decls[id].Range
}

// Scopes returns the scope tree backing the store.
func (s *Store) Scopes() *scope.Tree {
	return s.scopes
}
