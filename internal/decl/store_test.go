package decl

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/girder/internal/computation"
	"github.com/vk/girder/internal/scope"
)

func testRange(line int) hcl.Range {
	return hcl.Range{Filename: "app.grid", Start: hcl.Pos{Line: line, Column: 1}}
}

func TestStore_RegistrationOrder(t *testing.T) {
	t.Parallel()

	scopes := scope.NewTree()
	s := NewStore(scopes)
	comps := computation.NewStore()
	sig := comps.Callable("app.Thing", computation.Signature{})

	c1 := s.AddConstructor(sig, scopes.Root(), Singleton, MayDuplicate, testRange(1))
	h := s.AddRequestHandler(sig, scopes.Root(), testRange(2))
	c2 := s.AddConstructor(sig, scopes.Root(), Transient, NeverDuplicate, testRange(3))
	fb := s.AddFallback(sig, scopes.Root(), testRange(4))

	assert.Equal(t, 4, s.Len())
	assert.Equal(t, []ID{c1, c2}, s.ByKind(KindConstructor))

	// Handlers and fallbacks interleave in registration order.
	assert.Equal(t, []ID{h, fb}, s.RequestHandlers())

	assert.Equal(t, Singleton, s.LifecycleOf(c1))
	assert.Equal(t, NeverDuplicate, s.CloningOf(c2))
	assert.Equal(t, RequestScoped, s.LifecycleOf(h))
}

func TestStore_ErrorHandlerInheritsFromTarget(t *testing.T) {
	t.Parallel()

	scopes := scope.NewTree()
	child := scopes.NewChild(scopes.Root())
	s := NewStore(scopes)
	comps := computation.NewStore()
	sig := comps.Callable("app.Thing", computation.Signature{})

	target := s.AddConstructor(sig, child, Transient, MayDuplicate, testRange(1))
	eh := s.AddErrorHandler(sig, target, testRange(2))

	d := s.Get(eh)
	assert.Equal(t, KindErrorHandler, d.Kind)
	assert.Equal(t, target, d.Fallible)
	assert.Equal(t, child, s.ScopeOf(eh))
	assert.Equal(t, Transient, s.LifecycleOf(eh))
}

func TestStore_ChainsAndLints(t *testing.T) {
	t.Parallel()

	scopes := scope.NewTree()
	s := NewStore(scopes)
	comps := computation.NewStore()
	sig := comps.Callable("app.Thing", computation.Signature{})

	h := s.AddRequestHandler(sig, scopes.Root(), testRange(1))
	mw := s.AddWrappingMiddleware(sig, scopes.Root(), testRange(2))
	obs := s.AddErrorObserver(sig, scopes.Root(), testRange(3))
	s.SetMiddlewares(h, []ID{mw})
	s.SetObservers(h, []ID{obs})
	s.OverrideLint(h, LintUnused, LintWarn)

	assert.Equal(t, []ID{mw}, s.MiddlewareIDs(h))
	assert.Equal(t, []ID{obs}, s.ObserverIDs(h))

	lints := s.LintsOf(h)
	require.Len(t, lints, 1)
	assert.Equal(t, LintWarn, lints[LintUnused])
	assert.Nil(t, s.LintsOf(mw))
}
