package graphdb

import (
	"errors"
	"fmt"

	"github.com/dominikbraun/graph"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/girder/internal/component"
	"github.com/vk/girder/internal/computation"
	"github.com/vk/girder/internal/decl"
	"github.com/vk/girder/internal/scope"
	"github.com/vk/girder/internal/typesys"
)

// CapIntoResponse is the capability a terminal output type must satisfy to
// be converted into the canonical response type.
const CapIntoResponse typesys.Capability = "IntoResponse"

// InsertionPolicy directs when a transformer is applied to the value it
// transforms.
type InsertionPolicy uint8

const (
	InsertEager InsertionPolicy = iota
	InsertLazy
)

// MatchPair holds the success and error splitter ids of a fallible
// component.
type MatchPair struct {
	OK  component.ID
	Err component.ID
}

// FrameworkItem is a framework-provided primitive injected into the graph
// as a root constructor.
type FrameworkItem struct {
	Path      string
	Type      cty.Type
	Lifecycle decl.Lifecycle
	Cloning   decl.CloningStrategy
}

// Canon holds the canonical types every terminal output and observed error
// converge to, and the synthetic callables that perform the conversions.
type Canon struct {
	// Response is the single unified response type of terminal outputs.
	Response    cty.Type
	ResponseCap typesys.Capability
	// Error is the canonical error type observers receive.
	Error         cty.Type
	ErrorCtorPath string
	// Next is the next-in-chain continuation type middlewares wrap.
	Next         cty.Type
	NextCtorPath string
}

// BuildInput carries everything a build needs. The stores are populated
// upstream; the build only reads declarations and interns computations.
type BuildInput struct {
	Decls          *decl.Store
	Computations   *computation.Store
	Oracle         typesys.Oracle
	Canon          Canon
	FrameworkItems []FrameworkItem
}

// noComponent marks the absence of a component id, e.g. a synthetic
// constructor that is not derived from anything.
const noComponent component.ID = -1

// Graph is the finished component graph. It is exclusively owned and
// mutated by Build; once Build returns, it is read-only.
type Graph struct {
	registry *component.Registry
	decls    *decl.Store
	comps    *computation.Store
	oracle   typesys.Oracle
	canon    Canon

	lifecycles       map[component.ID]decl.Lifecycle
	cloning          map[component.ID]decl.CloningStrategy
	middlewareChains map[component.ID][]component.ID
	observerChains   map[component.ID][]component.ID
	transformers     map[component.ID][]component.ID
	matchPairs       map[component.ID]MatchPair
	fallibleOf       map[component.ID]component.ID
	errHandlers      map[component.ID]component.ID
	observerErrIndex map[component.ID]int
	insertionPolicy  map[component.ID]InsertionPolicy
	declComponents   map[decl.ID]component.ID
	derivedFrom      map[component.ID]component.ID
	frameworkIDs     map[component.ID]struct{}

	// scopesWithObservers is snapshotted once, during the observer pass;
	// every later error-splitter upcast decision reads this snapshot.
	scopesWithObservers []scope.ID

	// derivations mirrors every derived-from and outcome-match edge so the
	// root-finding walk is guaranteed a finite, acyclic chain.
	derivations graph.Graph[component.ID, component.ID]
}

func newGraph(in BuildInput) *Graph {
	return &Graph{
		registry:         component.NewRegistry(),
		decls:            in.Decls,
		comps:            in.Computations,
		oracle:           in.Oracle,
		canon:            in.Canon,
		lifecycles:       make(map[component.ID]decl.Lifecycle),
		cloning:          make(map[component.ID]decl.CloningStrategy),
		middlewareChains: make(map[component.ID][]component.ID),
		observerChains:   make(map[component.ID][]component.ID),
		transformers:     make(map[component.ID][]component.ID),
		matchPairs:       make(map[component.ID]MatchPair),
		fallibleOf:       make(map[component.ID]component.ID),
		errHandlers:      make(map[component.ID]component.ID),
		observerErrIndex: make(map[component.ID]int),
		insertionPolicy:  make(map[component.ID]InsertionPolicy),
		declComponents:   make(map[decl.ID]component.ID),
		derivedFrom:      make(map[component.ID]component.ID),
		frameworkIDs:     make(map[component.ID]struct{}),
		derivations: graph.New(func(id component.ID) component.ID { return id },
			graph.Directed(), graph.PreventCycles()),
	}
}

// computationOf resolves the computation backing a component, whichever
// side of the Source variant it comes from.
func (g *Graph) computationOf(id component.ID) computation.ID {
	c := g.registry.Get(id)
	if c.Source.FromDecl {
		return g.decls.Get(c.Source.Decl).Computation
	}
	return c.Source.Computation
}

// ScopeOf returns the scope a component belongs to.
func (g *Graph) ScopeOf(id component.ID) scope.ID {
	c := g.registry.Get(id)
	if c.Source.FromDecl {
		return g.decls.ScopeOf(c.Source.Decl)
	}
	return c.Source.Scope
}

// recordDerivation adds a derivation edge to the mirror graph. A cycle here
// is a builder defect, not user error.
func (g *Graph) recordDerivation(parent, child component.ID) {
	_ = g.derivations.AddVertex(parent)
	_ = g.derivations.AddVertex(child)
	if err := g.derivations.AddEdge(parent, child); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
		panic(fmt.Sprintf("graphdb: derivation edge %d -> %d: %v", parent, child, err))
	}
}
