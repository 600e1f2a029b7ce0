package graphdb

import (
	"fmt"
	"io"
	"sort"

	"github.com/vk/girder/internal/component"
	"github.com/vk/girder/internal/decl"
)

// Dump writes a human-readable rendition of the graph, one block per
// component in insertion order. Meant for debugging builder output, not
// for machine consumption.
func (g *Graph) Dump(w io.Writer) {
	g.registry.Each(func(id component.ID, c component.Component) bool {
		comp := g.comps.Get(g.computationOf(id))
		fmt.Fprintf(w, "%d: %s\n", id, c.Kind)
		fmt.Fprintf(w, "  computation: %s\n", comp.Path)
		fmt.Fprintf(w, "  lifecycle: %s\n", g.lifecycles[id])
		fmt.Fprintf(w, "  scope: %d\n", g.ScopeOf(id))
		if clone, ok := g.cloning[id]; ok {
			fmt.Fprintf(w, "  cloning: %s\n", clone)
		}
		if pair, ok := g.matchPairs[id]; ok {
			fmt.Fprintf(w, "  outcome match: ok=%d err=%d\n", pair.OK, pair.Err)
		}
		if handler, ok := g.errHandlers[id]; ok {
			fmt.Fprintf(w, "  error handler: %d\n", handler)
		}
		if root, ok := g.derivedFrom[id]; ok {
			fmt.Fprintf(w, "  derived from: %d\n", root)
		}
		if _, ok := g.frameworkIDs[id]; ok {
			fmt.Fprintf(w, "  framework primitive\n")
		}
		if ts := g.transformers[id]; len(ts) > 0 {
			fmt.Fprintf(w, "  transformers: %v\n", ts)
		}
		if chain, ok := g.middlewareChains[id]; ok {
			fmt.Fprintf(w, "  middleware chain: %v\n", chain)
		}
		if chain, ok := g.observerChains[id]; ok {
			fmt.Fprintf(w, "  error observers: %v\n", chain)
		}
		if lints := g.Lints(id); len(lints) > 0 {
			keys := make([]string, 0, len(lints))
			byName := make(map[string]decl.LintSetting, len(lints))
			for lint, setting := range lints {
				keys = append(keys, lint.String())
				byName[lint.String()] = setting
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(w, "  lint %s: %s\n", k, byName[k])
			}
		}
		return true
	})
}
