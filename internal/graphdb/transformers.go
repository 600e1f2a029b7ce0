package graphdb

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/girder/internal/component"
	"github.com/vk/girder/internal/computation"
	"github.com/vk/girder/internal/decl"
	"github.com/vk/girder/internal/diag"
)

// attachResponseTransformers makes every terminal node produce the
// canonical response type. Terminal nodes are the user-declared handlers,
// middlewares and error handlers; for a fallible one, the conversion
// attaches to its success splitter, since the error branch flows through
// an error handler instead.
func (g *Graph) attachResponseTransformers(diags *hcl.Diagnostics, ph phase) {
	type terminal struct {
		id component.ID
		d  decl.ID
	}
	var terminals []terminal
	g.registry.Each(func(id component.ID, c component.Component) bool {
		if !c.Source.FromDecl {
			return true
		}
		switch c.Kind {
		case component.KindRequestHandler, component.KindWrappingMiddleware, component.KindErrorHandler:
			terminals = append(terminals, terminal{id: id, d: c.Source.Decl})
		}
		return true
	})

	for _, t := range terminals {
		target := t.id
		if pair, ok := g.matchPairs[t.id]; ok {
			target = pair.OK
		}
		out := g.comps.Get(g.computationOf(t.id)).Sig.Output
		if out.Equals(g.canon.Response) {
			continue
		}
		if !g.oracle.Implements(out, g.canon.ResponseCap) {
			*diags = append(*diags, diag.New(diag.ResponseNotConvertible, g.decls.RangeOf(t.d),
				"output cannot become a response",
				fmt.Sprintf("%s does not satisfy the %s capability", out.FriendlyName(), g.canon.ResponseCap)))
			continue
		}
		path, ok := g.oracle.ConversionPath(out, g.canon.Response)
		if !ok {
			*diags = append(*diags, diag.New(diag.UnresolvedConversionPath, g.decls.RangeOf(t.d),
				"no conversion path to the response type",
				fmt.Sprintf("%s satisfies %s but no callable converting it could be resolved",
					out.FriendlyName(), g.canon.ResponseCap)))
			continue
		}
		conv := g.comps.Callable(path, computation.Signature{
			Inputs: []cty.Type{out},
			Output: g.canon.Response,
		})
		g.internTransformer(conv, target, g.ScopeOf(target), component.ByValue, InsertEager, ph)
	}
}
