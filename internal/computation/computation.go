// Package computation is the computation store: interned callable
// signatures, framework-provided items, and the synthetic outcome matchers
// derived from fallible computations. Identity is structural — two
// computations with the same shape always share an id.
package computation

import (
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/girder/internal/typesys"
)

// ID identifies an interned computation.
type ID int32

// Kind discriminates the computation variants.
type Kind uint8

const (
	// KindCallable is a resolved function signature.
	KindCallable Kind = iota
	// KindFrameworkItem is a value supplied by the framework itself rather
	// than produced by user code.
	KindFrameworkItem
	// KindMatchOutcome projects one branch of a fallible computation's
	// outcome.
	KindMatchOutcome
)

// Branch selects a side of a fallible outcome.
type Branch uint8

const (
	BranchOK Branch = iota
	BranchErr
)

// Signature is a callable's resolved type signature. Err is cty.NilType for
// infallible computations.
type Signature struct {
	Inputs []cty.Type
	Output cty.Type
	Err    cty.Type
}

// Fallible reports whether the computation can fail.
func (s Signature) Fallible() bool {
	return s.Err != cty.NilType
}

// key renders a canonical structural key for the signature.
func (s Signature) key() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, in := range s.Inputs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(typesys.Key(in))
	}
	b.WriteString(")->")
	b.WriteString(typesys.Key(s.Output))
	b.WriteByte('!')
	b.WriteString(typesys.Key(s.Err))
	return b.String()
}

// Computation is a single interned computation.
//
// For KindMatchOutcome, Of points at the fallible computation the matcher
// projects and Branch selects the side; the signature's output is the branch
// type.
type Computation struct {
	Kind   Kind
	Path   string
	Sig    Signature
	Of     ID
	Branch Branch
}

func (c Computation) key() string {
	var b strings.Builder
	switch c.Kind {
	case KindCallable:
		b.WriteString("callable|")
	case KindFrameworkItem:
		b.WriteString("framework|")
	case KindMatchOutcome:
		b.WriteString("match|")
	}
	b.WriteString(c.Path)
	b.WriteByte('|')
	b.WriteString(c.Sig.key())
	if c.Kind == KindMatchOutcome {
		b.WriteByte('|')
		if c.Branch == BranchErr {
			b.WriteString("err")
		} else {
			b.WriteString("ok")
		}
		b.WriteByte('@')
		b.WriteString(strconv.Itoa(int(c.Of)))
	}
	return b.String()
}
