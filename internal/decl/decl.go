// Package decl is the declaration store: the user-declared building blocks
// the graph builder consumes, grouped by kind and tagged with scope,
// lifecycle, duplication policy and lint overrides. It is populated by the
// upstream parsing stage (or directly by tests) and is read-only during the
// build.
package decl

import (
	"github.com/hashicorp/hcl/v2"

	"github.com/vk/girder/internal/computation"
	"github.com/vk/girder/internal/scope"
)

// ID identifies a single user declaration.
type ID int32

// Kind discriminates the declaration variants.
type Kind uint8

const (
	KindConstructor Kind = iota
	KindRequestHandler
	KindFallback
	KindWrappingMiddleware
	KindErrorHandler
	KindErrorObserver
)

func (k Kind) String() string {
	switch k {
	case KindConstructor:
		return "constructor"
	case KindRequestHandler:
		return "request handler"
	case KindFallback:
		return "fallback handler"
	case KindWrappingMiddleware:
		return "wrapping middleware"
	case KindErrorHandler:
		return "error handler"
	case KindErrorObserver:
		return "error observer"
	default:
		return "unknown"
	}
}

// Lifecycle determines how often a constructor's output is produced.
type Lifecycle uint8

const (
	Singleton Lifecycle = iota
	RequestScoped
	Transient
)

func (l Lifecycle) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case RequestScoped:
		return "request-scoped"
	case Transient:
		return "transient"
	default:
		return "unknown"
	}
}

// CloningStrategy records whether a constructed value may be duplicated for
// reuse across consumers.
type CloningStrategy uint8

const (
	MayDuplicate CloningStrategy = iota
	NeverDuplicate
)

func (c CloningStrategy) String() string {
	if c == NeverDuplicate {
		return "never-duplicate"
	}
	return "may-duplicate"
}

// Lint names a lint the user may override per declaration.
type Lint uint8

const (
	// LintUnused fires when a registered component never ends up used by
	// any handler pipeline.
	LintUnused Lint = iota
)

func (l Lint) String() string {
	if l == LintUnused {
		return "unused"
	}
	return "unknown"
}

// LintSetting is the user's override for a lint.
type LintSetting uint8

const (
	LintAllow LintSetting = iota
	LintWarn
	LintDeny
)

func (s LintSetting) String() string {
	switch s {
	case LintWarn:
		return "warn"
	case LintDeny:
		return "deny"
	default:
		return "allow"
	}
}

// Decl is a single user declaration. The computation id points at the
// resolved callable signature held by the computation store.
type Decl struct {
	Kind        Kind
	Computation computation.ID
	Scope       scope.ID
	Lifecycle   Lifecycle
	Cloning     CloningStrategy
	// Fallible is the declaration an error handler attaches to.
	// Only meaningful when Kind is KindErrorHandler.
	Fallible ID
	Range    hcl.Range
}
