// Package diag defines the diagnostic taxonomy of the graph core on top of
// hcl.Diagnostics. Every record carries a machine-readable Kind in its
// Extra field alongside the human message, and the offending declaration's
// source range as the subject. The sink is append-only: the core never
// clears or reorders it.
package diag

import "github.com/hashicorp/hcl/v2"

// Kind is the machine-readable classification of a diagnostic.
type Kind string

const (
	InvalidConstructorShape       Kind = "invalid-constructor-shape"
	InvalidHandlerShape           Kind = "invalid-handler-shape"
	InvalidMiddlewareShape        Kind = "invalid-middleware-shape"
	InvalidObserverShape          Kind = "invalid-observer-shape"
	ErrorHandlerSignatureMismatch Kind = "error-handler-signature-mismatch"
	ErrorHandlerForSingleton      Kind = "error-handler-for-singleton"
	ErrorHandlerForInfallible     Kind = "error-handler-for-infallible"
	MissingErrorHandler           Kind = "missing-error-handler"
	ResponseNotConvertible        Kind = "response-not-convertible"
	UnresolvedConversionPath      Kind = "unresolved-conversion-path"
)

// New builds a diagnostic of the given kind. Every diagnostic in this
// subsystem is locally recoverable, so the severity is always an error on
// the offending declaration rather than a build abort.
func New(kind Kind, subject hcl.Range, summary, detail string) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   detail,
		Subject:  &subject,
		Extra:    kind,
	}
}

// KindOf extracts the Kind from a diagnostic, if it carries one.
func KindOf(d *hcl.Diagnostic) (Kind, bool) {
	k, ok := d.Extra.(Kind)
	return k, ok
}

// Filter returns the diagnostics of the given kind, preserving order.
func Filter(diags hcl.Diagnostics, kind Kind) hcl.Diagnostics {
	var out hcl.Diagnostics
	for _, d := range diags {
		if k, ok := KindOf(d); ok && k == kind {
			out = append(out, d)
		}
	}
	return out
}

// Count returns how many diagnostics of the given kind are present.
func Count(diags hcl.Diagnostics, kind Kind) int {
	return len(Filter(diags, kind))
}
