package component

import (
	"errors"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/girder/internal/computation"
	"github.com/vk/girder/internal/typesys"
)

// Shape validation for user declarations. A declaration that fails its
// shape check never becomes a component; the builder turns the error into a
// diagnostic and moves on.

// ValidateConstructor checks that a computation can act as a value
// constructor: it must produce exactly one output, and that output must not
// be a naked generic parameter (there would be nothing to resolve it from).
func ValidateConstructor(sig computation.Signature) error {
	if sig.Output == cty.NilType {
		return errors.New("a constructor must return a value")
	}
	if name, ok := typesys.ParamName(sig.Output); ok {
		return fmt.Errorf("a constructor cannot return the bare generic parameter %q", name)
	}
	return nil
}

// ValidateRequestHandler checks that a computation can act as a request
// handler: it must produce a well-formed output for the response pipeline.
func ValidateRequestHandler(sig computation.Signature) error {
	if sig.Output == cty.NilType {
		return errors.New("a request handler must return a response value")
	}
	return nil
}

// ValidateWrappingMiddleware checks the "wraps the rest of the chain"
// shape: the middleware must accept the next-in-chain continuation type
// among its inputs and must produce an output.
func ValidateWrappingMiddleware(sig computation.Signature, next cty.Type) error {
	if sig.Output == cty.NilType {
		return errors.New("a wrapping middleware must return a response value")
	}
	for _, in := range sig.Inputs {
		if in.Equals(next) {
			return nil
		}
	}
	return fmt.Errorf("a wrapping middleware must take the continuation type %s as one of its inputs", next.FriendlyName())
}

// ValidateErrorObserver checks that a computation can act as an error
// observer: it is invoked for side effects only, must be infallible, and
// must accept the canonical error type at some declared position. The
// position is returned so invocations can slot the error in.
func ValidateErrorObserver(sig computation.Signature, canonicalErr cty.Type) (int, error) {
	if sig.Fallible() {
		return 0, errors.New("an error observer cannot itself be fallible")
	}
	if sig.Output != cty.NilType {
		return 0, errors.New("an error observer is invoked for side effects and cannot return a value")
	}
	for i, in := range sig.Inputs {
		if in.Equals(canonicalErr) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("an error observer must take the canonical error type %s as one of its inputs", canonicalErr.FriendlyName())
}

// ErrorInputIndex locates the input of an error handler that receives the
// fallible component's error value. Structural equivalence (up to generic
// parameter renaming) is used so a templated handler can pair with a
// templated fallible component.
func ErrorInputIndex(sig computation.Signature, errType cty.Type) (int, typesys.Remap, bool) {
	for i, in := range sig.Inputs {
		if remap, ok := typesys.Equivalent(errType, in); ok {
			return i, remap, true
		}
	}
	return 0, nil, false
}

// ValidateErrorHandler checks that a computation can act as the error
// handler for a fallible component with the given error type: it must
// produce a response value and accept the error type (or a renamed
// equivalent) among its inputs.
func ValidateErrorHandler(sig computation.Signature, errType cty.Type) (int, error) {
	if sig.Output == cty.NilType {
		return 0, errors.New("an error handler must return a response value")
	}
	idx, _, ok := ErrorInputIndex(sig, errType)
	if !ok {
		return 0, fmt.Errorf("an error handler must take the error type %s as one of its inputs", errType.FriendlyName())
	}
	return idx, nil
}
