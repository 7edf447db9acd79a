/*
Copyright 2025 The Deepr Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package deepr

import (
	"errors"
	"fmt"
)

// ErrNilExpression is returned when Invoke is called with a nil *Expression.
var ErrNilExpression = errors.New("deepr: nil expression")

// ParseErrorKind enumerates the grammar violations the parser can detect.
type ParseErrorKind int

const (
	// ErrDuplicateReservedKey: an object carries more than one of "()", "[]", "<=" or empty "=>".
	ErrDuplicateReservedKey ParseErrorKind = iota
	// ErrInvalidCollectionSelector: "[]" value is neither a number nor an array of length 0-2 of numbers.
	ErrInvalidCollectionSelector
	// ErrInvalidParamsValue: "()" value is not an array.
	ErrInvalidParamsValue
	// ErrMalformedUserKey: a user key splits into more than two parts on "=>".
	ErrMalformedUserKey
	// ErrMixedTargets: an object mixes an empty "=>" target with named targets.
	ErrMixedTargets
	// ErrParallelNotSole: "||" is present alongside other keys in the same object.
	ErrParallelNotSole
	// ErrInvalidLeaf: the query is not true, an object (map[string]any or
	// *OrderedObject), or []any; also used when a "||" value is not an array.
	ErrInvalidLeaf
)

// String returns a human-readable label for the error kind.
func (k ParseErrorKind) String() string {
	switch k {
	case ErrDuplicateReservedKey:
		return "duplicate reserved key"
	case ErrInvalidCollectionSelector:
		return "invalid collection selector"
	case ErrInvalidParamsValue:
		return "invalid params value"
	case ErrMalformedUserKey:
		return "malformed user key"
	case ErrMixedTargets:
		return "mixed empty and named targets"
	case ErrParallelNotSole:
		return `"||" must be the sole key`
	case ErrInvalidLeaf:
		return "invalid query shape"
	default:
		return "unknown parse error"
	}
}

// ParseError reports a grammar violation found while compiling a Query into
// an Expression. Parse errors are always fatal: the entire parse aborts.
type ParseError struct {
	Kind ParseErrorKind
	// Key is the offending key, when the violation is localized to one.
	Key string
	// Err is further context, if any (e.g. a malformed literal).
	Err error
}

// Error implements error.
func (e *ParseError) Error() string {
	if e.Key == "" {
		if e.Err != nil {
			return fmt.Sprintf("deepr: parse error: %s: %v", e.Kind, e.Err)
		}
		return fmt.Sprintf("deepr: parse error: %s", e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("deepr: parse error: %s (key %q): %v", e.Kind, e.Key, e.Err)
	}
	return fmt.Sprintf("deepr: parse error: %s (key %q)", e.Kind, e.Key)
}

// Unwrap returns the underlying error, if any.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// QueryOnUndefinedError is returned when the interpreter tries to descend
// through an undefined (nil) target without the key being marked optional.
type QueryOnUndefinedError struct {
	SourceKey string
}

// Error implements error.
func (e *QueryOnUndefinedError) Error() string {
	return fmt.Sprintf("deepr: query on undefined target at key %q", e.SourceKey)
}

// MethodNotFoundError is returned when "()" is applied to a source key that
// does not resolve to a callable method, and the key is not optional.
type MethodNotFoundError struct {
	SourceKey string
}

// Error implements error.
func (e *MethodNotFoundError) Error() string {
	return fmt.Sprintf("deepr: method not found: %q", e.SourceKey)
}

// AuthorizationDeniedError is returned when the configured authorizer
// refuses a read or call. It is never routed through an error handler: it
// is a security boundary, not a recoverable condition.
type AuthorizationDeniedError struct {
	Key       string
	Operation string
}

// Error implements error.
func (e *AuthorizationDeniedError) Error() string {
	return fmt.Sprintf("deepr: authorization denied for %s on %q", e.Operation, e.Key)
}

// UserError wraps an error returned by a host method invoked through the
// target graph, so that errors.As/errors.Is see through to it.
type UserError struct {
	SourceKey string
	Err       error
}

// Error implements error.
func (e *UserError) Error() string {
	return fmt.Sprintf("deepr: error from %q: %v", e.SourceKey, e.Err)
}

// Unwrap returns the wrapped host error.
func (e *UserError) Unwrap() error {
	return e.Err
}
