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

import "context"

// Authorizer is consulted before every attribute read ("get") and method
// call ("call"). Returning false denies the operation with
// AuthorizationDeniedError. The default authorizer allows everything.
type Authorizer func(ctx context.Context, key, operation string, params []any) (bool, error)

// ErrorHandler replaces an error raised while evaluating a single
// expression node with a recovered value, which then takes that node's
// output slot (spec.md §7). AuthorizationDeniedError is never routed
// through it: that denial is a security boundary, not a recoverable
// condition (spec.md §7, §9 Open Question (a)).
type ErrorHandler func(err error) (any, error)

// Option configures Parse, Invoke, or both. Each concrete option implements
// whichever of applyParse/applyEval is relevant to it; the other is a no-op.
type Option interface {
	applyParse(*parseOptions)
	applyEval(*evalOptions)
}

type optionFunc struct {
	parse func(*parseOptions)
	eval  func(*evalOptions)
}

func (f optionFunc) applyParse(po *parseOptions) {
	if f.parse != nil {
		f.parse(po)
	}
}

func (f optionFunc) applyEval(eo *evalOptions) {
	if f.eval != nil {
		f.eval(eo)
	}
}

// WithIgnoreKeys drops matching source keys at parse time. A key matches
// any pattern in patterns; see KeyPattern, StringPattern, and RegexPattern.
func WithIgnoreKeys(patterns ...KeyPattern) Option {
	return optionFunc{parse: func(po *parseOptions) {
		po.ignoreKeys = append(po.ignoreKeys, patterns...)
	}}
}

// WithAcceptKeys overrides WithIgnoreKeys (and WithIgnoreBuiltInKeys): a
// source key matching any of patterns is always kept.
func WithAcceptKeys(patterns ...KeyPattern) Option {
	return optionFunc{parse: func(po *parseOptions) {
		po.acceptKeys = append(po.acceptKeys, patterns...)
	}}
}

// WithIgnoreBuiltInKeys overrides the default-on built-in key filter (see
// isBuiltInKey); pass false to allow queries to reach Go's own error-method
// names.
func WithIgnoreBuiltInKeys(ignore bool) Option {
	return optionFunc{parse: func(po *parseOptions) {
		po.ignoreBuiltIn = ignore
	}}
}

// WithContext sets the value appended as the trailing argument to every
// method call (spec.md §4.2 rule 1), for methods that declare a trailing
// context parameter. Without it, such methods receive Invoke's own ctx.
func WithContext(value context.Context) Option {
	return optionFunc{eval: func(eo *evalOptions) {
		eo.callContext = value
	}}
}

// WithAuthorizer installs a policy predicate consulted on every read/call.
func WithAuthorizer(a Authorizer) Option {
	return optionFunc{eval: func(eo *evalOptions) {
		eo.authorizer = a
	}}
}

// WithErrorHandler installs a per-node error recovery hook.
func WithErrorHandler(h ErrorHandler) Option {
	return optionFunc{eval: func(eo *evalOptions) {
		eo.errorHandler = h
	}}
}

// WithInterceptors installs an ordered chain of node-evaluation
// interceptors (logging, tracing, metrics); see interceptor.go.
func WithInterceptors(interceptors ...Interceptor) Option {
	return optionFunc{eval: func(eo *evalOptions) {
		eo.interceptors = append(eo.interceptors, interceptors...)
	}}
}

// evalOptions holds Invoke's resolved configuration.
type evalOptions struct {
	callContext  context.Context
	authorizer   Authorizer
	errorHandler ErrorHandler
	interceptors []Interceptor
}

func newEvalOptions(opts ...Option) *evalOptions {
	eo := &evalOptions{}
	for _, opt := range opts {
		opt.applyEval(eo)
	}
	if eo.authorizer == nil {
		eo.authorizer = allowAll
	}
	return eo
}

func allowAll(context.Context, string, string, []any) (bool, error) {
	return true, nil
}
