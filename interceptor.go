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
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

// NodeHandler evaluates a single Expression node against target and
// returns its result. Interceptors wrap a NodeHandler the same way an HTTP
// middleware wraps a handler: each one may run logic before/after calling
// next, or skip calling it at all.
type NodeHandler func(ctx context.Context, node *Expression, target any) (any, error)

// Interceptor wraps node evaluation for cross-cutting concerns (logging,
// tracing, metrics) without the interpreter's core evaluation rules
// needing to know about any of them.
type Interceptor interface {
	Intercept(node *Expression, next NodeHandler) NodeHandler
}

// InterceptorGroup chains a list of Interceptor into one, applied
// outermost-first: InterceptorGroup{a, b}.Intercept(n, h) calls a's wrapper
// around b's wrapper around h.
type InterceptorGroup []Interceptor

// Intercept implements Interceptor.
func (g InterceptorGroup) Intercept(node *Expression, next NodeHandler) NodeHandler {
	for i := len(g) - 1; i >= 0; i-- {
		next = g[i].Intercept(node, next)
	}
	return next
}

// logger is the package default logger for the LoggingInterceptor.
var logger = log.New(log.Writer(), "[deepr] ", log.Flags())

// LoggingInterceptor logs the source key, elapsed time, and error (if any)
// of every node evaluation, tagging each invocation with a correlation ID
// so concurrent (parallel sibling) evaluations can be told apart in the
// log stream.
type LoggingInterceptor struct{}

// Intercept implements Interceptor.
func (LoggingInterceptor) Intercept(node *Expression, next NodeHandler) NodeHandler {
	return func(ctx context.Context, n *Expression, target any) (any, error) {
		id := uuid.New()
		start := time.Now()
		result, err := next(ctx, n, target)
		logger.Printf("[%s] key=%q elapsed=%v err=%v", id, n.SourceKey(), time.Since(start), err)
		return result, err
	}
}
