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

	"github.com/AnishGupta/deepr/async"
)

// InvokeAsync runs Invoke on a background goroutine and returns immediately
// with an async.Value the caller can Await on its own schedule, for hosts
// that want to kick off evaluation without blocking the calling goroutine
// (spec.md §9's "possibly-async" discipline applied at the entry point
// rather than only within individual node evaluation).
func InvokeAsync(ctx context.Context, target any, expr *Expression, opts ...Option) async.Value[any] {
	return async.Defer(ctx, func(ctx context.Context) (any, error) {
		return Invoke(ctx, target, expr, opts...)
	})
}

// Query parses query and immediately invokes it against target. It is a
// convenience wrapper composing Parse and Invoke for the common case where
// a caller does not need to reuse a compiled Expression across calls; the
// two steps remain independently usable. The same opts go to both steps;
// each Option implements both of the Option interface's methods and leaves
// the one that does not concern it as a no-op.
func Query(ctx context.Context, target any, query any, opts ...Option) (any, error) {
	expr, err := Parse(query, opts...)
	if err != nil {
		return nil, err
	}
	return Invoke(ctx, target, expr, opts...)
}
