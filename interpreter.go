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
	"reflect"

	"golang.org/x/sync/errgroup"

	"github.com/AnishGupta/deepr/async"
)

// Invoke walks expr against target, evaluating every node per spec.md
// §4.2, and returns a result whose shape mirrors expr. It never mutates
// target; methods target itself exposes may perform arbitrary side
// effects, which Invoke makes no attempt to guard against.
func Invoke(ctx context.Context, target any, expr *Expression, opts ...Option) (any, error) {
	if expr == nil {
		return nil, ErrNilExpression
	}
	eo := newEvalOptions(opts...)
	result, err := evalAny(ctx, eo, expr, target)
	if err != nil {
		return nil, err
	}
	if result == Undefined {
		return nil, nil
	}
	return result, nil
}

// evalAny dispatches between the sibling-list and node forms of expr.
func evalAny(ctx context.Context, eo *evalOptions, expr *Expression, target any) (any, error) {
	if expr.IsSiblingList() {
		return evalSiblings(ctx, eo, expr, target)
	}
	return evalNode(ctx, eo, expr, target)
}

// evalSiblings evaluates expr.Siblings() against the same target, either
// concurrently (parallel) or in strict order (sequential), per spec.md
// §4.2 rule 7 and §5's ordering guarantees.
func evalSiblings(ctx context.Context, eo *evalOptions, expr *Expression, target any) (any, error) {
	children := expr.Siblings()
	results := make([]any, len(children))

	if expr.IsParallel() {
		g, gctx := errgroup.WithContext(ctx)
		for i, child := range children {
			i, child := i, child
			g.Go(func() error {
				result, err := evalAny(gctx, eo, child, target)
				if err != nil {
					return err
				}
				results[i] = normalizeUndefined(result)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return results, nil
	}

	for i, child := range children {
		result, err := evalAny(ctx, eo, child, target)
		if err != nil {
			return nil, err
		}
		results[i] = normalizeUndefined(result)
	}
	return results, nil
}

// evalNode runs the evaluation rules of spec.md §4.2 for a single node,
// recovering through eo.errorHandler (when configured) any error raised
// while evaluating this node specifically, other than authorization
// denial, which is never recoverable.
func evalNode(ctx context.Context, eo *evalOptions, expr *Expression, target any) (any, error) {
	handler := buildNodeHandler(eo, expr)
	result, err := handler(ctx, expr, target)
	if err == nil {
		return result, nil
	}
	if _, denied := err.(*AuthorizationDeniedError); denied {
		return nil, err
	}
	if eo.errorHandler == nil {
		return nil, err
	}
	return eo.errorHandler(err)
}

// buildNodeHandler assembles the base node evaluator wrapped by the
// configured interceptor chain (outermost interceptor runs first).
func buildNodeHandler(eo *evalOptions, expr *Expression) NodeHandler {
	base := NodeHandler(func(ctx context.Context, expr *Expression, target any) (any, error) {
		return evalNodeCore(ctx, eo, expr, target)
	})
	return InterceptorGroup(eo.interceptors).Intercept(expr, base)
}

// evalNodeCore implements spec.md §4.2 rules 1-6 for one node, without
// error-handler recovery (evalNode applies that around the whole call).
func evalNodeCore(ctx context.Context, eo *evalOptions, expr *Expression, target any) (any, error) {
	current, err := resolveTarget(ctx, eo, expr, target)
	if err != nil {
		return nil, err
	}

	// Rule 2: source override.
	if expr.hasSourceValue {
		current = expr.sourceValue
	}

	// Rule 5: collection selector.
	if expr.selector != nil {
		return evalSelector(ctx, eo, expr, current)
	}

	// Rule 3/4: leaf or optional miss, then rule 6 descent.
	return descend(ctx, eo, expr, current)
}

// resolveTarget implements spec.md §4.2 rule 1: attribute read or method
// call against target for expr.sourceKey, or target unchanged when
// sourceKey is empty.
func resolveTarget(ctx context.Context, eo *evalOptions, expr *Expression, target any) (any, error) {
	if expr.sourceKey == "" {
		return target, nil
	}
	rv := reflect.ValueOf(target)

	if !expr.hasParams {
		field := resolveAttribute(rv, expr.sourceKey)
		ok, authErr := eo.authorizer(ctx, expr.sourceKey, "get", nil)
		if authErr != nil {
			return nil, authErr
		}
		if !ok {
			return nil, &AuthorizationDeniedError{Key: expr.sourceKey, Operation: "get"}
		}
		return awaitIfAsync(ctx, valueOrNil(field))
	}

	method := resolveMethod(rv, expr.sourceKey)
	if !method.IsValid() {
		if expr.isOptional {
			return Undefined, nil
		}
		return nil, &MethodNotFoundError{SourceKey: expr.sourceKey}
	}
	ok, authErr := eo.authorizer(ctx, expr.sourceKey, "call", expr.params)
	if authErr != nil {
		return nil, authErr
	}
	if !ok {
		return nil, &AuthorizationDeniedError{Key: expr.sourceKey, Operation: "call"}
	}
	result, err := callMethod(callContext(ctx, eo), method, expr.params)
	if err != nil {
		return nil, &UserError{SourceKey: expr.sourceKey, Err: err}
	}
	return awaitIfAsync(ctx, result)
}

// callContext returns the context passed to target methods: eo.callContext
// when WithContext configured one, the invocation's own ctx otherwise.
func callContext(ctx context.Context, eo *evalOptions) context.Context {
	if eo.callContext != nil {
		return eo.callContext
	}
	return ctx
}

// valueOrNil converts a possibly-invalid reflect.Value (the "undefined"
// sentinel from resolveAttribute) into Undefined, and a valid one into its
// underlying any.
func valueOrNil(v reflect.Value) any {
	if !v.IsValid() {
		return Undefined
	}
	return v.Interface()
}

// awaitIfAsync awaits v if it implements async.Awaitable, leaving every
// other value untouched. This is the interpreter's sole touch point with
// the possibly-async discipline of spec.md §9: a target method is free to
// return an async.Value instead of a plain value, and the rest of
// evaluation neither knows nor cares which it got.
func awaitIfAsync(ctx context.Context, v any) (any, error) {
	if a, ok := v.(async.Awaitable); ok {
		return a.AwaitAny(ctx)
	}
	return v, nil
}

// evalSelector implements spec.md §4.2 rule 5: scalar index descends
// normally into the selected element; a range maps the node's remainder
// (next/nested only, sourceKey emptied) over each selected element in
// sequence.
func evalSelector(ctx context.Context, eo *evalOptions, expr *Expression, current any) (any, error) {
	sel := expr.selector
	rv := reflect.ValueOf(current)

	if sel.isIndex {
		elem := indexElement(rv, sel.index)
		return descend(ctx, eo, expr, valueOrNil(elem))
	}

	elements := sliceElements(rv, sel.bounds)
	remainder := expr.remainderForSelector()
	results := make([]any, len(elements))
	for i, elem := range elements {
		result, err := descend(ctx, eo, remainder, elem.Interface())
		if err != nil {
			return nil, err
		}
		results[i] = normalizeUndefined(result)
	}
	return results, nil
}

// descend implements spec.md §4.2 rules 3, 4 and 6: leaf passthrough,
// optional-miss propagation, and fan-out to next/nested children.
func descend(ctx context.Context, eo *evalOptions, expr *Expression, current any) (any, error) {
	if expr.IsLeaf() {
		return current, nil
	}
	if isMissing(current) {
		if expr.isOptional {
			return Undefined, nil
		}
		return nil, &QueryOnUndefinedError{SourceKey: expr.sourceKey}
	}
	if expr.next != nil {
		return evalAny(ctx, eo, expr.next, current)
	}
	return evalNested(ctx, eo, expr, current)
}

// normalizeUndefined converts the Undefined sentinel to a plain nil for any
// slot that is positional rather than named (a sibling or a selected
// collection element): there is no key to omit there, so a missing value
// surfaces the same way a host's JSON encoder turns undefined into null
// inside an array.
func normalizeUndefined(v any) any {
	if v == Undefined {
		return nil
	}
	return v
}

// evalNested evaluates each (name, child) pair of expr.nested against
// current, returning an *OrderedObject whose key order mirrors the
// query's declared order (spec.md §8).
func evalNested(ctx context.Context, eo *evalOptions, expr *Expression, current any) (any, error) {
	out := NewOrderedObject()
	for pair := expr.nested.Oldest(); pair != nil; pair = pair.Next() {
		result, err := evalAny(ctx, eo, pair.Value, current)
		if err != nil {
			return nil, err
		}
		if result == Undefined {
			continue
		}
		out.Set(pair.Key, result)
	}
	return out, nil
}
