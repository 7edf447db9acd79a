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
	"strings"
	"unicode"

	"github.com/AnishGupta/deepr/internal/reflectlite"
)

// undefined is the zero value.Value representing a missing attribute,
// method, or collection element. It is distinct from a present nil: a
// present nil is a valid reflect.Value of some concrete nilable kind.
var undefined reflect.Value

// isUndefined reports whether v is the "not found" sentinel.
func isUndefined(v reflect.Value) bool {
	return !v.IsValid()
}

// undefinedSentinel is the any-level counterpart of the zero reflect.Value:
// it marks a result as "no such key" rather than "key present, value nil".
// JSON has no undefined, only null, so the distinction only matters inside
// a running query: a nested child that resolves to Undefined is dropped
// from its parent's result object entirely (spec.md §4.2 rule 4), while one
// that resolves to a real nil is kept with a null value.
type undefinedSentinel struct{}

// Undefined is the result of reading a missing attribute or calling a
// missing optional method. evalNested omits any key whose child evaluates
// to Undefined, matching how a host with a native undefined would drop it
// from the object it builds.
var Undefined any = undefinedSentinel{}

// isMissing reports whether v should be treated as absent for the purposes
// of optional-chain and existence checks: Undefined itself, an untyped
// nil, or a present value of nilable kind (pointer, interface, map, slice,
// chan, func) holding nil.
func isMissing(v any) bool {
	if v == nil {
		return true
	}
	if _, ok := v.(undefinedSentinel); ok {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

// fieldTagKey is the struct tag name consulted when a source key does not
// match an exported field name directly. It mirrors the host pattern of
// letting unexported-shaped (lower-case) keys resolve through a tag, rather
// than requiring every field to be exported to be queryable.
var fieldTagKey = envOr("DEEPR_FIELD_TAG", "deepr")

// resolveAttribute reads sourceKey off target: a struct field (by exported
// name, then by fieldTagKey tag), a map entry (string-keyed maps only), or
// undefined for anything else. It never invokes a method.
func resolveAttribute(target reflect.Value, sourceKey string) reflect.Value {
	v := reflectlite.Unwrap(target)
	if !v.IsValid() {
		return undefined
	}
	switch v.Kind() {
	case reflect.Struct:
		return resolveStructField(v, sourceKey)
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return undefined
		}
		value := v.MapIndex(reflect.ValueOf(sourceKey).Convert(v.Type().Key()))
		if !value.IsValid() {
			return undefined
		}
		return value
	default:
		return undefined
	}
}

// resolveStructField looks up sourceKey as an exported field name first,
// then as a struct tag value (the path taken for lower-case query keys,
// which can never match an exported Go field directly).
func resolveStructField(v reflect.Value, sourceKey string) reflect.Value {
	if len(sourceKey) > 0 && unicode.IsUpper(rune(sourceKey[0])) {
		if field := v.FieldByName(sourceKey); field.IsValid() {
			return field
		}
	}
	typ := reflectlite.TypeFrom(v.Type())
	if indexes, ok := typ.GetFieldIndexesFromTag(fieldTagKey, sourceKey); ok {
		return v.FieldByIndex(indexes)
	}
	return undefined
}

// resolveMethod looks up a callable method named sourceKey on target: first
// a case-insensitive match for a lower-case key (methodByTag), then an exact
// name in the value's method set, and last the addressable pointer
// receiver, so that both value and pointer method sets are reachable.
func resolveMethod(target reflect.Value, sourceKey string) reflect.Value {
	v := reflectlite.Unwrap(target)
	if !v.IsValid() {
		return undefined
	}
	if method := methodByTag(v, sourceKey); method.IsValid() {
		return method
	}
	if method := v.MethodByName(sourceKey); method.IsValid() {
		return method
	}
	if v.CanAddr() {
		if method := v.Addr().MethodByName(sourceKey); method.IsValid() {
			return method
		}
	}
	return undefined
}

// methodByTag supports lower-case method-style source keys by matching them
// case-insensitively against the method names of v's type. No struct tag is
// consulted here: methods carry no tags.
func methodByTag(v reflect.Value, sourceKey string) reflect.Value {
	if len(sourceKey) == 0 || unicode.IsUpper(rune(sourceKey[0])) {
		return undefined
	}
	typ := v.Type()
	for i := 0; i < typ.NumMethod(); i++ {
		m := typ.Method(i)
		if strings.EqualFold(m.Name, sourceKey) {
			return v.Method(i)
		}
	}
	return undefined
}

// callMethod invokes method with params followed by ctx as a trailing
// argument (spec §4.2 rule 1: "arguments = params ++ [context]"), but only
// appends ctx when the method actually declares a trailing parameter able
// to accept it; most target methods in practice take no context.
func callMethod(ctx context.Context, method reflect.Value, params []any) (any, error) {
	args := make([]reflect.Value, 0, len(params)+1)
	mt := method.Type()
	for i, p := range params {
		args = append(args, convertArg(p, mt, i))
	}
	if acceptsTrailingContext(mt, len(params)) {
		args = append(args, reflect.ValueOf(ctx))
	}
	out := method.Call(args)
	return splitCallResult(out)
}

// acceptsTrailingContext reports whether mt declares one more parameter
// than the literal params already supply, and that parameter accepts a
// context.Context — the slot spec §4.2 reserves for the invocation's
// configured context.
func acceptsTrailingContext(mt reflect.Type, afterParams int) bool {
	if mt.IsVariadic() || afterParams >= mt.NumIn() {
		return false
	}
	want := mt.In(afterParams)
	if want == ctxType {
		return true
	}
	return want.Kind() == reflect.Interface && want.NumMethod() > 0 && ctxType.Implements(want)
}

var ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()

// convertArg converts a decoded literal parameter value to the type method
// expects at position i (the element type for a variadic tail), falling back
// to the literal's own reflect.Value when the parameter is an interface, when
// i is past the method's parameters, or when no conversion exists.
func convertArg(p any, mt reflect.Type, i int) reflect.Value {
	v := reflect.ValueOf(p)
	var want reflect.Type
	switch {
	case mt.IsVariadic() && i >= mt.NumIn()-1:
		want = mt.In(mt.NumIn() - 1).Elem()
	case i < mt.NumIn():
		want = mt.In(i)
	default:
		return v
	}
	if !v.IsValid() {
		return reflect.Zero(want)
	}
	if want.Kind() == reflect.Interface {
		return v
	}
	if v.Type().ConvertibleTo(want) {
		return v.Convert(want)
	}
	return v
}

// splitCallResult normalizes a reflect.Call result into (value, error),
// treating a trailing error return as the method's failure signal and
// everything else (0 or 1 remaining value) as its success value.
func splitCallResult(out []reflect.Value) (any, error) {
	if len(out) == 0 {
		return nil, nil
	}
	last := out[len(out)-1]
	if last.Type().Implements(errType) && !last.IsNil() {
		return nil, last.Interface().(error)
	}
	if last.Type() == errType || last.Type().Implements(errType) {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0].Interface(), nil
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

// collectionLen reports the length of v as a collection, or (0, false) if
// v is not indexable/sliceable.
func collectionLen(v reflect.Value) (int, bool) {
	v = reflectlite.Unwrap(v)
	switch v.Kind() {
	case reflect.Slice, reflect.Array, reflect.String:
		return v.Len(), true
	default:
		return 0, false
	}
}

// indexElement returns the i-th element of collection v, rebasing a
// negative index from the end (spec §4.2 rule 5). Reports undefined if out
// of range.
func indexElement(v reflect.Value, i int) reflect.Value {
	v = reflectlite.Unwrap(v)
	length, ok := collectionLen(v)
	if !ok {
		return undefined
	}
	if i < 0 {
		i = length + i
	}
	if i < 0 || i >= length {
		return undefined
	}
	return v.Index(i)
}

// sliceElements returns the sub-sequence of collection v selected by
// bounds (0, 1, or 2 ints), using end-exclusive Go slicing semantics with
// bounds clamped to [0, length].
func sliceElements(v reflect.Value, bounds []int) []reflect.Value {
	v = reflectlite.Unwrap(v)
	length, ok := collectionLen(v)
	if !ok {
		return nil
	}
	lo, hi := 0, length
	switch len(bounds) {
	case 1:
		lo = clampBound(bounds[0], length)
	case 2:
		lo = clampBound(bounds[0], length)
		hi = clampBound(bounds[1], length)
	}
	if lo > hi {
		lo = hi
	}
	out := make([]reflect.Value, 0, hi-lo)
	for i := lo; i < hi; i++ {
		out = append(out, v.Index(i))
	}
	return out
}

// clampBound rebases a negative slice bound from the end and clamps the
// result into [0, length].
func clampBound(b, length int) int {
	if b < 0 {
		b += length
	}
	if b < 0 {
		return 0
	}
	if b > length {
		return length
	}
	return b
}
