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
	"reflect"
	"strings"

	"github.com/AnishGupta/deepr/internal/reflectlite"
)

// ErrPointerRequired is returned by Bind when dest is not a non-nil
// pointer.
var ErrPointerRequired = errors.New("deepr: bind destination must be a non-nil pointer")

// Bind copies an Invoke result into dest, a non-nil pointer (to a struct,
// a slice, or a scalar), binding object results into structs using the
// same fieldTagKey tag convention the interpreter uses to resolve lower-
// case source keys onto struct fields (falling back to a case-insensitive
// name match). Unlike the runtime's own dynamic result shape, Bind exists
// purely as a caller convenience for turning a *OrderedObject result back
// into a concrete Go type once a query's shape is known statically.
func Bind(result any, dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return ErrPointerRequired
	}
	return bindValue(result, rv.Elem())
}

// bindValue recursively binds result into dst, descending through
// pointers, structs, and slices; any other kind (maps included) is set
// directly by assign.
func bindValue(result any, dst reflect.Value) error {
	if result == nil {
		return nil
	}
	switch dst.Kind() {
	case reflect.Ptr:
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return bindValue(result, dst.Elem())
	case reflect.Struct:
		return bindStruct(result, dst)
	case reflect.Slice:
		return bindSlice(result, dst)
	default:
		return assign(result, dst)
	}
}

// bindStruct binds an *OrderedObject (or plain map[string]any) result into
// a struct, matching each entry to a field by fieldTagKey tag first, then
// by case-insensitive name.
func bindStruct(result any, dst reflect.Value) error {
	entries, err := objectEntries(result)
	if err != nil {
		return err
	}
	typ := reflectlite.TypeFrom(dst.Type())
	for key, value := range entries {
		if indexes, ok := typ.GetFieldIndexesFromTag(fieldTagKey, key); ok {
			if err := bindValue(value, dst.FieldByIndex(indexes)); err != nil {
				return err
			}
			continue
		}
		field := dst.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, key)
		})
		if field.IsValid() && field.CanSet() {
			if err := bindValue(value, field); err != nil {
				return err
			}
		}
	}
	return nil
}

// bindSlice binds a []any result into a slice, growing dst to match.
func bindSlice(result any, dst reflect.Value) error {
	rv := reflect.ValueOf(result)
	if rv.Kind() != reflect.Slice {
		return nil
	}
	out := reflect.MakeSlice(dst.Type(), rv.Len(), rv.Len())
	for i := 0; i < rv.Len(); i++ {
		if err := bindValue(rv.Index(i).Interface(), out.Index(i)); err != nil {
			return err
		}
	}
	dst.Set(out)
	return nil
}

// assign sets dst directly from result when result's type is already
// assignable or convertible, used for the interpreter's scalar leaf values.
func assign(result any, dst reflect.Value) error {
	rv := reflect.ValueOf(result)
	if !rv.IsValid() {
		return nil
	}
	if rv.Type().AssignableTo(dst.Type()) {
		dst.Set(rv)
		return nil
	}
	if rv.Type().ConvertibleTo(dst.Type()) {
		dst.Set(rv.Convert(dst.Type()))
		return nil
	}
	return nil
}

// objectEntries normalizes an *OrderedObject or map[string]any result into
// a key/value iteration sequence.
func objectEntries(result any) (map[string]any, error) {
	switch v := result.(type) {
	case *OrderedObject:
		out := make(map[string]any, v.Len())
		for pair := v.m.Oldest(); pair != nil; pair = pair.Next() {
			out[pair.Key] = pair.Value
		}
		return out, nil
	case map[string]any:
		return v, nil
	default:
		return nil, nil
	}
}
