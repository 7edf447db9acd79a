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
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// OrderedObject is an object-shaped Query value that remembers the order
// its keys were declared in, instead of the randomized order a plain
// map[string]any would give Go's runtime. Parse accepts it anywhere an
// object query is expected and walks it in that declared order, which is
// what makes the result's key order mirror the query's key order end to
// end (spec.md §8). deeprjson.Decode builds a Query out of these rather
// than plain maps for exactly this reason.
type OrderedObject struct {
	m *orderedmap.OrderedMap[string, any]
}

// NewOrderedObject wraps an empty, ready-to-populate ordered map.
func NewOrderedObject() *OrderedObject {
	return &OrderedObject{m: orderedmap.New[string, any]()}
}

// Set appends or overwrites key, preserving the position of an existing key.
func (o *OrderedObject) Set(key string, value any) {
	o.m.Set(key, value)
}

// Get looks up key, reporting whether it was present.
func (o *OrderedObject) Get(key string) (any, bool) {
	return o.m.Get(key)
}

// Len returns the number of entries.
func (o *OrderedObject) Len() int {
	return o.m.Len()
}

// Keys returns the object's keys in declaration order.
func (o *OrderedObject) Keys() []string {
	return o.keys()
}

// MarshalJSON encodes the object with its entries in declaration order,
// delegating to the wrapped OrderedMap's own order-preserving encoding.
func (o *OrderedObject) MarshalJSON() ([]byte, error) {
	return o.m.MarshalJSON()
}
