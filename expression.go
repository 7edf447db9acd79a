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

// collectionSelector is the compiled form of a "[]" marker value: either a
// scalar index (negative counts from the end) or a 0/1/2-length slice range.
type collectionSelector struct {
	// isIndex is true for the scalar-index form, false for the range form.
	isIndex bool
	index   int
	// bounds holds 0, 1, or 2 integers, the slice arguments, in the range form.
	bounds []int
}

// Expression is the compiled, normalized form of a Query produced by Parse.
// It is a sum type: either a single node (the common case) or a sibling
// list (an ordered sequence of Expressions evaluated against the same
// target, optionally in parallel). See spec §3.
type Expression struct {
	// --- node form ---

	// sourceKey is the attribute/method name read from the current target.
	// An empty sourceKey means "use the current target as-is".
	sourceKey string
	// isOptional marks the traversal as tolerant of a missing source.
	isOptional bool

	// hasParams is true once a "()" entry has been seen; params holds its
	// (possibly empty) value. hasParams alone is what turns the node into a
	// method call rather than an attribute read.
	hasParams bool
	params    []any

	// selector is non-nil when a "[]" entry selected collection elements.
	selector *collectionSelector

	// hasSourceValue/sourceValue implement "<=": discard the resolved
	// target and substitute sourceValue before descending further.
	hasSourceValue bool
	sourceValue    any

	// next is the single "=>" (empty target) child: its result replaces
	// the current output slot instead of nesting under a name.
	next *Expression

	// nested holds named children ("user key" with a target, or no "=>" at
	// all). Order is significant: it must mirror the order the keys were
	// declared in the source query, and the interpreter's result object
	// preserves this same order.
	nested *orderedmap.OrderedMap[string, *Expression]

	// --- sibling-list form ---

	// siblings is non-nil when this Expression is an ordered sequence of
	// Expressions evaluated against the same target (a bare array query,
	// or a "||" object). sourceKey/isOptional/etc above are unused in this
	// form.
	siblings []*Expression
	// parallel is only meaningful when siblings != nil: true for "||",
	// false for a plain array (sequential fan-out).
	parallel bool
}

// IsSiblingList reports whether e is a sibling sequence rather than a node.
func (e *Expression) IsSiblingList() bool {
	return e != nil && e.siblings != nil
}

// IsParallel reports whether a sibling sequence executes in parallel.
func (e *Expression) IsParallel() bool {
	return e.IsSiblingList() && e.parallel
}

// Siblings returns the child expressions of a sibling sequence, or nil.
func (e *Expression) Siblings() []*Expression {
	if !e.IsSiblingList() {
		return nil
	}
	return e.siblings
}

// SourceKey returns the node's source key ("" means "current target").
func (e *Expression) SourceKey() string {
	return e.sourceKey
}

// IsOptional reports whether a missing source/method is tolerated.
func (e *Expression) IsOptional() bool {
	return e.isOptional
}

// IsLeaf reports whether a node has neither a "next" nor "nested" child,
// i.e. its resolved target is the final result at this slot.
func (e *Expression) IsLeaf() bool {
	return e != nil && !e.IsSiblingList() && e.next == nil && (e.nested == nil || e.nested.Len() == 0)
}

// remainderForSelector returns a copy of e with sourceKey/params/selector
// cleared, for mapping over each element selected by a "[]" range (spec
// §4.2 rule 5: "evaluate the remainder of N ... sourceKey is emptied for
// the sub-evaluation"). next/nested/isOptional are carried over unchanged.
func (e *Expression) remainderForSelector() *Expression {
	return &Expression{
		isOptional: e.isOptional,
		next:       e.next,
		nested:     e.nested,
	}
}

// newNode allocates a leaf node inheriting the given frame.
func newNode(frame keyFrame) *Expression {
	return &Expression{sourceKey: frame.sourceKey, isOptional: frame.isOptional}
}

// ensureNested lazily allocates the ordered map of named children.
func (e *Expression) ensureNested() *orderedmap.OrderedMap[string, *Expression] {
	if e.nested == nil {
		e.nested = orderedmap.New[string, *Expression]()
	}
	return e.nested
}
