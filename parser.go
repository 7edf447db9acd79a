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
	"regexp"
)

// KeyPattern matches a source key for the purposes of WithIgnoreKeys and
// WithAcceptKeys. It is satisfied by StringPattern (exact match) and
// RegexPattern (a wrapped *regexp.Regexp, pattern match).
type KeyPattern interface {
	match(key string) bool
}

// StringPattern is an exact-match KeyPattern.
type StringPattern string

func (p StringPattern) match(key string) bool { return string(p) == key }

// RegexPattern is a regexp KeyPattern.
type RegexPattern struct{ *regexp.Regexp }

func (p RegexPattern) match(key string) bool { return p.MatchString(key) }

// matchAny reports whether key matches any of the given patterns.
func matchAny(patterns []KeyPattern, key string) bool {
	for _, p := range patterns {
		if p != nil && p.match(key) {
			return true
		}
	}
	return false
}

// parseOptions controls Parse's grammar-filtering behavior. It is built by
// applying Option values to the zero value, then defaulted.
type parseOptions struct {
	ignoreKeys    []KeyPattern
	acceptKeys    []KeyPattern
	ignoreBuiltIn bool
}

func newParseOptions(opts ...Option) *parseOptions {
	po := &parseOptions{ignoreBuiltIn: true}
	for _, opt := range opts {
		opt.applyParse(po)
	}
	return po
}

// shouldIgnore reports whether the parser should drop a user key's source.
func (po *parseOptions) shouldIgnore(source string) bool {
	if matchAny(po.acceptKeys, source) {
		return false
	}
	if matchAny(po.ignoreKeys, source) {
		return true
	}
	if po.ignoreBuiltIn && isBuiltInKey(source) {
		return true
	}
	return false
}

// keyFrame is the (sourceKey, isOptional) pair inherited by a child query
// from the user key that introduced it (spec §4.1 step 1/4).
type keyFrame struct {
	sourceKey  string
	isOptional bool
}

// Parse compiles a Query into an Expression. Parse is pure: it performs no
// I/O and never touches a target graph. It fails with a *ParseError on any
// grammar violation described in spec.md §3/§4.1.
func Parse(query any, opts ...Option) (*Expression, error) {
	po := newParseOptions(opts...)
	return parseAny(query, keyFrame{}, po)
}

// parseAny is the structural recursion at the heart of the parser.
func parseAny(query any, frame keyFrame, po *parseOptions) (*Expression, error) {
	switch q := query.(type) {
	case []any:
		return parseSiblings(q, frame, po, false)
	case bool:
		if !q {
			return nil, &ParseError{Kind: ErrInvalidLeaf, Key: frame.sourceKey}
		}
		return newNode(frame), nil
	case map[string]any:
		return parseKeyed(mapObject(q), frame, po)
	case *OrderedObject:
		return parseKeyed(q, frame, po)
	default:
		return nil, &ParseError{Kind: ErrInvalidLeaf, Key: frame.sourceKey}
	}
}

// keyedObject is the minimal view parseKeyed needs over an object query's
// entries: its keys in iteration order (only meaningful for OrderedObject;
// a plain map reports Go's randomized order) and lookup by key.
type keyedObject interface {
	keys() []string
	get(key string) (any, bool)
	len() int
}

// mapObject adapts a plain map[string]any to keyedObject. Go maps iterate
// in randomized order, so a query built directly as a map[string]any with
// more than one named sibling key does not get a deterministic result key
// order across calls (spec.md §8's ordering invariant then does not apply);
// callers that need the ordering guarantee should decode their wire-format
// query with deeprjson.Decode, which returns *OrderedObject throughout.
type mapObject map[string]any

func (m mapObject) keys() []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
func (m mapObject) get(key string) (any, bool) { v, ok := m[key]; return v, ok }
func (m mapObject) len() int                   { return len(m) }

func (o *OrderedObject) keys() []string {
	keys := make([]string, 0, o.m.Len())
	for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}
func (o *OrderedObject) get(key string) (any, bool) { return o.m.Get(key) }
func (o *OrderedObject) len() int                   { return o.m.Len() }

// parseKeyed parses an object query (either shape) into a node or, when it
// is the sole-key "||" form, a parallel sibling list.
func parseKeyed(q keyedObject, frame keyFrame, po *parseOptions) (*Expression, error) {
	if siblings, ok := q.get(markerParallel); ok {
		if q.len() != 1 {
			return nil, &ParseError{Kind: ErrParallelNotSole, Key: frame.sourceKey}
		}
		items, ok := siblings.([]any)
		if !ok {
			return nil, &ParseError{Kind: ErrInvalidLeaf, Key: markerParallel}
		}
		return parseSiblings(items, frame, po, true)
	}
	return parseObject(q, frame, po)
}

// parseSiblings parses each element of an array query against the same
// inherited frame, producing a sibling-list Expression.
func parseSiblings(items []any, frame keyFrame, po *parseOptions, parallel bool) (*Expression, error) {
	out := make([]*Expression, 0, len(items))
	for _, item := range items {
		child, err := parseAny(item, frame, po)
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return &Expression{siblings: out, parallel: parallel}, nil
}

// parseObject scans an object query's entries, building a single node. The
// reserved markers are looked up directly (order among them does not
// matter, at most one of each may be present); the remaining user keys are
// then walked in q's own iteration order, which for an *OrderedObject is
// the query's true declared order and for a plain map is Go's randomized
// order (see mapObject's doc comment).
func parseObject(q keyedObject, frame keyFrame, po *parseOptions) (*Expression, error) {
	node := newNode(frame)

	if raw, ok := q.get(markerParams); ok {
		params, ok := raw.([]any)
		if !ok {
			return nil, &ParseError{Kind: ErrInvalidParamsValue, Key: markerParams}
		}
		node.hasParams = true
		node.params = params
	}

	if raw, ok := q.get(markerCollection); ok {
		selector, err := parseCollectionSelector(raw)
		if err != nil {
			return nil, err
		}
		node.selector = selector
	}

	if raw, ok := q.get(markerSourceValue); ok {
		node.hasSourceValue = true
		node.sourceValue = raw
	}

	order, err := userKeyOrder(q)
	if err != nil {
		return nil, err
	}

	var sawInline, sawNamed bool

	for _, key := range order {
		pk, _ := parseKey(key) // already validated by userKeyOrder
		value, _ := q.get(key)

		if po.shouldIgnore(pk.source) {
			continue
		}

		childFrame := keyFrame{sourceKey: pk.source, isOptional: pk.isOptional}
		child, err := parseAny(value, childFrame, po)
		if err != nil {
			return nil, err
		}

		if pk.isInlineTarget() {
			if node.next != nil || sawInline {
				return nil, &ParseError{Kind: ErrDuplicateReservedKey, Key: key}
			}
			if sawNamed {
				return nil, &ParseError{Kind: ErrMixedTargets, Key: key}
			}
			node.next = child
			sawInline = true
			continue
		}

		if sawInline {
			return nil, &ParseError{Kind: ErrMixedTargets, Key: key}
		}
		sawNamed = true
		node.ensureNested().Set(pk.target, child)
	}

	return node, nil
}

// userKeyOrder returns q's non-marker keys, in q's iteration order, after
// validating that each one parses as a well-formed user key.
func userKeyOrder(q keyedObject) ([]string, error) {
	keys := q.keys()
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if isReservedKey(key) {
			continue
		}
		if _, ok := parseKey(key); !ok {
			return nil, &ParseError{Kind: ErrMalformedUserKey, Key: key}
		}
		out = append(out, key)
	}
	return out, nil
}

// parseCollectionSelector validates and compiles a "[]" marker value: a
// single number (scalar index) or an array of 0-2 numbers (slice bounds).
func parseCollectionSelector(raw any) (*collectionSelector, error) {
	switch v := raw.(type) {
	case float64:
		return &collectionSelector{isIndex: true, index: int(v)}, nil
	case int:
		return &collectionSelector{isIndex: true, index: v}, nil
	case []any:
		if len(v) > 2 {
			return nil, &ParseError{Kind: ErrInvalidCollectionSelector, Key: markerCollection}
		}
		bounds := make([]int, 0, len(v))
		for _, item := range v {
			n, ok := toInt(item)
			if !ok {
				return nil, &ParseError{Kind: ErrInvalidCollectionSelector, Key: markerCollection}
			}
			bounds = append(bounds, n)
		}
		return &collectionSelector{bounds: bounds}, nil
	default:
		return nil, &ParseError{Kind: ErrInvalidCollectionSelector, Key: markerCollection}
	}
}

// toInt converts a decoded JSON number (float64 or int) to an int.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}
