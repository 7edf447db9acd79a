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

import "strings"

// Reserved marker keys, see spec.md §3.
const (
	markerParams      = "()"
	markerCollection  = "[]"
	markerSourceValue = "<="
	markerParallel    = "||"
	markerTarget      = "=>"
)

// isReservedKey reports whether k is one of the reserved markers "()",
// "[]", "<=" or "||". A bare "=>" is not among them: it is parsed as a user
// key with an empty source and an inline target.
func isReservedKey(k string) bool {
	switch k {
	case markerParams, markerCollection, markerSourceValue, markerParallel:
		return true
	default:
		return false
	}
}

// parsedKey is the result of splitting a user key on "=>" and stripping the
// optional-traversal marker "?" from its source half.
type parsedKey struct {
	source     string
	isOptional bool
	// target is the name under which the sub-result is placed in the
	// parent result. An empty target with hasTarget=true means "inline":
	// replace the current output slot (the "=>" with no suffix form).
	target    string
	hasTarget bool
}

// parseKey splits a user key string of the form "source[?][=>[target]]".
//
//   - 1 part (no "=>")  -> source == target, "?" stripped from source.
//   - 2 parts           -> first is source (with "?" handling), second is
//     the literal target (possibly empty, meaning "inline").
//   - >2 parts          -> malformed, reported by the caller as a ParseError.
func parseKey(key string) (parsedKey, bool) {
	parts := strings.Split(key, markerTarget)
	switch len(parts) {
	case 1:
		source, optional := stripOptional(parts[0])
		return parsedKey{source: source, isOptional: optional, target: source}, true
	case 2:
		source, optional := stripOptional(parts[0])
		return parsedKey{source: source, isOptional: optional, target: parts[1], hasTarget: true}, true
	default:
		return parsedKey{}, false
	}
}

// stripOptional removes a trailing "?" from a source key, reporting whether
// it was present.
func stripOptional(source string) (string, bool) {
	if strings.HasSuffix(source, "?") {
		return strings.TrimSuffix(source, "?"), true
	}
	return source, false
}

// isInlineTarget reports whether a parsedKey represents the "=>" (empty
// target) inline form, as opposed to a named target.
func (p parsedKey) isInlineTarget() bool {
	return p.hasTarget && p.target == ""
}
