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
	"os"
	"strconv"
	"strings"
	"sync"
)

// envOr returns the value of the named environment variable, or fallback
// when it is unset.
func envOr(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		return v
	}
	return fallback
}

// envBool reports whether the named environment variable is set to a
// truthy value, defaulting to false.
func envBool(name string) bool {
	v, _ := strconv.ParseBool(os.Getenv(name))
	return v
}

// builtInKeys is the process-wide, lazily-initialized set of method names
// reachable on Go's built-in any/error machinery, consulted by
// WithIgnoreBuiltInKeys (default on) to keep a query from reaching generic
// object plumbing rather than the target's own domain methods. The set is
// computed once and never invalidated (spec.md §5: "a lazily-initialized
// cache of built-in key names ... initialized on first use, never
// invalidated"), unless DEEPR_NO_BUILTIN_CACHE disables the cache.
var builtInKeys = newBuiltInKeyCache()

// builtInKeyCache mirrors func_pc.go's env-gated sync.Once cache pattern:
// recomputed on every call when DEEPR_NO_BUILTIN_CACHE is truthy, cached
// thereafter.
type builtInKeyCache struct {
	disabled bool
	once     sync.Once
	keys     map[string]struct{}
}

func newBuiltInKeyCache() *builtInKeyCache {
	return &builtInKeyCache{disabled: envBool("DEEPR_NO_BUILTIN_CACHE")}
}

// errorMethodNames are the (lower-cased) methods on the error interface.
// Go has no universal object prototype chain, so this small, fixed set
// stands in for the ambient methods a query could otherwise stumble
// into on any value that happens to implement error.
// Lower-cased because a Query's source keys are lower-case by convention
// (resolveMethod matches them against exported Go method names
// case-insensitively), so the filter has to compare like with like.
var errorMethodNames = []string{"error", "unwrap", "is", "as"}

func (c *builtInKeyCache) compute() map[string]struct{} {
	keys := make(map[string]struct{}, len(errorMethodNames))
	for _, name := range errorMethodNames {
		keys[name] = struct{}{}
	}
	return keys
}

// Contains reports whether key is a built-in key name.
func (c *builtInKeyCache) Contains(key string) bool {
	if c.disabled {
		_, ok := c.compute()[key]
		return ok
	}
	c.once.Do(func() { c.keys = c.compute() })
	_, ok := c.keys[key]
	return ok
}

// isBuiltInKey reports whether source names a Go built-in method rather
// than a target's own domain attribute or method.
func isBuiltInKey(source string) bool {
	return builtInKeys.Contains(strings.ToLower(source))
}
