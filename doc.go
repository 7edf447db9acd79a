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

/*
Package deepr is a declarative query runtime for in-memory object graphs.

A caller submits a JSON-shaped query describing which attributes to read
and which methods to invoke on a root value; deepr walks the graph,
evaluates the query, and returns a result whose shape mirrors the query.

Basic Usage:

	expr, err := deepr.Parse(map[string]any{
		"movie": map[string]any{
			"title": true,
			"year":  true,
		},
	})
	if err != nil {
		// handle error
		panic(err)
	}

	result, err := deepr.Invoke(context.Background(), target, expr)
	if err != nil {
		// handle error
		panic(err)
	}
	fmt.Println(result)

Features:

  - JSON-shaped declarative query language with key renaming and optional traversal
  - Collection slicing and indexing
  - Method invocation with literal parameters
  - Parallel and sequential sibling fan-out
  - Authorization hook consulted on every read/call
  - Custom error recovery scoped to the failing expression node
  - Transparent sync/async evaluation via the async package

For more information and examples, see the package tests.
*/
package deepr
