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
	"testing"
)

type convenienceFixture struct {
	Title string `deepr:"title"`
}

func TestQueryParsesAndInvokes(t *testing.T) {
	target := convenienceFixture{Title: "Arrival"}
	result, err := Query(context.Background(), target, map[string]any{"title": true})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	obj, ok := result.(*OrderedObject)
	if !ok {
		t.Fatalf("Query() = %T, want *OrderedObject", result)
	}
	got, _ := obj.Get("title")
	if got != "Arrival" {
		t.Fatalf("title = %v, want Arrival", got)
	}
}

func TestQueryPropagatesParseError(t *testing.T) {
	_, err := Query(context.Background(), convenienceFixture{}, map[string]any{"||": true, "title": true})
	if err == nil {
		t.Fatal("expected a parse error for a non-sole \"||\" key")
	}
}

func TestInvokeAsyncResolvesSameResultAsInvoke(t *testing.T) {
	target := convenienceFixture{Title: "Dune"}
	expr, err := Parse(map[string]any{"title": true})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	v := InvokeAsync(context.Background(), target, expr)
	result, err := v.Await(context.Background())
	if err != nil {
		t.Fatalf("Await() error = %v", err)
	}
	obj, ok := result.(*OrderedObject)
	if !ok {
		t.Fatalf("Await() = %T, want *OrderedObject", result)
	}
	got, _ := obj.Get("title")
	if got != "Dune" {
		t.Fatalf("title = %v, want Dune", got)
	}
}
