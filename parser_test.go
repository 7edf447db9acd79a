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
	"regexp"
	"testing"
)

func TestParseLeaf(t *testing.T) {
	expr, err := Parse(true)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !expr.IsLeaf() {
		t.Fatal("Parse(true) should produce a leaf expression")
	}
}

func TestParseRejectsFalseLeaf(t *testing.T) {
	_, err := Parse(false)
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Kind != ErrInvalidLeaf {
		t.Fatalf("Parse(false) error = %v, want ErrInvalidLeaf", err)
	}
}

func TestParseAttributeProjection(t *testing.T) {
	expr, err := Parse(map[string]any{
		"movie": map[string]any{
			"title": true,
			"year":  true,
		},
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	movie, ok := expr.nested.Get("movie")
	if !ok {
		t.Fatal(`expected a "movie" child`)
	}
	if movie.nested.Len() != 2 {
		t.Fatalf("movie.nested.Len() = %d, want 2", movie.nested.Len())
	}
	title, _ := movie.nested.Get("title")
	if !title.IsLeaf() || title.SourceKey() != "title" {
		t.Fatalf("unexpected title node: %+v", title)
	}
}

func TestParseKeyRenameAndOptional(t *testing.T) {
	expr, err := Parse(map[string]any{
		"director?=>boss": true,
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	child, ok := expr.nested.Get("boss")
	if !ok {
		t.Fatal(`expected a "boss" child`)
	}
	if child.SourceKey() != "director" || !child.IsOptional() {
		t.Fatalf("child = %+v, want sourceKey=director isOptional=true", child)
	}
}

func TestParseInlineTarget(t *testing.T) {
	expr, err := Parse(map[string]any{
		"movies=>": map[string]any{
			"title": true,
		},
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if expr.next == nil {
		t.Fatal("expected an inline (next) child")
	}
	if expr.next.SourceKey() != "movies" {
		t.Fatalf("next.SourceKey() = %q, want movies", expr.next.SourceKey())
	}
}

func TestParseMixedTargetsRejected(t *testing.T) {
	_, err := Parse(map[string]any{
		"a=>":    true,
		"b=>foo": true,
	})
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Kind != ErrMixedTargets {
		t.Fatalf("error = %v, want ErrMixedTargets", err)
	}
}

func TestParseParallelMustBeSole(t *testing.T) {
	_, err := Parse(map[string]any{
		"||":    []any{true},
		"other": true,
	})
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Kind != ErrParallelNotSole {
		t.Fatalf("error = %v, want ErrParallelNotSole", err)
	}
}

func TestParseParallelSiblings(t *testing.T) {
	expr, err := Parse(map[string]any{
		"||": []any{true, true},
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !expr.IsParallel() {
		t.Fatal("expected a parallel sibling list")
	}
	if len(expr.Siblings()) != 2 {
		t.Fatalf("len(Siblings()) = %d, want 2", len(expr.Siblings()))
	}
}

func TestParseSequentialSiblings(t *testing.T) {
	expr, err := Parse([]any{true, true, true})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if expr.IsParallel() {
		t.Fatal("bare array should not be tagged parallel")
	}
	if len(expr.Siblings()) != 3 {
		t.Fatalf("len(Siblings()) = %d, want 3", len(expr.Siblings()))
	}
}

func TestParseParamsMarker(t *testing.T) {
	expr, err := Parse(map[string]any{
		"movies": map[string]any{
			"()": []any{"action"},
		},
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	movies, _ := expr.nested.Get("movies")
	if !movies.hasParams || len(movies.params) != 1 {
		t.Fatalf("movies node = %+v, want hasParams with 1 param", movies)
	}
}

func TestParseParamsMustBeArray(t *testing.T) {
	_, err := Parse(map[string]any{
		"movies": map[string]any{
			"()": "not-an-array",
		},
	})
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Kind != ErrInvalidParamsValue {
		t.Fatalf("error = %v, want ErrInvalidParamsValue", err)
	}
}

func TestParseCollectionSelectorScalar(t *testing.T) {
	expr, err := Parse(map[string]any{
		"movies": map[string]any{
			"[]": -1.0,
		},
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	movies, _ := expr.nested.Get("movies")
	if movies.selector == nil || !movies.selector.isIndex || movies.selector.index != -1 {
		t.Fatalf("selector = %+v, want scalar index -1", movies.selector)
	}
}

func TestParseCollectionSelectorRange(t *testing.T) {
	expr, err := Parse(map[string]any{
		"movies": map[string]any{
			"[]": []any{1.0, 3.0},
		},
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	movies, _ := expr.nested.Get("movies")
	if movies.selector == nil || movies.selector.isIndex || len(movies.selector.bounds) != 2 {
		t.Fatalf("selector = %+v, want range bounds [1 3]", movies.selector)
	}
}

func TestParseCollectionSelectorRejectsTooManyBounds(t *testing.T) {
	_, err := Parse(map[string]any{
		"movies": map[string]any{
			"[]": []any{1.0, 2.0, 3.0},
		},
	})
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Kind != ErrInvalidCollectionSelector {
		t.Fatalf("error = %v, want ErrInvalidCollectionSelector", err)
	}
}

func TestParseMalformedUserKeyRejected(t *testing.T) {
	_, err := Parse(map[string]any{
		"a=>b=>c": true,
	})
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Kind != ErrMalformedUserKey {
		t.Fatalf("error = %v, want ErrMalformedUserKey", err)
	}
}

func TestParseIgnoreAndAcceptKeys(t *testing.T) {
	expr, err := Parse(map[string]any{
		"_id":       true,
		"_password": true,
		"name":      true,
	}, WithIgnoreKeys(RegexPattern{regexp.MustCompile(`^_`)}), WithAcceptKeys(StringPattern("_id")))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if _, ok := expr.nested.Get("_password"); ok {
		t.Fatal("_password should have been dropped by ignoreKeys")
	}
	if _, ok := expr.nested.Get("_id"); !ok {
		t.Fatal("_id should have been kept by acceptKeys")
	}
	if _, ok := expr.nested.Get("name"); !ok {
		t.Fatal("name should be kept")
	}
}

func TestParseOrderedObjectPreservesDeclaredOrder(t *testing.T) {
	obj := NewOrderedObject()
	obj.Set("zeta", true)
	obj.Set("alpha", true)
	obj.Set("middle", true)

	expr, err := Parse(obj)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	var order []string
	for pair := expr.nested.Oldest(); pair != nil; pair = pair.Next() {
		order = append(order, pair.Key)
	}
	want := []string{"zeta", "alpha", "middle"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}
