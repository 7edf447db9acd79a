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

package deeprjson

import (
	"testing"

	"github.com/AnishGupta/deepr"
)

func TestDecodePreservesObjectKeyOrder(t *testing.T) {
	value, err := Decode([]byte(`{"zeta": true, "alpha": {"nested": 1}, "middle": [1, 2]}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	obj, ok := value.(*deepr.OrderedObject)
	if !ok {
		t.Fatalf("Decode() = %T, want *deepr.OrderedObject", value)
	}
	want := []string{"zeta", "alpha", "middle"}
	got := obj.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Keys() = %v, want %v", got, want)
		}
	}
}

func TestDecodeNestedObjectAlsoOrdered(t *testing.T) {
	value, err := Decode([]byte(`{"movie": {"year": 1, "title": 2}}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	obj := value.(*deepr.OrderedObject)
	inner, ok := obj.Get("movie")
	if !ok {
		t.Fatal(`missing "movie" key`)
	}
	innerObj := inner.(*deepr.OrderedObject)
	if got := innerObj.Keys(); len(got) != 2 || got[0] != "year" || got[1] != "title" {
		t.Fatalf("inner Keys() = %v, want [year title]", got)
	}
}

func TestDecodeArrayAndScalars(t *testing.T) {
	value, err := Decode([]byte(`[true, false, "x", 1.5, null]`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	arr, ok := value.([]any)
	if !ok || len(arr) != 5 {
		t.Fatalf("Decode() = %#v, want a 5-element slice", value)
	}
	if arr[0] != true || arr[1] != false || arr[2] != "x" || arr[3] != 1.5 || arr[4] != nil {
		t.Fatalf("elements = %#v", arr)
	}
}

func TestEncodeRoundTripsOrderedObject(t *testing.T) {
	obj := deepr.NewOrderedObject()
	obj.Set("b", 1)
	obj.Set("a", 2)
	data, err := Encode(obj)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if string(data) != `{"b":1,"a":2}` {
		t.Fatalf("Encode() = %s, want key order preserved", data)
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	if _, err := Decode([]byte(`{"a":`)); err == nil {
		t.Fatal("expected an error for truncated JSON")
	}
}
