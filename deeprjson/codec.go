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

// Package deeprjson decodes a wire-format Query into the shape Parse
// expects, and encodes an Invoke result back into JSON.
//
// Decode builds *deepr.OrderedObject for every JSON object, rather than a
// plain map[string]any, so that a query's declared key order survives
// Parse and shows up, unchanged, in Invoke's result (spec.md §8). Neither
// encoding/json nor sonic's own Unmarshal-into-any preserves object key
// order; Decode walks the token stream itself to recover it, and leaves
// the fast whole-document Marshal path to sonic.
package deeprjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/bytedance/sonic"

	"github.com/AnishGupta/deepr"
)

// Decode parses JSON data into a Query value suitable for deepr.Parse:
// *deepr.OrderedObject for objects, []any for arrays, and the usual
// bool/float64/string/nil scalars otherwise.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	value, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	return value, nil
}

// decodeValue reads the next JSON value from dec's token stream.
func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok)
}

// decodeToken interprets a single already-read token, recursing into
// objects and arrays via their delimiters.
func decodeToken(dec *json.Decoder, tok json.Token) (any, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("deeprjson: unexpected delimiter %q", t)
		}
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return tok, nil
	}
}

// decodeObject reads key/value pairs until the closing '}', preserving
// their declared order in a *deepr.OrderedObject.
func decodeObject(dec *json.Decoder) (*deepr.OrderedObject, error) {
	obj := deepr.NewOrderedObject()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("deeprjson: non-string object key %v", keyTok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj.Set(key, value)
	}
	// consume the closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

// decodeArray reads elements until the closing ']'.
func decodeArray(dec *json.Decoder) ([]any, error) {
	var out []any
	for dec.More() {
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

// Encode marshals an Invoke result (or any value) to JSON using sonic's
// faster encoder. *deepr.OrderedObject values encode their entries in
// declared order through their own MarshalJSON method.
func Encode(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

// NewStreamEncoder returns a streaming encoder writing to w, for callers
// that want to write a result directly to an http.ResponseWriter or
// similar without buffering the whole document first.
func NewStreamEncoder(w io.Writer) *json.Encoder {
	return json.NewEncoder(w)
}
