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
	"errors"
	"testing"
)

type recordingInterceptor struct {
	name  string
	trace *[]string
}

func (r recordingInterceptor) Intercept(node *Expression, next NodeHandler) NodeHandler {
	return func(ctx context.Context, n *Expression, target any) (any, error) {
		*r.trace = append(*r.trace, "before:"+r.name)
		result, err := next(ctx, n, target)
		*r.trace = append(*r.trace, "after:"+r.name)
		return result, err
	}
}

func TestInterceptorGroupRunsOutermostFirst(t *testing.T) {
	var trace []string
	group := InterceptorGroup{
		recordingInterceptor{name: "a", trace: &trace},
		recordingInterceptor{name: "b", trace: &trace},
	}
	base := NodeHandler(func(ctx context.Context, n *Expression, target any) (any, error) {
		trace = append(trace, "base")
		return target, nil
	})
	handler := group.Intercept(nil, base)
	if _, err := handler(context.Background(), nil, "x"); err != nil {
		t.Fatalf("handler() error = %v", err)
	}
	want := []string{"before:a", "before:b", "base", "after:b", "after:a"}
	if len(trace) != len(want) {
		t.Fatalf("trace = %v, want %v", trace, want)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("trace = %v, want %v", trace, want)
		}
	}
}

func TestInterceptorGroupPropagatesError(t *testing.T) {
	var trace []string
	group := InterceptorGroup{recordingInterceptor{name: "a", trace: &trace}}
	wantErr := errors.New("boom")
	base := NodeHandler(func(ctx context.Context, n *Expression, target any) (any, error) {
		return nil, wantErr
	})
	_, err := group.Intercept(nil, base)(context.Background(), nil, nil)
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}

func TestLoggingInterceptorCallsThrough(t *testing.T) {
	called := false
	base := NodeHandler(func(ctx context.Context, n *Expression, target any) (any, error) {
		called = true
		return "value", nil
	})
	expr := &Expression{sourceKey: "title"}
	result, err := (LoggingInterceptor{}).Intercept(expr, base)(context.Background(), expr, nil)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if !called {
		t.Fatal("LoggingInterceptor must call the wrapped handler")
	}
	if result != "value" {
		t.Fatalf("result = %v, want value", result)
	}
}
