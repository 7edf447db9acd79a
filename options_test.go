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

	"github.com/stretchr/testify/require"
)

func TestNewEvalOptionsDefaultsToAllowAllAuthorizer(t *testing.T) {
	eo := newEvalOptions()
	ok, err := eo.authorizer(context.Background(), "key", "get", nil)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestWithAuthorizerOverridesDefault(t *testing.T) {
	eo := newEvalOptions(WithAuthorizer(func(ctx context.Context, key, op string, params []any) (bool, error) {
		return key == "allowed", nil
	}))
	ok, _ := eo.authorizer(context.Background(), "allowed", "get", nil)
	require.True(t, ok)
	ok, _ = eo.authorizer(context.Background(), "denied", "get", nil)
	require.False(t, ok)
}

func TestWithContextSetsCallContext(t *testing.T) {
	type ctxKey struct{}
	custom := context.WithValue(context.Background(), ctxKey{}, "v")
	eo := newEvalOptions(WithContext(custom))
	require.Equal(t, custom, eo.callContext)
}

func TestWithErrorHandlerInstalled(t *testing.T) {
	eo := newEvalOptions(WithErrorHandler(func(err error) (any, error) {
		return "recovered", nil
	}))
	require.NotNil(t, eo.errorHandler)
	v, err := eo.errorHandler(nil)
	require.NoError(t, err)
	require.Equal(t, "recovered", v)
}

func TestWithInterceptorsAppends(t *testing.T) {
	eo := newEvalOptions(
		WithInterceptors(LoggingInterceptor{}),
		WithInterceptors(LoggingInterceptor{}),
	)
	require.Len(t, eo.interceptors, 2)
}

func TestNewParseOptionsDefaultsIgnoreBuiltIn(t *testing.T) {
	po := newParseOptions()
	require.True(t, po.ignoreBuiltIn)
	require.True(t, po.shouldIgnore("error"))
}

func TestWithIgnoreBuiltInKeysFalseAllowsThem(t *testing.T) {
	po := newParseOptions(WithIgnoreBuiltInKeys(false))
	require.False(t, po.shouldIgnore("error"))
}

func TestAcceptKeysOverridesIgnore(t *testing.T) {
	po := newParseOptions(
		WithIgnoreKeys(StringPattern("secret")),
		WithAcceptKeys(StringPattern("secret")),
	)
	require.False(t, po.shouldIgnore("secret"))
}
