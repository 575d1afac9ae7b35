// Copyright (c) 2026 ToeiRei
// Usercrud - interactive user management console
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// testConfig returns a sqlite config backed by a private in-memory database.
func testConfig(t *testing.T) Config {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	return Config{
		Type:         TypeSQLite,
		DSN:          "file:" + name + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
	}
}

// WithTestStore opens an in-memory sqlite UserStore for the duration of fn
// and closes it afterwards.
func WithTestStore(t *testing.T, fn func(s *UserStore), opts ...Option) {
	t.Helper()
	s, err := Open(context.Background(), testConfig(t), opts...)
	require.NoError(t, err, "Open failed")
	defer func() { _ = s.Close() }()
	fn(s)
}
