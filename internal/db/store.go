// Copyright (c) 2026 ToeiRei
// Usercrud - interactive user management console
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"

	"github.com/toeirei/usercrud/internal/model"
	"github.com/uptrace/bun"
)

// Store defines the user operations offered by the data access layer.
// The shell and the CLI depend on this interface so tests can inject fakes.
type Store interface {
	Create(ctx context.Context, u model.NewUser) (int64, error)
	Get(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id int64, patch model.UserPatch) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int, error)
}

type connState int

const (
	stateUnconnected connState = iota
	stateConnected
	stateClosed
)

func (s connState) String() string {
	switch s {
	case stateConnected:
		return "connected"
	case stateClosed:
		return "closed"
	default:
		return "unconnected"
	}
}

// UserStore is the bun-backed Store. The zero value is unconnected; use Open.
// A UserStore is not safe for concurrent use.
type UserStore struct {
	bun    *bun.DB
	dbType string
	state  connState
	tel    telemetry
}

var _ Store = (*UserStore)(nil)

// Type returns the database type the store was opened with.
func (s *UserStore) Type() string { return s.dbType }

// Connected reports whether operations can run.
func (s *UserStore) Connected() bool {
	return s != nil && s.state == stateConnected && s.bun != nil
}

func (s *UserStore) ready() error {
	if s == nil {
		return ErrNotConnected
	}
	if !s.Connected() {
		dbLogf("db: operation rejected, store is %s", s.state)
		return ErrNotConnected
	}
	return nil
}

// Close releases the connection. It is safe to call more than once and on
// a store that was never opened.
func (s *UserStore) Close() error {
	if !s.Connected() {
		return nil
	}
	s.state = stateClosed
	err := s.bun.Close()
	dbLogf("db: connection closed")
	return err
}
