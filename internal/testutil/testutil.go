// Copyright (c) 2026 ToeiRei
// Usercrud - interactive user management console
// This source code is licensed under the MIT license found in the LICENSE file.

package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/toeirei/usercrud/internal/db"
	"github.com/toeirei/usercrud/internal/model"
)

// FakeStore is an in-memory db.Store used by tests that do not need SQL
// semantics. It enforces email uniqueness and never reuses ids. Set Err to
// make every operation fail with a store-level error.
type FakeStore struct {
	users  map[int64]model.User
	nextID int64
	Err    error
	// Calls counts invocations per operation name.
	Calls map[string]int
	// Before, when set, runs at the start of every operation with its name.
	Before func(op string)
}

var _ db.Store = (*FakeStore)(nil)

// NewFakeStore returns an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{users: map[int64]model.User{}, nextID: 1, Calls: map[string]int{}}
}

// Seed inserts users directly, bypassing Create, and returns their ids.
func (f *FakeStore) Seed(users ...model.NewUser) []int64 {
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		id := f.nextID
		f.nextID++
		f.users[id] = model.User{ID: id, Name: u.Name, Email: u.Email, Age: u.Age}
		ids = append(ids, id)
	}
	return ids
}

func (f *FakeStore) called(op string) {
	f.Calls[op]++
	if f.Before != nil {
		f.Before(op)
	}
}

func (f *FakeStore) fail(category error) error {
	return fmt.Errorf("%w: %w", category, f.Err)
}

func (f *FakeStore) emailTaken(email string, except int64) bool {
	for id, u := range f.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

func (f *FakeStore) Create(_ context.Context, u model.NewUser) (int64, error) {
	f.called("create")
	if f.Err != nil {
		return 0, f.fail(db.ErrCreateFailed)
	}
	if strings.TrimSpace(u.Name) == "" || strings.TrimSpace(u.Email) == "" {
		return 0, fmt.Errorf("%w: %w", db.ErrCreateFailed, db.ErrInvalidInput)
	}
	if f.emailTaken(u.Email, 0) {
		return 0, fmt.Errorf("%w: %w", db.ErrCreateFailed, db.ErrDuplicate)
	}
	return f.Seed(u)[0], nil
}

func (f *FakeStore) Get(_ context.Context, id int64) (*model.User, error) {
	f.called("get")
	if f.Err != nil {
		return nil, f.fail(db.ErrQueryFailed)
	}
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *FakeStore) List(_ context.Context) ([]model.User, error) {
	f.called("list")
	if f.Err != nil {
		return nil, f.fail(db.ErrQueryFailed)
	}
	out := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *FakeStore) Update(_ context.Context, id int64, patch model.UserPatch) (bool, error) {
	f.called("update")
	if f.Err != nil {
		return false, f.fail(db.ErrUpdateFailed)
	}
	if patch.IsEmpty() {
		return false, nil
	}
	if (patch.Name != nil && strings.TrimSpace(*patch.Name) == "") ||
		(patch.Email != nil && strings.TrimSpace(*patch.Email) == "") {
		return false, fmt.Errorf("%w: %w", db.ErrUpdateFailed, db.ErrInvalidInput)
	}
	u, ok := f.users[id]
	if !ok {
		return false, db.ErrNotFound
	}
	if patch.Email != nil && f.emailTaken(*patch.Email, id) {
		return false, fmt.Errorf("%w: %w", db.ErrUpdateFailed, db.ErrDuplicate)
	}
	f.users[id] = patch.Apply(u)
	return true, nil
}

func (f *FakeStore) Delete(_ context.Context, id int64) (bool, error) {
	f.called("delete")
	if f.Err != nil {
		return false, f.fail(db.ErrDeleteFailed)
	}
	if _, ok := f.users[id]; !ok {
		return false, db.ErrNotFound
	}
	delete(f.users, id)
	return true, nil
}

func (f *FakeStore) Count(_ context.Context) (int, error) {
	f.called("count")
	if f.Err != nil {
		return 0, f.fail(db.ErrQueryFailed)
	}
	return len(f.users), nil
}

// Lines joins input lines the way a user would type them.
func Lines(lines ...string) string { return strings.Join(lines, "\n") + "\n" }
