// Copyright (c) 2026 ToeiRei
// Usercrud - interactive user management console
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/toeirei/usercrud/internal/model"
	"github.com/uptrace/bun"
)

// UserModel maps the usuarios table for Bun queries.
type UserModel struct {
	bun.BaseModel `bun:"table:usuarios"`
	ID            int64         `bun:"id,pk,autoincrement"`
	Name          string        `bun:"nome,notnull"`
	Email         string        `bun:"email,notnull,unique"`
	Age           sql.NullInt64 `bun:"idade"`
}

func userModelToModel(m UserModel) model.User {
	u := model.User{ID: m.ID, Name: m.Name, Email: m.Email}
	if m.Age.Valid {
		age := int(m.Age.Int64)
		u.Age = &age
	}
	return u
}

func nullAge(age *int) sql.NullInt64 {
	if age == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*age), Valid: true}
}

// Create inserts a user and returns the id assigned by the store. Empty
// name or email is rejected before any statement runs.
func (s *UserStore) Create(ctx context.Context, u model.NewUser) (id int64, err error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	ctx, done := s.observe(ctx, "create")
	defer func() { done(err) }()

	if strings.TrimSpace(u.Name) == "" || strings.TrimSpace(u.Email) == "" {
		return 0, fmt.Errorf("%w: %w: name and email are required", ErrCreateFailed, ErrInvalidInput)
	}

	m := UserModel{Name: u.Name, Email: u.Email, Age: nullAge(u.Age)}
	if _, err := s.bun.NewInsert().Model(&m).Exec(ctx); err != nil {
		logFailure("create", err)
		return 0, opError(ErrCreateFailed, err)
	}
	dbLogf("db: created user %d (%s)", m.ID, m.Email)
	return m.ID, nil
}

// Get returns the user with the given id. A missing row is reported as
// (nil, nil); only store failures produce an error.
func (s *UserStore) Get(ctx context.Context, id int64) (user *model.User, err error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	ctx, done := s.observe(ctx, "get")
	defer func() { done(err) }()

	var m UserModel
	err = s.bun.NewSelect().Model(&m).Where("? = ?", bun.Ident(colID), id).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logFailure("get", err)
		return nil, opError(ErrQueryFailed, err)
	}
	u := userModelToModel(m)
	return &u, nil
}

// List returns every user in store-native order. An empty table yields an
// empty, non-nil slice.
func (s *UserStore) List(ctx context.Context) (users []model.User, err error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	ctx, done := s.observe(ctx, "list")
	defer func() { done(err) }()

	var ms []UserModel
	if err := s.bun.NewSelect().Model(&ms).Scan(ctx); err != nil {
		logFailure("list", err)
		return nil, opError(ErrQueryFailed, err)
	}
	out := make([]model.User, 0, len(ms))
	for _, m := range ms {
		out = append(out, userModelToModel(m))
	}
	return out, nil
}

// Update changes only the fields supplied in patch. An empty patch is a
// no-op reported as (false, nil). A supplied name or email that is blank is
// rejected before any statement runs. ErrNotFound is returned when no row
// has the id.
func (s *UserStore) Update(ctx context.Context, id int64, patch model.UserPatch) (changed bool, err error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	if blankField(patch.Name) || blankField(patch.Email) {
		return false, opError(ErrUpdateFailed, fmt.Errorf("%w: name and email cannot be blank", ErrInvalidInput))
	}
	query, args, ok, err := buildPartialUpdate(id, patch)
	if err != nil {
		return false, opError(ErrUpdateFailed, err)
	}
	if !ok {
		dbLogf("db: update of user %d skipped, no fields supplied", id)
		return false, nil
	}

	ctx, done := s.observe(ctx, "update")
	defer func() { done(err) }()

	res, err := ExecRaw(ctx, s.bun, query, args...)
	if err != nil {
		logFailure("update", err)
		return false, opError(ErrUpdateFailed, err)
	}
	return affected(res, ErrUpdateFailed)
}

// Delete removes the user with the given id. ErrNotFound is returned when no
// row has the id.
func (s *UserStore) Delete(ctx context.Context, id int64) (deleted bool, err error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	ctx, done := s.observe(ctx, "delete")
	defer func() { done(err) }()

	res, err := s.bun.NewDelete().Model((*UserModel)(nil)).Where("? = ?", bun.Ident(colID), id).Exec(ctx)
	if err != nil {
		logFailure("delete", err)
		return false, opError(ErrDeleteFailed, err)
	}
	return affected(res, ErrDeleteFailed)
}

// Count returns the number of stored users.
func (s *UserStore) Count(ctx context.Context) (n int, err error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	ctx, done := s.observe(ctx, "count")
	defer func() { done(err) }()

	err = QueryRawInto(ctx, s.bun, &n, "SELECT COUNT(*) FROM ?", bun.Ident(usersTable))
	if err != nil {
		logFailure("count", err)
		return 0, opError(ErrQueryFailed, err)
	}
	return n, nil
}

// blankField reports a supplied string that is empty after trimming.
func blankField(v *string) bool {
	return v != nil && strings.TrimSpace(*v) == ""
}

func affected(res sql.Result, category error) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, opError(category, err)
	}
	if n == 0 {
		return false, ErrNotFound
	}
	return true, nil
}
