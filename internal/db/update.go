// Copyright (c) 2026 ToeiRei
// Usercrud - interactive user management console
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/toeirei/usercrud/internal/model"
)

const (
	usersTable = "usuarios"
	colID      = "id"
	colName    = "nome"
	colEmail   = "email"
	colAge     = "idade"
)

// buildPartialUpdate renders a single UPDATE that touches only the columns
// supplied in patch. ok is false when the patch is empty and nothing must be
// executed. Placeholders use the "?" form expected by ExecRaw.
func buildPartialUpdate(id int64, patch model.UserPatch) (query string, args []any, ok bool, err error) {
	if patch.IsEmpty() {
		return "", nil, false, nil
	}
	b := sq.Update(usersTable)
	if patch.Name != nil {
		b = b.Set(colName, *patch.Name)
	}
	if patch.Email != nil {
		b = b.Set(colEmail, *patch.Email)
	}
	if patch.Age != nil {
		b = b.Set(colAge, *patch.Age)
	}
	query, args, err = b.Where(sq.Eq{colID: id}).ToSql()
	if err != nil {
		return "", nil, false, err
	}
	return query, args, true, nil
}
