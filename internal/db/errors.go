// Copyright (c) 2026 ToeiRei
// Usercrud - interactive user management console
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrConnection is returned by Open when the store is unreachable, the
	// credentials are rejected or the bootstrap DDL cannot run.
	ErrConnection = errors.New("could not connect to the database")
	// ErrNotConnected is returned when an operation runs on a store that was
	// never opened or has already been closed.
	ErrNotConnected = errors.New("database connection not established")

	ErrCreateFailed = errors.New("create user failed")
	ErrQueryFailed  = errors.New("query users failed")
	ErrUpdateFailed = errors.New("update user failed")
	ErrDeleteFailed = errors.New("delete user failed")

	// ErrNotFound is returned by Update and Delete when no row matched the id.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate is returned when attempting to insert a record that already exists.
	ErrDuplicate = errors.New("duplicate record")
	// ErrInvalidInput marks required fields that were left empty.
	ErrInvalidInput = errors.New("invalid input")
)

// postgres unique_violation
const pgUniqueViolation = "23505"

// mysql ER_DUP_ENTRY
const mysqlDuplicateEntry = 1062

// MapDBError inspects low-level driver errors and maps unique constraint
// violations to ErrDuplicate while keeping the original error in the chain.
// Driver error types are checked first; the string match catches wrappers
// that lost the concrete type.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	le := strings.ToLower(err.Error())
	return strings.Contains(le, "duplicate") || strings.Contains(le, "unique") || strings.Contains(le, pgUniqueViolation)
}

// opError wraps cause with the operation category so callers can branch on
// either with errors.Is.
func opError(category, cause error) error {
	return fmt.Errorf("%w: %w", category, MapDBError(cause))
}
