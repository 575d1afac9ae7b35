// Copyright (c) 2026 ToeiRei
// Usercrud - interactive user management console
// This source code is licensed under the MIT license found in the LICENSE file.

// Package db contains the data access layer for usercrud.
//
// The layer owns the database handle and is the only component that touches
// the usuarios table. Callers open a *UserStore with Open, pass it around
// explicitly (it satisfies the small Store interface) and release it with
// Close when the owning scope ends.
//
// Store-level failures are never raised as panics. Every operation returns an
// explicit result and, on failure, an error wrapping one of the category
// sentinels (ErrCreateFailed, ErrQueryFailed, ErrUpdateFailed,
// ErrDeleteFailed). Unique violations additionally match ErrDuplicate. Only
// Open escalates, with ErrConnection, because nothing can run without a live
// connection.
//
// Testing notes
//   - Use a sqlite Config with an in-memory DSN for tests that need real
//     SQL semantics; the bootstrap DDL runs exactly as in production.
//   - Code that only needs the Store interface should use the in-memory fake
//     in internal/testutil.
package db
