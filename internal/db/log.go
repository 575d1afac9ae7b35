// Copyright (c) 2026 ToeiRei
// Usercrud - interactive user management console
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"fmt"

	"github.com/toeirei/usercrud/internal/logging"
)

var dbDebugEnabled bool

// SetDebug enables or disables DB debug logging. Disabled by default.
func SetDebug(enabled bool) {
	dbDebugEnabled = enabled
}

func dbLogf(format string, v ...any) {
	if dbDebugEnabled {
		logging.L.Info(fmt.Sprintf("[DB] "+format, v...))
	}
}

// logFailure records the driver-level cause of a failed operation before
// the error is returned.
func logFailure(op string, err error) {
	logging.L.Error("db operation failed", "op", op, "err", err)
}
