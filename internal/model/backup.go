// Copyright (c) 2026 ToeiRei
// Usercrud - interactive user management console
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import "time"

// BackupSchemaVersion is written into every backup so future readers can
// detect the layout.
const BackupSchemaVersion = 1

// BackupData is the container written by the backup command.
type BackupData struct {
	SchemaVersion int       `json:"schema_version"`
	CreatedAt     time.Time `json:"created_at"`
	Users         []User    `json:"users"`
}
