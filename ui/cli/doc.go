// Copyright (c) 2026 ToeiRei
// Usercrud - interactive user management console
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for usercrud using Cobra.
// It loads configuration, opens the user store for the commands that need
// it and hands the handle to the interactive shell or a one-shot command.
// CLI code should remain thin and delegate data access to internal/db.
package cli
