// Copyright (c) 2026 ToeiRei
// Usercrud - interactive user management console
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"
	"github.com/toeirei/usercrud/internal/db"
	"github.com/toeirei/usercrud/internal/i18n"
	"github.com/toeirei/usercrud/internal/logging"
	"github.com/toeirei/usercrud/internal/model"
)

// newBackupCmd builds the 'backup' command.
func newBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup [output-file]",
		Short: "Create a compressed (zstd) JSON backup of all users",
		Long: `Exports every user to a Zstandard-compressed JSON file.
If no output file is specified, a default filename 'usercrud-backup-YYYY-MM-DD.json.zst' is used.`,
		Example: `  # Backup to a default file (e.g., usercrud-backup-2026-10-19.json.zst)
  usercrud backup

  # Backup to a specific file
  usercrud backup my-backup.json`, // .zst will be appended
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFile := fmt.Sprintf("usercrud-backup-%s.json.zst", time.Now().Format("2006-01-02"))
			if len(args) > 0 {
				outputFile = args[0]
			}
			if !strings.HasSuffix(outputFile, ".zst") {
				outputFile += ".zst"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, i18n.T("backup.starting"))
			return withStore(cmd, func(ctx context.Context, store db.Store) error {
				data, err := exportUsers(ctx, store)
				if err != nil {
					return errors.New(i18n.T("backup.error_export", err))
				}
				if err := writeCompressedBackup(outputFile, data); err != nil {
					return errors.New(i18n.T("backup.error_write", err))
				}
				fmt.Fprintln(out, i18n.T("backup.success", len(data.Users), outputFile))
				return nil
			})
		},
	}
}

// newRestoreCmd builds the 'restore' command. Users are re-created one by
// one, so they receive fresh ids; rows whose email already exists are
// skipped.
func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <backup-file.zst>",
		Short: "Import users from a compressed JSON backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readCompressedBackup(args[0])
			if err != nil {
				return errors.New(i18n.T("restore.error_read", err))
			}
			if data.SchemaVersion > model.BackupSchemaVersion {
				return errors.New(i18n.T("restore.unsupported_version", data.SchemaVersion))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, i18n.T("restore.starting"))
			return withStore(cmd, func(ctx context.Context, store db.Store) error {
				created, skipped, err := importUsers(ctx, store, data.Users)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, i18n.T("restore.success", created, skipped))
				return nil
			})
		},
	}
}

func exportUsers(ctx context.Context, store db.Store) (*model.BackupData, error) {
	users, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	return &model.BackupData{
		SchemaVersion: model.BackupSchemaVersion,
		CreatedAt:     time.Now().UTC(),
		Users:         users,
	}, nil
}

// importUsers creates every user, skipping duplicates. Any other failure
// stops the import.
func importUsers(ctx context.Context, store db.Store, users []model.User) (created, skipped int, err error) {
	for _, u := range users {
		_, err := store.Create(ctx, model.NewUser{Name: u.Name, Email: u.Email, Age: u.Age})
		switch {
		case errors.Is(err, db.ErrDuplicate):
			logging.Infof("restore: skipping %s, email already present", u.Email)
			skipped++
		case err != nil:
			return created, skipped, err
		default:
			created++
		}
	}
	return created, skipped, nil
}

// readCompressedBackup handles reading and decoding a zstd-compressed JSON backup file.
func readCompressedBackup(filename string) (*model.BackupData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open backup file: %w", err)
	}
	defer func() { _ = file.Close() }()

	zstdReader, err := zstd.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("could not create zstd reader: %w", err)
	}
	defer zstdReader.Close()

	var backupData model.BackupData
	if err := json.NewDecoder(zstdReader).Decode(&backupData); err != nil {
		return nil, fmt.Errorf("could not decode json from zstd reader: %w", err)
	}
	return &backupData, nil
}

// writeCompressedBackup handles the process of writing the backup data to a zstd-compressed file.
func writeCompressedBackup(filename string, data *model.BackupData) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create backup file: %w", err)
	}
	defer func() { _ = file.Close() }()

	zstdWriter, err := zstd.NewWriter(file)
	if err != nil {
		return fmt.Errorf("could not create zstd writer: %w", err)
	}

	encoder := json.NewEncoder(zstdWriter)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		_ = zstdWriter.Close()
		return fmt.Errorf("could not encode json to zstd writer: %w", err)
	}
	if err := zstdWriter.Close(); err != nil {
		return fmt.Errorf("could not finish zstd stream: %w", err)
	}
	return file.Sync()
}
