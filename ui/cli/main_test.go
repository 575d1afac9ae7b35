// Copyright (c) 2026 ToeiRei
// Usercrud - interactive user management console
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toeirei/usercrud/internal/db"
	"github.com/toeirei/usercrud/internal/logging"
	"github.com/toeirei/usercrud/internal/model"
)

// isolate keeps tests away from the developer's config files and
// environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("USERCRUD_LANGUAGE", "en")
	t.Chdir(dir)
	return dir
}

// dbArgs points a command at a fresh sqlite file.
func dbArgs(t *testing.T) []string {
	t.Helper()
	return []string{"--database.type", "sqlite", "--database.dsn", filepath.Join(t.TempDir(), "users.db")}
}

// executeCommand runs a fresh root command with the given stdin and
// arguments and returns everything it wrote.
func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := executeCommand(t, "", args...)
	require.NoError(t, err, out)
	return out
}

func with(base []string, args ...string) []string {
	return append(append([]string{}, args...), base...)
}

func TestUserCommands_Lifecycle(t *testing.T) {
	isolate(t)
	dbf := dbArgs(t)

	out := mustRun(t, with(dbf, "user", "create", "--name", "Ana", "--email", "ana@example.com", "--age", "30")...)
	assert.Contains(t, out, "User created with ID 1")
	mustRun(t, with(dbf, "user", "create", "--name", "Bruno", "--email", "bruno@example.com")...)

	out = mustRun(t, with(dbf, "user", "get", "1")...)
	assert.Contains(t, out, "ana@example.com")
	assert.Contains(t, out, "30")

	out = mustRun(t, with(dbf, "user", "list")...)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Bruno")

	out = mustRun(t, with(dbf, "user", "update", "2", "--age", "25")...)
	assert.Contains(t, out, "User 2 updated")

	out = mustRun(t, with(dbf, "user", "update", "2")...)
	assert.Contains(t, out, "No changes requested for user 2")

	out = mustRun(t, with(dbf, "user", "count")...)
	assert.Equal(t, "2", strings.TrimSpace(out))

	out = mustRun(t, with(dbf, "user", "delete", "1")...)
	assert.Contains(t, out, "User 1 deleted")

	out = mustRun(t, with(dbf, "user", "count")...)
	assert.Equal(t, "1", strings.TrimSpace(out))
}

func TestUserCommands_Errors(t *testing.T) {
	isolate(t)
	dbf := dbArgs(t)
	mustRun(t, with(dbf, "user", "create", "--name", "Ana", "--email", "ana@example.com")...)
	mustRun(t, with(dbf, "user", "create", "--name", "Bruno", "--email", "bruno@example.com")...)

	_, err := executeCommand(t, "", with(dbf, "user", "get", "42")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user 42 not found")

	_, err = executeCommand(t, "", with(dbf, "user", "get", "abc")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid user id "abc"`)

	_, err = executeCommand(t, "", with(dbf, "user", "create", "--name", "Dup", "--email", "ana@example.com")...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, db.ErrDuplicate))

	_, err = executeCommand(t, "", with(dbf, "user", "update", "2", "--email", "ana@example.com")...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, db.ErrDuplicate))

	_, err = executeCommand(t, "", with(dbf, "user", "delete", "42")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user 42 not found")

	_, err = executeCommand(t, "", with(dbf, "user", "list", "--output", "xml")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown output format "xml"`)
}

func TestUserUpdate_BlankNameRejected(t *testing.T) {
	isolate(t)
	dbf := dbArgs(t)
	mustRun(t, with(dbf, "user", "create", "--name", "Ana", "--email", "ana@example.com")...)

	_, err := executeCommand(t, "", with(dbf, "user", "update", "1", "--name", "")...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, db.ErrInvalidInput))

	out := mustRun(t, with(dbf, "user", "get", "1", "-o", "json")...)
	var users []model.User
	require.NoError(t, json.Unmarshal([]byte(out), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "Ana", users[0].Name)
}

func TestUserList_Formats(t *testing.T) {
	isolate(t)
	dbf := dbArgs(t)

	out := mustRun(t, with(dbf, "user", "list")...)
	assert.Contains(t, out, "No users found.")

	mustRun(t, with(dbf, "user", "create", "--name", "Ana", "--email", "ana@example.com", "--age", "30")...)

	var fromJSON []model.User
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, with(dbf, "user", "list", "-o", "json")...)), &fromJSON))
	require.Len(t, fromJSON, 1)
	assert.Equal(t, "Ana", fromJSON[0].Name)
	require.NotNil(t, fromJSON[0].Age)
	assert.Equal(t, 30, *fromJSON[0].Age)

	var fromYAML []model.User
	require.NoError(t, yaml.Unmarshal([]byte(mustRun(t, with(dbf, "user", "list", "-o", "yaml")...)), &fromYAML))
	require.Len(t, fromYAML, 1)
	assert.Equal(t, "ana@example.com", fromYAML[0].Email)
}

func TestBackupAndRestore(t *testing.T) {
	dir := isolate(t)
	src := dbArgs(t)
	mustRun(t, with(src, "user", "create", "--name", "Ana", "--email", "ana@example.com", "--age", "30")...)
	mustRun(t, with(src, "user", "create", "--name", "Bruno", "--email", "bruno@example.com")...)

	file := filepath.Join(dir, "users.json")
	out := mustRun(t, with(src, "backup", file)...)
	assert.Contains(t, out, "Backup of 2 user(s) written to "+file+".zst")

	data, err := readCompressedBackup(file + ".zst")
	require.NoError(t, err)
	assert.Equal(t, model.BackupSchemaVersion, data.SchemaVersion)
	require.Len(t, data.Users, 2)

	dst := dbArgs(t)
	out = mustRun(t, with(dst, "restore", file+".zst")...)
	assert.Contains(t, out, "2 user(s) restored, 0 skipped")

	out = mustRun(t, with(dst, "restore", file+".zst")...)
	assert.Contains(t, out, "0 user(s) restored, 2 skipped")

	out = mustRun(t, with(dst, "user", "count")...)
	assert.Equal(t, "2", strings.TrimSpace(out))
}

func TestRestore_UnreadableFile(t *testing.T) {
	dir := isolate(t)
	bad := filepath.Join(dir, "bad.zst")
	require.NoError(t, os.WriteFile(bad, []byte("not zstd"), 0600))

	_, err := executeCommand(t, "", with(dbArgs(t), "restore", bad)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Error reading backup")
}

func TestConfigWrite(t *testing.T) {
	dir := isolate(t)
	out := mustRun(t, "config", "write", "--database.type", "sqlite", "--database.dsn", "users.db")

	path := filepath.Join(dir, "config", "usercrud", "usercrud.yaml")
	assert.Contains(t, out, path)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "type: sqlite")
	assert.Contains(t, string(content), "dsn: users.db")
}

func TestConfigFile_SelectsDatabase(t *testing.T) {
	dir := isolate(t)
	cfg := filepath.Join(dir, "custom.yaml")
	dsn := filepath.Join(dir, "from-config.db")
	require.NoError(t, os.WriteFile(cfg, []byte("database:\n  type: sqlite\n  dsn: "+dsn+"\n"), 0600))

	mustRun(t, "--config", cfg, "user", "create", "--name", "Ana", "--email", "ana@example.com")
	_, err := os.Stat(dsn)
	assert.NoError(t, err)
}

func TestConfigFlag_MissingFile(t *testing.T) {
	isolate(t)
	_, err := executeCommand(t, "", "--config", "/nonexistent/usercrud.yaml", "user", "count")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--config")
}

func TestRootCommand_RunsShell(t *testing.T) {
	isolate(t)
	out, err := executeCommand(t, "3\n\n0\n", dbArgs(t)...)
	require.NoError(t, err)
	assert.Contains(t, out, "User Management System")
	assert.Contains(t, out, "No users registered.")
	assert.Contains(t, out, "Leaving the system...")
}

func TestRootCommand_Portuguese(t *testing.T) {
	isolate(t)
	out, err := executeCommand(t, "0\n", with(dbArgs(t), "--language", "pt")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Saindo do sistema...")
}

func TestStartupFailure(t *testing.T) {
	isolate(t)
	orig := openStore
	t.Cleanup(func() { openStore = orig })
	openStore = func(ctx context.Context, cfg db.Config) (*db.UserStore, error) {
		return nil, db.ErrConnection
	}

	_, err := executeCommand(t, "0\n", dbArgs(t)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Error starting the system")
}

func TestInterruptWhileConnecting(t *testing.T) {
	isolate(t)
	orig := openStore
	t.Cleanup(func() { openStore = orig })

	ctx, cancel := context.WithCancel(context.Background())
	openStore = func(ctx context.Context, cfg db.Config) (*db.UserStore, error) {
		cancel()
		return nil, fmt.Errorf("%w: %w", db.ErrConnection, ctx.Err())
	}

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(dbArgs(t))
	require.NoError(t, root.ExecuteContext(ctx))
	assert.Contains(t, out.String(), "Interrupt detected!")
	assert.NotContains(t, out.String(), "Error starting the system")
}

func TestReportError_LogFileAlsoWritesStderr(t *testing.T) {
	dir := isolate(t)
	logFile := filepath.Join(dir, "usercrud.log")
	closer, err := logging.Setup(logging.Options{File: logFile})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = closer.Close()
		_, _ = logging.Setup(logging.Options{})
	})

	orig := appConfig
	t.Cleanup(func() { appConfig = orig })
	appConfig.Log.File = logFile

	var stderr bytes.Buffer
	reportError(errors.New("boom"), &stderr)
	assert.Contains(t, stderr.String(), "Error: boom")

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "boom")

	appConfig.Log.File = ""
	stderr.Reset()
	reportError(errors.New("quiet"), &stderr)
	assert.Empty(t, stderr.String())
}

func TestStoreClosedAfterCommand(t *testing.T) {
	isolate(t)
	orig := openStore
	t.Cleanup(func() { openStore = orig })
	var opened *db.UserStore
	openStore = func(ctx context.Context, cfg db.Config) (*db.UserStore, error) {
		s, err := orig(ctx, cfg)
		opened = s
		return s, err
	}

	mustRun(t, with(dbArgs(t), "user", "count")...)
	require.NotNil(t, opened)
	assert.False(t, opened.Connected())
}

func TestVersionCommand(t *testing.T) {
	out := mustRun(t, "version")
	assert.Contains(t, out, "version: ")
	assert.Contains(t, out, "commit: ")
}
