// Copyright (c) 2026 ToeiRei
// Usercrud - interactive user management console
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the root command, the persistent flags and the startup
// sequence shared by every subcommand.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/toeirei/usercrud/buildvars"
	"github.com/toeirei/usercrud/internal/config"
	"github.com/toeirei/usercrud/internal/db"
	"github.com/toeirei/usercrud/internal/i18n"
	"github.com/toeirei/usercrud/internal/logging"
	"github.com/toeirei/usercrud/internal/shell"
	"golang.org/x/term"
)

var version = "dev"   // this will be set by the linker
var gitCommit = "dev" // set at build time with the short commit SHA
var buildDate = ""    // set at build time (RFC3339)

var cfgFile string
var verbose bool

var appConfig config.Config

// logCloser releases the log file opened by setupDefaultServices.
var logCloser io.Closer

// openStore opens the user store. Tests may replace it.
var openStore = func(ctx context.Context, cfg db.Config) (*db.UserStore, error) {
	return db.Open(ctx, cfg, db.WithDefaultTelemetry())
}

func setupDefaultServices(cmd *cobra.Command, args []string) error {
	path, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	appConfig, err = config.LoadConfig[config.Config](cmd, config.Defaults(), path)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	i18n.Init(appConfig.Language)

	level := appConfig.Log.Level
	if verbose {
		level = "debug"
		db.SetDebug(true)
	}
	closer, err := logging.Setup(logging.Options{Level: level, File: appConfig.Log.File})
	if err != nil {
		return err
	}
	logCloser = closer
	logging.Debugf("database: %s", appConfig.Database.Redacted())
	return nil
}

// Execute runs the CLI entrypoint. SIGINT and SIGTERM cancel the command
// context; the interactive shell treats that as a request to shut down.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer func() {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	}()

	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil {
		reportError(err, os.Stderr)
	}
	return err
}

// reportError logs a fatal command error while the log file is still open.
// When logging goes to a file the error is also written to stderr so the
// user sees it.
func reportError(err error, stderr io.Writer) {
	logging.Errorf("usercrud: %v", err)
	if appConfig.Log.File != "" {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	// Only proceed if the user has explicitly set the --config flag.
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	// Make sure the user-provided file exists to avoid unwanted behavior.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// withStore opens the configured store, runs fn and closes the store again.
// Failing to connect is reported as a startup failure.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, store db.Store) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := openStore(ctx, appConfig.Database)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			fmt.Fprintln(out, i18n.T("shell.interrupted"))
			fmt.Fprintln(out, i18n.T("shell.shutdown_done"))
			return nil
		}
		return errors.New(i18n.T("startup.failed", err))
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logging.Warnf("closing store: %v", cerr)
		}
	}()
	return fn(ctx, store)
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func runShell(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(ctx context.Context, store db.Store) error {
		out := cmd.OutOrStdout()
		sh := shell.New(store, cmd.InOrStdin(), out,
			shell.WithRenderer(shell.NewRenderer(out, appConfig.Color)),
			shell.WithClearScreen(isTerminal(out)),
		)
		return sh.Run(ctx)
	})
}

// NewRootCmd creates and configures a new root cobra command.
// This function is used to create the main application command as well as
// fresh instances for isolated testing.
func NewRootCmd() *cobra.Command {
	i18n.Init("en")
	cmd := &cobra.Command{
		Use:               "usercrud",
		Short:             i18n.T("app.short"),
		Long:              i18n.T("app.long"),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setupDefaultServices,
		RunE:              runShell,
	}
	cmd.Version = compositeVersion()

	d := db.DefaultConfig()
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (debug logging, including DB operations)")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	cmd.PersistentFlags().String("language", "en", fmt.Sprintf("Interface language (%s)", i18n.LocaleList()))
	cmd.PersistentFlags().String("database.type", d.Type, "Database type (postgres, sqlite, mysql)")
	cmd.PersistentFlags().String("database.dsn", "", "Database connection string (overrides host, port and name)")
	cmd.PersistentFlags().String("database.host", d.Host, "Database host")
	cmd.PersistentFlags().Int("database.port", d.Port, "Database port")

	cmd.AddCommand(
		newUserCmd(),
		newBackupCmd(),
		newRestoreCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return cmd
}

func compositeVersion() string {
	v, c, d := resolveBuildVersion(nil)
	out := v
	if c != "" && c != "dev" && c != v {
		out += " (" + c + ")"
	}
	if d != "" {
		out += " built: " + d
	}
	return out
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		// No config or store needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion(nil)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version: %s\n", v)
			fmt.Fprintf(out, "commit: %s\n", c)
			if d != "" {
				fmt.Fprintf(out, "built: %s\n", d)
			}
		},
	}
}

// resolveBuildVersion computes the best-available version, commit and build
// date for the running binary. If `info` is nil, it reads build info from
// the runtime.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := buildvars.VersionOrDefault(version)
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	if info == nil {
		if local, ok := debug.ReadBuildInfo(); ok {
			info = local
		}
	}

	if info != nil && buildvars.Version == "" {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		// If Main doesn't contain the version (some build paths), try to
		// find our module in the dependencies and use that version.
		if resolvedVersion == "dev" {
			for _, dep := range info.Deps {
				if dep.Path == buildvars.ModulePath && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	// As a last resort, if no version was discovered, but a gitCommit was
	// provided via ldflags, show that to aid support.
	if resolvedVersion == "dev" && gitCommit != "dev" && gitCommit != "" {
		resolvedVersion = gitCommit
	}

	return resolvedVersion, resolvedCommit, resolvedDate
}
