// Copyright (c) 2026 ToeiRei
// Usercrud - interactive user management console
// This source code is licensed under the MIT license found in the LICENSE file.

package db // import "github.com/toeirei/usercrud/internal/db"

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	// SQL drivers registered for database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

var (
	//go:embed schema/*.sql
	embeddedSchema embed.FS
	// sqlOpenFunc allows tests to override database opening behavior.
	sqlOpenFunc = sql.Open
)

// Supported database types.
const (
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
	TypeMySQL    = "mysql"
)

const defaultSQLiteDSN = "usercrud.db"

// Config describes how to reach the store. DSN, when set, takes precedence
// over the individual connection parts.
type Config struct {
	Type         string `mapstructure:"type" yaml:"type"`
	Host         string `mapstructure:"host" yaml:"host"`
	Port         int    `mapstructure:"port" yaml:"port"`
	Name         string `mapstructure:"name" yaml:"name"`
	User         string `mapstructure:"user" yaml:"user"`
	Password     string `mapstructure:"password" yaml:"password"`
	SSLMode      string `mapstructure:"sslmode" yaml:"sslmode"`
	DSN          string `mapstructure:"dsn" yaml:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns" yaml:"max_open_conns"`
}

// DefaultConfig returns the connection settings used when nothing is
// configured: a local postgres crud_db database.
func DefaultConfig() Config {
	return Config{
		Type:         TypePostgres,
		Host:         "localhost",
		Port:         5432,
		Name:         "crud_db",
		User:         "postgres",
		Password:     "postgres",
		SSLMode:      "disable",
		MaxOpenConns: 1,
	}
}

// DriverName returns the database/sql driver registered for the type.
// The pgx stdlib registers driver name "pgx"; "postgres" maps to it.
func (c Config) DriverName() (string, error) {
	switch c.Type {
	case TypePostgres:
		return "pgx", nil
	case TypeSQLite:
		return "sqlite", nil
	case TypeMySQL:
		return "mysql", nil
	default:
		return "", fmt.Errorf("unsupported database type: '%s'", c.Type)
	}
}

// DataSourceName builds the driver DSN from the connection parts.
func (c Config) DataSourceName() (string, error) {
	if c.DSN != "" {
		return c.DSN, nil
	}
	addr := net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	switch c.Type {
	case TypePostgres:
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(c.User, c.Password),
			Host:   addr,
			Path:   "/" + c.Name,
		}
		if c.SSLMode != "" {
			u.RawQuery = url.Values{"sslmode": []string{c.SSLMode}}.Encode()
		}
		return u.String(), nil
	case TypeMySQL:
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = addr
		mc.DBName = c.Name
		mc.ParseTime = true
		// report matched rows, not changed rows, so an update that
		// rewrites identical values still counts as a match
		mc.ClientFoundRows = true
		return mc.FormatDSN(), nil
	case TypeSQLite:
		return defaultSQLiteDSN, nil
	default:
		return "", fmt.Errorf("unsupported database type: '%s'", c.Type)
	}
}

// Redacted returns a DSN safe for logs.
func (c Config) Redacted() string {
	if c.Type == TypePostgres && c.DSN == "" {
		return fmt.Sprintf("postgres://%s@%s/%s", c.User, net.JoinHostPort(c.Host, strconv.Itoa(c.Port)), c.Name)
	}
	if c.Type == TypeSQLite {
		dsn, _ := c.DataSourceName()
		return dsn
	}
	return c.Type + "://" + net.JoinHostPort(c.Host, strconv.Itoa(c.Port)) + "/" + c.Name
}

// Open connects to the store described by cfg, ensures the usuarios table
// exists and returns a connected UserStore. Any failure is wrapped in
// ErrConnection and leaves nothing open.
func Open(ctx context.Context, cfg Config, opts ...Option) (*UserStore, error) {
	driverName, err := cfg.DriverName()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}
	dsn, err := cfg.DataSourceName()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}

	start := time.Now()
	sqlDB, err := sqlOpenFunc(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxOpen)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}
	dbLogf("db: opened %s driver for %s in %s (max open=%d)", driverName, cfg.Redacted(), time.Since(start), maxOpen)

	bunDB := createBunDB(sqlDB, cfg.Type)
	if err := bootstrapSchema(ctx, bunDB, cfg.Type); err != nil {
		_ = bunDB.Close()
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}

	s := &UserStore{bun: bunDB, dbType: cfg.Type, state: stateConnected}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// createBunDB constructs a *bun.DB for the provided *sql.DB and dbType.
// Centralizing construction makes it easier to apply consistent options
// and to test Bun initialization in one place.
func createBunDB(sqlDB *sql.DB, dbType string) *bun.DB {
	switch dbType {
	case TypeSQLite:
		return bun.NewDB(sqlDB, sqlitedialect.New())
	case TypeMySQL:
		return bun.NewDB(sqlDB, mysqldialect.New())
	default:
		return bun.NewDB(sqlDB, pgdialect.New())
	}
}

// bootstrapSchema runs the idempotent CREATE TABLE IF NOT EXISTS statement
// for the dialect.
func bootstrapSchema(ctx context.Context, b *bun.DB, dbType string) error {
	start := time.Now()
	ddl, err := embeddedSchema.ReadFile("schema/" + dbType + ".sql")
	if err != nil {
		return fmt.Errorf("no bootstrap schema for %s: %w", dbType, err)
	}
	if _, err := ExecRaw(ctx, b, string(ddl)); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	dbLogf("db: bootstrap schema for %s completed in %s", dbType, time.Since(start))
	return nil
}
