// Package db provides the persistence layer for the estimating tool.
//
// The backend is SQLite, chosen for cross-platform single-user desktop use.
// Each query is held in an sql file under the `sql` directory using sqlx
// named parameters, prepared once at connection time. Multi-statement
// writes (quote create/update/delete, the invoice conversion, client
// cascade delete) run inside a single transaction.
package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/jmoiron/sqlx" // helper library
	_ "modernc.org/sqlite"    // pure go sqlite driver
)

//go:embed sql
var sqlFS embed.FS

var (
	// ErrNotFound signals an absent record; callers must check before use.
	ErrNotFound = errors.New("record not found")
	// ErrProductExists signals a duplicate product name, which is a
	// recoverable outcome rather than a storage failure.
	ErrProductExists = errors.New("product already exists")
)

// DB wraps the sqlx connection with the application's prepared statements.
type DB struct {
	*sqlx.DB
	logger   *slog.Logger
	logLevel *slog.LevelVar

	// Prepared statements.
	clientInsertStmt *sqlx.NamedStmt
	clientUpdateStmt *sqlx.NamedStmt
	clientGetStmt    *sqlx.NamedStmt
	clientsStmt      *sqlx.NamedStmt
	clientSearchStmt *sqlx.NamedStmt

	productInsertStmt *sqlx.NamedStmt
	productUpdateStmt *sqlx.NamedStmt
	productDeleteStmt *sqlx.NamedStmt
	productsStmt      *sqlx.NamedStmt
	productByNameStmt *sqlx.NamedStmt

	quoteInsertStmt     *sqlx.NamedStmt
	quoteGetStmt        *sqlx.NamedStmt
	quoteUpdateStmt     *sqlx.NamedStmt
	quoteMaxIDStmt      *sqlx.NamedStmt
	quotesForClientStmt *sqlx.NamedStmt
	itemInsertStmt      *sqlx.NamedStmt
	itemsGetStmt        *sqlx.NamedStmt
	itemsDeleteStmt     *sqlx.NamedStmt

	historyInsertStmt *sqlx.NamedStmt
	historyGetStmt    *sqlx.NamedStmt
}

// NewConnection creates a new connection to an SQLite database at the given
// path, enabling foreign keys and WAL mode. A nil logger gets a default
// stderr text logger whose level can be changed with SetLogLevel.
func NewConnection(dbPath string, logger *slog.Logger) (*DB, error) {

	dataSource := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", dbPath)

	// for in-memory test databases, check the necessary cached setting is used.
	if strings.Contains(dbPath, ":memory:") {
		if !strings.Contains(dbPath, "cache=shared") {
			return nil, fmt.Errorf("in-memory connection %q should contain '?cache=shared'", dbPath)
		}
		dataSource = dbPath
	}

	dbDB, err := sql.Open("sqlite", dataSource)
	if err != nil {
		return nil, err
	}
	if err := dbDB.Ping(); err != nil {
		return nil, err
	}

	level := &slog.LevelVar{}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}

	db := &DB{
		DB:       sqlx.NewDb(dbDB, "sqlite"),
		logger:   logger,
		logLevel: level,
	}

	if err := db.InitSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := db.prepareNamedStatements(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not prepare named statements: %w", err)
	}
	return db, nil
}

// SetLogLevel adjusts the level of the default logger.
func (db *DB) SetLogLevel(level slog.Level) {
	db.logLevel.Set(level)
}

// InitSchema creates the necessary tables if they don't already exist. The
// schema file can be run idempotently.
func (db *DB) InitSchema() error {
	schema, err := fs.ReadFile(sqlFS, schemaSQL)
	if err != nil {
		return fmt.Errorf("could not read schema file at %q: %w", schemaSQL, err)
	}
	_, err = db.ExecContext(context.Background(), string(schema))
	if err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// prepareNamedStatements prepares all the named statements for this
// database connection.
func (db *DB) prepareNamedStatements() error {
	for _, s := range []struct {
		stmt    **sqlx.NamedStmt
		sqlFile string
	}{
		{&db.clientInsertStmt, clientInsertSQL},
		{&db.clientUpdateStmt, clientUpdateSQL},
		{&db.clientGetStmt, clientGetSQL},
		{&db.clientsStmt, clientsSQL},
		{&db.clientSearchStmt, clientSearchSQL},
		{&db.productInsertStmt, productInsertSQL},
		{&db.productUpdateStmt, productUpdateSQL},
		{&db.productDeleteStmt, productDeleteSQL},
		{&db.productsStmt, productsSQL},
		{&db.productByNameStmt, productByNameSQL},
		{&db.quoteInsertStmt, quoteInsertSQL},
		{&db.quoteGetStmt, quoteGetSQL},
		{&db.quoteUpdateStmt, quoteUpdateSQL},
		{&db.quoteMaxIDStmt, quoteMaxIDSQL},
		{&db.quotesForClientStmt, quotesForClientSQL},
		{&db.itemInsertStmt, itemInsertSQL},
		{&db.itemsGetStmt, itemsGetSQL},
		{&db.itemsDeleteStmt, itemsDeleteSQL},
		{&db.historyInsertStmt, historyInsertSQL},
		{&db.historyGetStmt, historyGetSQL},
	} {
		stmt, err := db.prepNamedStatement(s.sqlFile)
		if err != nil {
			return err
		}
		*s.stmt = stmt
	}
	return nil
}

// prepNamedStatement loads an sql file and prepares it as a named statement.
func (db *DB) prepNamedStatement(filePath string) (*sqlx.NamedStmt, error) {
	query, err := fs.ReadFile(sqlFS, filePath)
	if err != nil {
		return nil, fmt.Errorf("could not read sql file %q: %w", filePath, err)
	}
	stmt, err := db.PrepareNamed(string(query))
	if err != nil {
		return nil, fmt.Errorf("could not prepare statement %q: %w", filePath, err)
	}
	return stmt, nil
}

// isUniqueViolation reports whether err is an SQLite unique constraint
// failure. The modernc driver exposes this only through the error string.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
