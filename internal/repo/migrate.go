package repo

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/maharshi-myriadsolutionz/kanlad/migrations"

	"github.com/pressly/goose/v3"
)

// Dialects supported by RunMigrations. Each names a directory in migrations.FS.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// goose keeps dialect and base FS in package state.
var gooseMu sync.Mutex

// RunMigrations applies every pending migration for dialect to db.
func RunMigrations(db *sql.DB, dialect string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	var gooseDialect string
	switch dialect {
	case DialectPostgres:
		gooseDialect = "postgres"
	case DialectSQLite:
		gooseDialect = "sqlite3"
	default:
		return fmt.Errorf("unsupported dialect %q", dialect)
	}

	goose.SetBaseFS(migrations.FS)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.Up(db, dialect); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
