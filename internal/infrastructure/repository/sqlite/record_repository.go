package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/kirillkom/hadith-assistant/internal/infrastructure/repository/recordsql"
)

// OpenDB opens a SQLite file read by the record store. The pool stays at one
// connection so ":memory:" databases are shared across queries.
func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func NewRecordRepository(db *sql.DB, table string) (*recordsql.Store, error) {
	return recordsql.New(db, recordsql.SQLite, table)
}
