// Package testsupport holds helpers shared by package tests: in-memory
// databases for index storage tests and article document fixtures.
package testsupport

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// NewSQLiteMemoryDB opens a shared in-memory SQLite database. Callers should
// cap the pool at one connection so the shared cache stays coherent across
// queries.
func NewSQLiteMemoryDB() (*sql.DB, error) {
	return sql.Open("sqlite3", "file::memory:?cache=shared")
}
