package test

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"taskflow/internal/adapter/database/sqlite"
)

// findProjectRoot finds the project root directory by looking for go.mod
func findProjectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	// Fallback to current working directory
	if wd, err := os.Getwd(); err == nil {
		return wd
	}

	log.Fatal("Could not find project root directory")
	return ""
}

// InitTestDB opens an in-memory sqlite database with migrations applied.
func InitTestDB() *sqlite.DB {
	raw, err := sql.Open("sqlite3", ":memory:")

	if err != nil {
		log.Fatal(err)
	}

	if _, err := raw.Exec("PRAGMA foreign_keys = ON"); err != nil {
		log.Fatal(err)
	}

	projectRoot := findProjectRoot()
	migrationsPath := filepath.Join(projectRoot, "db", "migrations")
	sqlite.RunMigrations(raw, migrationsPath)

	return sqlite.FromSQL(raw)
}

// CleanDB empties the todos table between tests.
func CleanDB(db *sqlite.DB) error {
	_, err := db.Exec("DELETE FROM todos")
	return err
}
