package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// InitDB abre la base de corridas y crea el esquema si no existe.
// driver es "sqlite3" (dsn = ruta del archivo) o "postgres" (dsn = URL de conexión).
func InitDB(driver, dsn string) (*sql.DB, error) {
	if driver == "sqlite3" && dsn != ":memory:" {
		// Crear el directorio de la base si no existe
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error al abrir la base (%s): %w", driver, err)
	}
	if driver == "sqlite3" {
		// SQLite no admite escrituras concurrentes
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error al conectar con la base (%s): %w", driver, err)
	}

	// Crear tabla de corridas
	createRunsTableSQL := `
	CREATE TABLE IF NOT EXISTS market_runs (
		id TEXT PRIMARY KEY,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL,
		currency TEXT NOT NULL,
		per_page INTEGER NOT NULL,
		coin_count INTEGER NOT NULL DEFAULT 0,
		gainers_count INTEGER NOT NULL DEFAULT 0,
		losers_count INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		workbook_path TEXT NOT NULL
	);`

	if _, err := db.Exec(createRunsTableSQL); err != nil {
		db.Close()
		return nil, err
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("Base de corridas lista (%s)", driver)
	return db, nil
}
