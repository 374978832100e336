package database

import (
	"database/sql"
	"log"
)

// RunMigrations ejecuta las migraciones necesarias para actualizar el esquema de la base de datos
func RunMigrations(db *sql.DB) error {
	log.Println("Ejecutando migraciones de la base de datos...")

	// Índice para listar las corridas más recientes
	createStartedAtIndexSQL := `
	CREATE INDEX IF NOT EXISTS idx_market_runs_started_at
	ON market_runs(started_at);`

	if _, err := db.Exec(createStartedAtIndexSQL); err != nil {
		log.Printf("Error al crear índice idx_market_runs_started_at: %v", err)
		return err
	}

	return nil
}
