package repository

import (
	"database/sql"
	"errors"

	"github.com/AgusMolinaCode/CryptoMovers_Api.git/internal/models"
)

// ErrNoRuns indica que todavía no hay corridas registradas
var ErrNoRuns = errors.New("no runs recorded")

type RunRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Save registra una corrida, exitosa o fallida
func (r *RunRepository) Save(run *models.MarketRun) error {
	query := `
		INSERT INTO market_runs (
			id, started_at, finished_at, currency, per_page, coin_count,
			gainers_count, losers_count, status, error, workbook_path
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(query,
		run.ID,
		run.StartedAt.UTC(),
		run.FinishedAt.UTC(),
		run.Currency,
		run.PerPage,
		run.CoinCount,
		run.GainersCount,
		run.LosersCount,
		run.Status,
		run.Error,
		run.WorkbookPath,
	)
	return err
}

// List devuelve las últimas corridas, la más reciente primero
func (r *RunRepository) List(limit int) ([]models.MarketRun, error) {
	query := `
		SELECT id, started_at, finished_at, currency, per_page, coin_count,
		       gainers_count, losers_count, status, error, workbook_path
		FROM market_runs
		ORDER BY started_at DESC
		LIMIT $1`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []models.MarketRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

// Latest devuelve la corrida más reciente
func (r *RunRepository) Latest() (*models.MarketRun, error) {
	query := `
		SELECT id, started_at, finished_at, currency, per_page, coin_count,
		       gainers_count, losers_count, status, error, workbook_path
		FROM market_runs
		ORDER BY started_at DESC
		LIMIT 1`

	run, err := scanRun(r.db.QueryRow(query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRuns
	}
	return run, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(s rowScanner) (*models.MarketRun, error) {
	var run models.MarketRun
	err := s.Scan(
		&run.ID,
		&run.StartedAt,
		&run.FinishedAt,
		&run.Currency,
		&run.PerPage,
		&run.CoinCount,
		&run.GainersCount,
		&run.LosersCount,
		&run.Status,
		&run.Error,
		&run.WorkbookPath,
	)
	if err != nil {
		return nil, err
	}
	return &run, nil
}
