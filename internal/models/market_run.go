package models

import "time"

// Estados posibles de una corrida
const (
	RunStatusSuccess = "success"
	RunStatusFailed  = "failed"
)

// MarketRun es el registro de una corrida en la tabla market_runs
type MarketRun struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	Currency     string    `json:"currency"`
	PerPage      int       `json:"per_page"`
	CoinCount    int       `json:"coin_count"`
	GainersCount int       `json:"gainers_count"`
	LosersCount  int       `json:"losers_count"`
	Status       string    `json:"status"`
	Error        string    `json:"error,omitempty"`
	WorkbookPath string    `json:"workbook_path"`
}
