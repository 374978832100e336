package models

import (
	"encoding/json"
	"time"
)

// MarketCoin es un registro de /coins/markets reducido a los campos que usamos
type MarketCoin struct {
	Name                     string          `json:"name"`
	CurrentPrice             *float64        `json:"current_price"`
	PriceChangePercentage24h *float64        `json:"price_change_percentage_24h"`
	MarketCapChange24h       *float64        `json:"market_cap_change_24h"`
	ATH                      *float64        `json:"ath"`
	ROI                      json.RawMessage `json:"roi"`
}

// MarketSnapshot contiene las monedas en el orden de la API (market_cap_desc)
type MarketSnapshot []MarketCoin

// MarketRow es una moneda proyectada con la fecha y hora de la corrida
type MarketRow struct {
	Name                     string          `json:"name"`
	CurrentPrice             *float64        `json:"current_price"`
	PriceChangePercentage24h *float64        `json:"price_change_percentage_24h"`
	MarketCapChange24h       *float64        `json:"market_cap_change_24h"`
	ATH                      *float64        `json:"ath"`
	ROI                      json.RawMessage `json:"roi"`
	Date                     string          `json:"Date"`
	Time                     string          `json:"Time"`
}

// MarketColumns es el orden fijo de columnas de las tres hojas
var MarketColumns = []string{
	"name",
	"current_price",
	"price_change_percentage_24h",
	"market_cap_change_24h",
	"ath",
	"roi",
	"Date",
	"Time",
}

// Values devuelve las celdas de la fila en el orden de MarketColumns.
// Los nulos quedan como nil y roi se guarda como su JSON crudo.
func (r MarketRow) Values() []interface{} {
	return []interface{}{
		r.Name,
		nullableFloat(r.CurrentPrice),
		nullableFloat(r.PriceChangePercentage24h),
		nullableFloat(r.MarketCapChange24h),
		nullableFloat(r.ATH),
		rawOrNil(r.ROI),
		r.Date,
		r.Time,
	}
}

func nullableFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func rawOrNil(raw json.RawMessage) interface{} {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return string(raw)
}

// RunResult resume una corrida completa del pipeline
type RunResult struct {
	ID           string      `json:"id"`
	StartedAt    time.Time   `json:"started_at"`
	FinishedAt   time.Time   `json:"finished_at"`
	Currency     string      `json:"currency"`
	PerPage      int         `json:"per_page"`
	CoinCount    int         `json:"coin_count"`
	WorkbookPath string      `json:"workbook_path"`
	Gainers      []MarketRow `json:"gainers"`
	Losers       []MarketRow `json:"losers"`
}
