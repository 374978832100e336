package services

import (
	"sort"
	"time"

	"github.com/AgusMolinaCode/CryptoMovers_Api.git/internal/models"
)

// TopMoversLimit es la cantidad de filas de cada ranking
const TopMoversLimit = 10

// ProjectMarkets reduce el snapshot a las columnas del libro y estampa fecha y hora.
// La fecha y hora se calculan una sola vez para todas las filas.
func ProjectMarkets(snapshot models.MarketSnapshot, now time.Time) []models.MarketRow {
	date := now.Format("2006-01-02")
	clock := now.Format("15:04")

	rows := make([]models.MarketRow, 0, len(snapshot))
	for _, coin := range snapshot {
		rows = append(rows, models.MarketRow{
			Name:                     coin.Name,
			CurrentPrice:             coin.CurrentPrice,
			PriceChangePercentage24h: coin.PriceChangePercentage24h,
			MarketCapChange24h:       coin.MarketCapChange24h,
			ATH:                      coin.ATH,
			ROI:                      coin.ROI,
			Date:                     date,
			Time:                     clock,
		})
	}
	return rows
}

// TopMovers devuelve los mayores ganadores y perdedores por cambio de 24h.
// Las filas sin cambio van al final en ambos órdenes.
func TopMovers(rows []models.MarketRow) (gainers, losers []models.MarketRow) {
	gainers = sortByChange(rows, true)
	losers = sortByChange(rows, false)
	return head(gainers, TopMoversLimit), head(losers, TopMoversLimit)
}

func sortByChange(rows []models.MarketRow, desc bool) []models.MarketRow {
	sorted := make([]models.MarketRow, len(rows))
	copy(sorted, rows)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].PriceChangePercentage24h, sorted[j].PriceChangePercentage24h
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		if desc {
			return *a > *b
		}
		return *a < *b
	})
	return sorted
}

func head(rows []models.MarketRow, n int) []models.MarketRow {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}
