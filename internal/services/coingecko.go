package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/AgusMolinaCode/CryptoMovers_Api.git/internal/models"
)

// ErrFetchFailed se devuelve (envuelto en FetchError) cuando no se pudo obtener el snapshot
var ErrFetchFailed = errors.New("failed to fetch market data")

// FetchError describe por qué falló la descarga del snapshot
type FetchError struct {
	StatusCode int
	Reason     string
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%v: status %d: %s", ErrFetchFailed, e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("%v: %s", ErrFetchFailed, e.Reason)
}

func (e *FetchError) Unwrap() error { return ErrFetchFailed }

// CoinGeckoClient consulta el endpoint /coins/markets
type CoinGeckoClient struct {
	baseURL string
	http    *http.Client
}

func NewCoinGeckoClient(baseURL string, timeout time.Duration) *CoinGeckoClient {
	return &CoinGeckoClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchMarkets obtiene la primera página ordenada por market cap descendente
func (c *CoinGeckoClient) FetchMarkets(ctx context.Context, currency string, perPage int) (models.MarketSnapshot, error) {
	params := url.Values{}
	params.Set("vs_currency", currency)
	params.Set("order", "market_cap_desc")
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/coins/markets?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("error construyendo la petición: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Println("Failed to fetch data")
		return nil, &FetchError{Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Println("Failed to fetch data")
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &FetchError{StatusCode: resp.StatusCode, Reason: string(body)}
	}

	log.Println("Connection successful")

	var snapshot models.MarketSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		log.Printf("Error al parsear JSON de /coins/markets: %v", err)
		return nil, &FetchError{StatusCode: resp.StatusCode, Reason: "respuesta JSON inválida: " + err.Error()}
	}

	return snapshot, nil
}
