package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AgusMolinaCode/CryptoMovers_Api.git/internal/database"
	"github.com/AgusMolinaCode/CryptoMovers_Api.git/internal/middleware"
	"github.com/AgusMolinaCode/CryptoMovers_Api.git/internal/repository"
	"github.com/AgusMolinaCode/CryptoMovers_Api.git/internal/services"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const testMarkets = `[
	{"name":"Bitcoin","current_price":68000,"price_change_percentage_24h":2.5,"market_cap_change_24h":1000,"ath":73738,"roi":null},
	{"name":"Ethereum","current_price":3500,"price_change_percentage_24h":-1.25,"market_cap_change_24h":-50,"ath":4878,"roi":null},
	{"name":"Solana","current_price":150,"price_change_percentage_24h":7,"market_cap_change_24h":20,"ath":260,"roi":null}
]`

type testEnv struct {
	router   *gin.Engine
	upstream *atomic.Int32
}

func setup(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	status := &atomic.Int32{}
	status.Store(http.StatusOK)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := int(status.Load())
		w.WriteHeader(code)
		if code == http.StatusOK {
			_, _ = w.Write([]byte(testMarkets))
		}
	}))
	t.Cleanup(upstream.Close)

	dir := t.TempDir()
	db, err := database.InitDB("sqlite3", filepath.Join(dir, "runs.db"))
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	middleware.InitAuth("test-secret", string(hash))

	runs := repository.NewRunRepository(db)
	workbook := repository.NewWorkbookRepository(filepath.Join(dir, "Crypto.xlsx"))
	hub := middleware.NewHub()
	updater := services.NewMarketUpdater(time.Hour, "usd", 250,
		services.NewCoinGeckoClient(upstream.URL, 5*time.Second), workbook, runs, nil, hub.Broadcast)
	middleware.InitMarket(updater, runs, workbook, nil)

	router := gin.New()
	RegisterRoutes(router, hub)
	return testEnv{router: router, upstream: status}
}

func (e testEnv) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e testEnv) login(t *testing.T) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/login", `{"password":"s3cret"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("token: %v %s", err, w.Body.String())
	}
	return resp.Token
}

func TestHealth(t *testing.T) {
	env := setup(t)
	if w := env.do(t, http.MethodGet, "/health", "", ""); w.Code != http.StatusOK {
		t.Fatalf("health: %d", w.Code)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	env := setup(t)
	if w := env.do(t, http.MethodPost, "/login", `{"password":"nope"}`, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if w := env.do(t, http.MethodPost, "/login", `{}`, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestTriggerRunRequiresAdmin(t *testing.T) {
	env := setup(t)
	if w := env.do(t, http.MethodPost, "/runs", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: %d", w.Code)
	}
	if w := env.do(t, http.MethodPost, "/runs", "", "not-a-jwt"); w.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token: %d", w.Code)
	}
}

func TestTriggerRunAndRead(t *testing.T) {
	env := setup(t)

	if w := env.do(t, http.MethodGet, "/movers", "", ""); w.Code != http.StatusNotFound {
		t.Fatalf("movers before run: %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/workbook/whole", "", ""); w.Code != http.StatusNotFound {
		t.Fatalf("sheet before run: %d", w.Code)
	}

	token := env.login(t)
	w := env.do(t, http.MethodPost, "/runs", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("trigger: %d %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/movers", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("movers: %d", w.Code)
	}
	var movers struct {
		Source string `json:"source"`
		Result struct {
			Gainers []struct {
				Name string `json:"name"`
			} `json:"gainers"`
			Losers []struct {
				Name string `json:"name"`
			} `json:"losers"`
		} `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &movers); err != nil {
		t.Fatal(err)
	}
	if movers.Source != "memory" || len(movers.Result.Gainers) != 3 ||
		movers.Result.Gainers[0].Name != "Solana" || movers.Result.Losers[0].Name != "Ethereum" {
		t.Fatalf("movers: %s", w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/workbook/Whole%20Data", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("sheet: %d %s", w.Code, w.Body.String())
	}
	var sheet struct {
		Sheet string                   `json:"sheet"`
		Count int                      `json:"count"`
		Rows  []map[string]interface{} `json:"rows"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &sheet); err != nil {
		t.Fatal(err)
	}
	if sheet.Sheet != "Whole Data" || sheet.Count != 3 || sheet.Rows[0]["name"] != "Bitcoin" {
		t.Fatalf("sheet body: %s", w.Body.String())
	}

	if w := env.do(t, http.MethodGet, "/workbook/high", "", ""); w.Code != http.StatusOK {
		t.Fatalf("alias: %d", w.Code)
	}

	w = env.do(t, http.MethodGet, "/workbook", "", "")
	if w.Code != http.StatusOK || !bytes.HasPrefix(w.Body.Bytes(), []byte("PK")) {
		t.Fatalf("download: %d", w.Code)
	}

	w = env.do(t, http.MethodGet, "/runs", "", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"success"`) {
		t.Fatalf("runs: %d %s", w.Code, w.Body.String())
	}
}

func TestTriggerRunUpstreamFailure(t *testing.T) {
	env := setup(t)
	env.upstream.Store(http.StatusInternalServerError)

	token := env.login(t)
	if w := env.do(t, http.MethodPost, "/runs", "", token); w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/workbook", "", ""); w.Code != http.StatusNotFound {
		t.Fatalf("workbook must not exist: %d", w.Code)
	}
	w := env.do(t, http.MethodGet, "/runs", "", "")
	if !strings.Contains(w.Body.String(), `"status":"failed"`) {
		t.Fatalf("failed run not logged: %s", w.Body.String())
	}
}

func TestBadRequests(t *testing.T) {
	env := setup(t)
	if w := env.do(t, http.MethodGet, "/workbook/Sheet1", "", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown sheet: %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/runs?limit=-3", "", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad limit: %d", w.Code)
	}
}
