package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/AgusMolinaCode/CryptoMovers_Api.git/internal/models"
	"github.com/google/uuid"
)

// ErrRunInProgress se devuelve cuando ya hay una corrida en curso
var ErrRunInProgress = errors.New("a market run is already in progress")

// MarketFetcher define cómo se obtiene el snapshot
type MarketFetcher interface {
	FetchMarkets(ctx context.Context, currency string, perPage int) (models.MarketSnapshot, error)
}

// WorkbookWriter define las operaciones que necesitamos del libro
type WorkbookWriter interface {
	Append(rows, gainers, losers []models.MarketRow) error
	Path() string
}

// RunRecorder registra cada corrida en la base
type RunRecorder interface {
	Save(run *models.MarketRun) error
}

// ResultCache guarda el último resultado exitoso
type ResultCache interface {
	Store(ctx context.Context, result *models.RunResult) error
}

// MarketUpdater ejecuta el pipeline fetch -> proyección -> ranking -> libro periódicamente
type MarketUpdater struct {
	interval time.Duration
	currency string
	perPage  int

	fetcher  MarketFetcher
	workbook WorkbookWriter
	runs     RunRecorder
	cache    ResultCache
	notify   func(*models.RunResult)
	now      func() time.Time

	runMu sync.Mutex

	mutex       sync.Mutex
	isRunning   bool
	stopChan    chan struct{}
	done        chan struct{}
	lastUpdated time.Time
	lastResult  *models.RunResult
}

// NewMarketUpdater crea el servicio. runs, cache y notify pueden ser nil.
func NewMarketUpdater(interval time.Duration, currency string, perPage int, fetcher MarketFetcher, workbook WorkbookWriter, runs RunRecorder, cache ResultCache, notify func(*models.RunResult)) *MarketUpdater {
	return &MarketUpdater{
		interval: interval,
		currency: currency,
		perPage:  perPage,
		fetcher:  fetcher,
		workbook: workbook,
		runs:     runs,
		cache:    cache,
		notify:   notify,
		now:      time.Now,
	}
}

// RunOnce ejecuta una corrida completa. Si el fetch falla el libro no se toca.
func (p *MarketUpdater) RunOnce(ctx context.Context) (*models.RunResult, error) {
	if !p.runMu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer p.runMu.Unlock()

	run := &models.MarketRun{
		ID:           uuid.NewString(),
		StartedAt:    p.now(),
		Currency:     p.currency,
		PerPage:      p.perPage,
		WorkbookPath: p.workbook.Path(),
	}

	snapshot, err := p.fetcher.FetchMarkets(ctx, p.currency, p.perPage)
	if err != nil {
		p.recordFailure(run, err)
		return nil, err
	}

	rows := ProjectMarkets(snapshot, p.now())
	gainers, losers := TopMovers(rows)

	if err := p.workbook.Append(rows, gainers, losers); err != nil {
		err = fmt.Errorf("error al guardar el libro: %w", err)
		p.recordFailure(run, err)
		return nil, err
	}

	run.FinishedAt = p.now()
	run.Status = models.RunStatusSuccess
	run.CoinCount = len(rows)
	run.GainersCount = len(gainers)
	run.LosersCount = len(losers)
	p.record(run)

	result := &models.RunResult{
		ID:           run.ID,
		StartedAt:    run.StartedAt,
		FinishedAt:   run.FinishedAt,
		Currency:     run.Currency,
		PerPage:      run.PerPage,
		CoinCount:    run.CoinCount,
		WorkbookPath: run.WorkbookPath,
		Gainers:      gainers,
		Losers:       losers,
	}

	if p.cache != nil {
		if err := p.cache.Store(ctx, result); err != nil {
			log.Printf("Error al guardar resultado en caché: %v", err)
		}
	}

	p.mutex.Lock()
	p.lastResult = result
	p.lastUpdated = run.FinishedAt
	p.mutex.Unlock()

	if p.notify != nil {
		p.notify(result)
	}

	log.Printf("Corrida %s completada: %d monedas, %d ganadores, %d perdedores", run.ID, run.CoinCount, run.GainersCount, run.LosersCount)
	return result, nil
}

func (p *MarketUpdater) recordFailure(run *models.MarketRun, err error) {
	run.FinishedAt = p.now()
	run.Status = models.RunStatusFailed
	run.Error = err.Error()
	p.record(run)
	log.Printf("Corrida %s fallida: %v", run.ID, err)
}

// record nunca hace fallar la corrida
func (p *MarketUpdater) record(run *models.MarketRun) {
	if p.runs == nil {
		return
	}
	if err := p.runs.Save(run); err != nil {
		log.Printf("Error al registrar corrida %s: %v", run.ID, err)
	}
}

// Start inicia el servicio de actualización periódica
func (p *MarketUpdater) Start() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.isRunning || p.interval <= 0 {
		return
	}

	p.isRunning = true
	p.stopChan = make(chan struct{})
	p.done = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	go func(stop <-chan struct{}, done chan<- struct{}) {
		defer close(done)
		defer cancel()
		go func() {
			<-stop
			cancel()
		}()

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		// Actualizar inmediatamente al iniciar
		p.runScheduled(ctx)

		for {
			select {
			case <-ticker.C:
				p.runScheduled(ctx)
			case <-stop:
				return
			}
		}
	}(p.stopChan, p.done)

	log.Printf("Servicio de actualización de mercado iniciado con intervalo de %v", p.interval)
}

func (p *MarketUpdater) runScheduled(ctx context.Context) {
	if _, err := p.RunOnce(ctx); err != nil && !errors.Is(err, ErrRunInProgress) {
		log.Printf("La corrida programada no se completó: %v", err)
	}
}

// Stop detiene el servicio y espera a que termine la corrida en curso
func (p *MarketUpdater) Stop() {
	p.mutex.Lock()
	if !p.isRunning {
		p.mutex.Unlock()
		return
	}
	p.isRunning = false
	close(p.stopChan)
	done := p.done
	p.mutex.Unlock()

	<-done
	log.Printf("Servicio de actualización de mercado detenido")
}

// LastResult devuelve el resultado de la última corrida exitosa
func (p *MarketUpdater) LastResult() (*models.RunResult, bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.lastResult, p.lastResult != nil
}

// GetLastUpdated obtiene la última vez que se completó una corrida
func (p *MarketUpdater) GetLastUpdated() time.Time {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.lastUpdated
}
