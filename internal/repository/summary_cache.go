package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AgusMolinaCode/CryptoMovers_Api.git/internal/models"
	"github.com/redis/go-redis/v9"
)

const latestMoversKey = "crypto:movers:latest"

// ErrCacheMiss indica que no hay resultado guardado en la caché
var ErrCacheMiss = errors.New("cache miss")

// SummaryCache guarda en Redis el resultado de la última corrida exitosa.
// Con cliente nil todas las operaciones son no-op.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSummaryCache(client *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

func (c *SummaryCache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *SummaryCache) Store(ctx context.Context, result *models.RunResult) error {
	if !c.Enabled() {
		return nil
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("error serializando resultado: %w", err)
	}
	return c.client.Set(ctx, latestMoversKey, payload, c.ttl).Err()
}

func (c *SummaryCache) Latest(ctx context.Context) (*models.RunResult, error) {
	if !c.Enabled() {
		return nil, ErrCacheMiss
	}
	payload, err := c.client.Get(ctx, latestMoversKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var result models.RunResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("error decodificando resultado en caché: %w", err)
	}
	return &result, nil
}
