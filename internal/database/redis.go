package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis conecta con Redis. Devuelve nil sin error si addr está vacío.
func NewRedis(addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		log.Println("REDIS_ADDR no configurado, caché de resultados deshabilitada")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("no se pudo conectar a Redis en %s: %w", addr, err)
	}

	log.Printf("Redis conectado en %s (DB: %d)", addr, db)
	return client, nil
}
