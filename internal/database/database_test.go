package database

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/oranjParker/Sintillio/internal/config"
)

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	t.Run("Connects", func(t *testing.T) {
		client, err := NewRedisClient(context.Background(), config.RedisConfig{URL: "redis://" + mr.Addr(), PoolSize: 2})
		if err != nil {
			t.Fatalf("NewRedisClient failed: %v", err)
		}
		defer client.Close()

		if err := client.Set(context.Background(), "k", "v", 0).Err(); err != nil {
			t.Errorf("set failed: %v", err)
		}
	})

	t.Run("Bad URL", func(t *testing.T) {
		_, err := NewRedisClient(context.Background(), config.RedisConfig{URL: "http://nope"})
		if err == nil || !strings.Contains(err.Error(), "failed to parse redis url") {
			t.Errorf("expected parse error, got %v", err)
		}
	})
}

func TestNewPool_InvalidURL(t *testing.T) {
	_, err := NewPool(context.Background(), config.DatabaseConfig{URL: "invalid_url", MaxConns: 1, MinConns: 0})
	if err == nil {
		t.Error("expected error due to invalid database url, got nil")
	}
}

func TestNewQdrantClient_InvalidPort(t *testing.T) {
	_, err := NewQdrantClient(config.QdrantConfig{Addr: "localhost:abc"})
	if err == nil || !strings.Contains(err.Error(), "invalid qdrant port") {
		t.Errorf("expected port error, got %v", err)
	}
}
