package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("SESSION_STORE", "")
	t.Setenv("TICKET_TTL_MINUTES", "")

	cfg := Load()
	if cfg.ServerPort != "8080" {
		t.Errorf("port = %s", cfg.ServerPort)
	}
	if cfg.SessionStore != SessionStoreMemory {
		t.Errorf("store = %s", cfg.SessionStore)
	}
	if cfg.TicketTTL != time.Hour {
		t.Errorf("ticket ttl = %v", cfg.TicketTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("RANDOM_SEED", "42")
	t.Setenv("SESSION_TTL_MINUTES", "not-a-number")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")

	cfg := Load()
	if cfg.SessionStore != SessionStoreRedis {
		t.Errorf("store = %s", cfg.SessionStore)
	}
	if cfg.RandomSeed != 42 {
		t.Errorf("seed = %d", cfg.RandomSeed)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("invalid ttl should fall back, got %v", cfg.SessionTTL)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Errorf("origins = %v", cfg.AllowedOrigins)
	}
}

func TestQuizSessionKey(t *testing.T) {
	if got := CacheKey.QuizSessionKey("abc"); got != "quiz:session:abc" {
		t.Errorf("key = %s", got)
	}
}
