package config

import (
	"os"
	"time"
)

// Storage backends the server can run against.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Server captures process-level configuration.
type Server struct {
	Addr            string
	PostgresURL     string
	RedisURL        string
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("UNIVOTE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	return Server{
		Addr:            addr,
		PostgresURL:     os.Getenv("UNIVOTE_POSTGRES_URL"),
		RedisURL:        os.Getenv("UNIVOTE_REDIS_URL"),
		ShutdownTimeout: durationEnv("UNIVOTE_SHUTDOWN_TIMEOUT", 10*time.Second),
		RequestTimeout:  durationEnv("UNIVOTE_REQUEST_TIMEOUT", 30*time.Second),
	}
}

// Backend selects the document-store backend: postgres when a postgres URL is
// configured, redis when only a redis URL is configured, memory otherwise.
func (s Server) Backend() string {
	switch {
	case s.PostgresURL != "":
		return BackendPostgres
	case s.RedisURL != "":
		return BackendRedis
	default:
		return BackendMemory
	}
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
