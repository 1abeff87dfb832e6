// Package store holds the FeedbackStore backends. The backend is chosen once
// at startup by Open; nothing downstream knows which one is active.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Harshitk-cp/ratelens/internal/config"
	"github.com/Harshitk-cp/ratelens/internal/domain"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

var ErrUnknownBackend = errors.New("unknown store backend")

type Options struct {
	Backend     string
	FilePath    string
	RedisURL    string
	RedisKey    string
	DatabaseURL string
	SQLitePath  string
}

// Open connects the configured backend and verifies it is reachable.
func Open(ctx context.Context, opts Options) (domain.FeedbackStore, error) {
	var (
		s   domain.FeedbackStore
		err error
	)

	switch opts.Backend {
	case BackendFile:
		s, err = NewFileFeedbackStore(opts.FilePath)
	case BackendRedis:
		s, err = openRedis(opts.RedisURL, opts.RedisKey)
	case BackendPostgres:
		s, err = openPostgres(ctx, opts.DatabaseURL)
	case BackendSQLite:
		s, err = NewSQLiteFeedbackStore(ctx, opts.SQLitePath)
	default:
		return nil, fmt.Errorf("%w: %q (valid options: file, redis, postgres, sqlite)", ErrUnknownBackend, opts.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", opts.Backend, err)
	}

	if err := s.Ping(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("ping %s store: %w", opts.Backend, err)
	}
	return s, nil
}

func openRedis(addr, key string) (*RedisFeedbackStore, error) {
	var opts *redis.Options
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}
	return NewRedisFeedbackStore(redis.NewClient(opts), key), nil
}

func openPostgres(ctx context.Context, dbURL string) (*PostgresFeedbackStore, error) {
	if dbURL == "" {
		return nil, errors.New("DATABASE_URL is required for the postgres backend")
	}
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}
	s := NewPostgresFeedbackStore(pool)
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// ConfigOptions reads the store settings from the environment.
func ConfigOptions() Options {
	return Options{
		Backend:     config.StoreBackend(),
		FilePath:    config.FeedbackFile(),
		RedisURL:    config.RedisURL(),
		RedisKey:    config.RedisKey(),
		DatabaseURL: config.DatabaseURL(),
		SQLitePath:  config.SQLitePath(),
	}
}
