package store

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strings"

	"CollectPortal/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Options selects and configures a KV backend.
type Options struct {
	Backend       string // memory, file, postgres or redis
	Dir           string
	PostgresDSN   string
	Table         string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// OptionsFromEnv reads backend settings from the process environment.
func OptionsFromEnv() Options {
	opts := Options{
		Backend:       strings.ToLower(strings.TrimSpace(os.Getenv("STORE_BACKEND"))),
		Dir:           os.Getenv("STORE_DIR"),
		Table:         os.Getenv("STORE_TABLE"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisPrefix:   os.Getenv("REDIS_PREFIX"),
	}
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASSWORD")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	name := os.Getenv("DB_NAME")
	if user != "" && host != "" && port != "" && name != "" {
		dsn := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(user, pass),
			Host:     net.JoinHostPort(host, port),
			Path:     "/" + name,
			RawQuery: "sslmode=disable",
		}
		opts.PostgresDSN = dsn.String()
	}
	return opts
}

// OpenKV connects the configured backend. The returned close function
// releases any connection pool and is never nil.
func OpenKV(ctx context.Context, opts Options) (KV, func(), error) {
	noop := func() {}
	backend := opts.Backend
	if backend == "" {
		backend = config.DefaultStoreBackend
	}
	switch backend {
	case "memory":
		return NewMemoryKV(), noop, nil
	case "file":
		dir := opts.Dir
		if dir == "" {
			dir = config.DefaultStoreDir
		}
		kv, err := NewFileKV(dir)
		if err != nil {
			return nil, noop, err
		}
		return kv, noop, nil
	case "postgres":
		if opts.PostgresDSN == "" {
			return nil, noop, fmt.Errorf("postgres backend needs DB_USER, DB_HOST, DB_PORT and DB_NAME")
		}
		pool, err := pgxpool.New(ctx, opts.PostgresDSN)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to pgxpool DB: %w", err)
		}
		table := opts.Table
		if table == "" {
			table = config.DefaultKVTable
		}
		kv := NewPostgresKV(pool, table)
		if err := kv.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, noop, err
		}
		return kv, pool.Close, nil
	case "redis":
		if opts.RedisAddr == "" {
			return nil, noop, fmt.Errorf("redis backend needs REDIS_ADDR")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("redis ping %s: %w", opts.RedisAddr, err)
		}
		return NewRedisKV(client, opts.RedisPrefix), func() {
			if err := client.Close(); err != nil {
				log.Printf("[WARN] store: closing redis client: %v", err)
			}
		}, nil
	}
	return nil, noop, fmt.Errorf("unknown store backend %q", backend)
}
