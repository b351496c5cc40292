package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const connectTimeout = 5 * time.Second

type Redis interface {
	Client() *goredis.Client
	Ping(ctx context.Context) error
	Close() error
}

type Config struct {
	Host     string
	Port     uint16
	Password string
	DB       int
}

type redis struct {
	client *goredis.Client
}

func New(cfg *Config) (Redis, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &redis{client: client}, nil
}

func (r *redis) Client() *goredis.Client {
	return r.client
}

func (r *redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redis) Close() error {
	return r.client.Close()
}
