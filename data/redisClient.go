package data

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KotFed0t/finance_tracker/config"
	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

const redisPingTimeout = 3 * time.Second

func NewRedisClient(cfg *config.Config) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	var pong string
	ping := func() (err error) {
		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()

		pong, err = rdb.Ping(ctx).Result()
		if err != nil {
			slog.Info("Redis is trying to connect", slog.String("err", err.Error()))
		}
		return err
	}

	err := backoff.Retry(ping, backoff.WithMaxRetries(backoff.NewConstantBackOff(connTimeout), 3))
	if err != nil {
		slog.Error("Error while connecting Redis", slog.String("error", err.Error()))
		panic(err)
	}
	slog.Info("Redis connected", slog.String("pong", pong), slog.String("addr", rdb.Options().Addr))

	return rdb
}
