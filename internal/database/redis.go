package database

import (
	"context"
	"log/slog"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"
)

// InitRedis connects to Redis for the OTP and session tables. It returns nil
// when Redis is unreachable so the caller can fall back to in-memory tables.
func InitRedis(ctx context.Context) *redis.Client {
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", "6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	addr := viper.GetString("redis.host") + ":" + viper.GetString("redis.port")
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: viper.GetString("redis.password"),
		DB:       viper.GetInt("redis.db"),
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("Redis connection failed, continuing with in-memory tables", "addr", addr, "error", err)
		rdb.Close()
		return nil
	}

	slog.Info("Redis connection established", "addr", addr)
	return rdb
}
