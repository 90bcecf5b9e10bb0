package database

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ruralpay/ledger/internal/logger"
	"github.com/spf13/viper"
)

// InitRedis connects to Redis. It returns nil when the server cannot be reached; callers
// treat a nil client as "run without Redis".
func InitRedis(ctx context.Context, log *logger.Logger) *redis.Client {
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", "6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     viper.GetString("redis.host") + ":" + viper.GetString("redis.port"),
		Password: viper.GetString("redis.password"),
		DB:       viper.GetInt("redis.db"),
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("[REDIS] connection failed, continuing without Redis", "error", err)
		rdb.Close()
		return nil
	}

	log.Info("[REDIS] connection established", "addr", rdb.Options().Addr)
	return rdb
}
