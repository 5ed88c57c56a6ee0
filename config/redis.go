package config

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient backs the department cache, the message stream and the
// department event channels.
var RedisClient *redis.Client

func InitRedis() error {
	opt, err := redisOptions(
		firstEnv("REDIS_ADDR", "REDIS_URI", "REDIS_URL"),
		os.Getenv("REDIS_PASSWORD"),
		os.Getenv("REDIS_DB"),
	)
	if err != nil {
		return err
	}
	RedisClient = redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return RedisClient.Ping(ctx).Err()
}

func redisOptions(addr, password, db string) (*redis.Options, error) {
	if addr == "" {
		return nil, errors.New("REDIS_ADDR (or REDIS_URI/REDIS_URL) environment variable is not set")
	}

	var opt *redis.Options
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, err
		}
		opt = parsed
	} else {
		opt = &redis.Options{Addr: addr}
	}

	if password != "" {
		opt.Password = password
	}
	if db != "" {
		n, err := strconv.Atoi(db)
		if err != nil || n < 0 {
			return nil, errors.New("REDIS_DB must be a non-negative integer")
		}
		opt.DB = n
	}
	return opt, nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
