package cache

import (
	"os"
	"sync"

	"github.com/redis/go-redis/v9"
	"vericlass.io/infrastructure/logger"
)

type RedisInstance struct {
	Client *redis.Client
}

var (
	instance RedisInstance
	once     sync.Once
)

func ConnectToCache() {
	GetInstance()
}

func GetInstance() (*RedisInstance, error) {
	once.Do(func() {
		opt := &redis.Options{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
			PoolSize: 10,
		}
		instance.Client = redis.NewClient(opt)
		logger.Info("connected to redis successfully")
	})
	return &instance, nil
}
