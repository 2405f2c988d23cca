package config

import (
	"os"
	"time"
)

type Config struct {
	HTTPPort        string
	RedisAddr       string
	RedisPassword   string
	StockServiceURL string
	OrderServiceURL string
	ClientTimeout   time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func Load() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8081"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		StockServiceURL: getEnv("STOCK_CHECK_SERVICE_URL", "http://stock-check-service.cloudshelf.svc.cluster.local:8083"),
		OrderServiceURL: getEnv("ORDER_SERVICE_URL", "http://order-service.cloudshelf.svc.cluster.local:8082"),
		ClientTimeout:   getEnvDuration("CLIENT_TIMEOUT", 10*time.Second),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
