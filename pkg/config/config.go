package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	FirebaseProject string
	DatabaseURL     string
	StorageBucket   string
	FirebaseApiKey  string
	Environment     string
	WatchInterval   time.Duration
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		FirebaseProject: getEnv("FIREBASE_PROJECT_ID", ""),
		DatabaseURL:     getEnv("FIREBASE_DATABASE_URL", ""),
		StorageBucket:   getEnv("FIREBASE_STORAGE_BUCKET", ""),
		FirebaseApiKey:  getEnv("FIREBASE_WEB_API_KEY", ""),
		Environment:     getEnv("ENVIRONMENT", "development"),
		WatchInterval:   time.Duration(getEnvAsInt64("WATCH_INTERVAL_SECONDS", 2)) * time.Second,
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}
