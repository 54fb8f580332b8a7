package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration.
type Config struct {
	Port     int
	MongoURI string
	MongoDB  string
	JWTKey   string
	Debug    bool
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() *Config {
	port, _ := strconv.Atoi(getEnv("PORT", "8080"))
	return &Config{
		Port:     port,
		MongoURI: getEnv("MONGO_URI", "mongodb://127.0.0.1:27017/pipeline"),
		MongoDB:  getEnv("MONGO_DB", "pipeline"),
		JWTKey:   getEnv("JWT_KEY", "your-secret-key"), // replace in production
		Debug:    getEnv("GIN_MODE", "debug") == "debug",
	}
}

// getEnv returns the environment variable or a default.
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
