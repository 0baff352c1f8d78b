package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	BaseURL        string // Public base URL used to build short links and upload URLs
	DatabasePath   string // SQLite database file
	UploadDir      string // Directory holding uploaded and composed images
	MaxUploadBytes int64  // Per-request multipart body limit
	FBAPIVersion   string // Facebook Graph API version for CTA posts
}

func Load() *Config {
	// Try to load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		BaseURL:        getEnv("BASE_URL", "http://localhost:8080"),
		DatabasePath:   getEnv("DATABASE_PATH", "linkcard.db"),
		UploadDir:      getEnv("UPLOAD_DIR", "static/uploads"),
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 2*1024*1024),
		FBAPIVersion:   getEnv("FB_API_VERSION", "v18.0"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
