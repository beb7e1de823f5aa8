package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Address       string
	Port          int
	BaseURL       string
	PublicURLBase string
	LogLevel      string

	StorageDriver string
	StoragePath   string
	PostgresDSN   string
	MongoURI      string
	MongoDB       string

	JWTSecret    string
	SessionTTL   time.Duration
	SyncInterval time.Duration
	AdminUser    string
	AdminPass    string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	portStr := getEnv("PORT", "7000")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, errors.New("invalid PORT value")
	}

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return nil, errors.New("invalid SESSION_TTL value")
	}

	syncInterval, err := time.ParseDuration(getEnv("SYNC_INTERVAL", "2s"))
	if err != nil || syncInterval <= 0 {
		return nil, errors.New("invalid SYNC_INTERVAL value")
	}

	cfg := &Config{
		Address:       getEnv("ADDRESS", "0.0.0.0"),
		Port:          port,
		BaseURL:       getEnv("BASE_URL", "http://localhost:"+portStr),
		PublicURLBase: getEnv("PUBLIC_URL_BASE", "https://horizon.bank"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		StorageDriver: getEnv("STORAGE_DRIVER", "file"),
		StoragePath:   getEnv("STORAGE_PATH", "data/horizon.json"),
		PostgresDSN:   getEnv("POSTGRES_DSN", "host=localhost port=5432 user=horizon password=horizon dbname=horizon sslmode=disable"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "horizon"),

		JWTSecret:    getEnv("JWT_SECRET", "default_jwt_secret"),
		SessionTTL:   sessionTTL,
		SyncInterval: syncInterval,
		AdminUser:    getEnv("ADMIN_USER", "admin"),
		AdminPass:    getEnv("ADMIN_PASS", "admin"),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SenderEmail:  getEnv("SENDER_EMAIL", "no-reply@horizon.bank"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

// SMTPEnabled reports whether transfer notifications can be emailed.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Address, c.Port)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
