package config

import (
	"fmt"
	"os"
	"time"
)

const (
	defaultHTTPAddr            = ":8080"
	defaultGeminiModel         = "gemini-1.5-flash"
	defaultFirestoreCollection = "products"
	defaultSignedURLTTL        = time.Hour
	defaultShutdownTimeout     = 10 * time.Second
	defaultReadHeaderTimeout   = 5 * time.Second
)

type Config struct {
	// CredentialsJSON holds the service-account key material itself, not a
	// file path. GOOGLE_APPLICATION_CREDENTIALS carries the blob so the
	// service can run on platforms without a writable filesystem.
	CredentialsJSON     string
	ProjectID           string
	Bucket              string
	GeminiAPIKey        string
	GeminiModel         string
	FirestoreCollection string
	SignedURLTTL        time.Duration
	HTTPAddr            string
	RabbitMQURL         string
	ShutdownTimeout     time.Duration
	ReadHeaderTimeout   time.Duration
}

func Load() (Config, error) {
	cfg := Config{
		CredentialsJSON:     getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		ProjectID:           getEnv("GOOGLE_PROJECT_ID", ""),
		Bucket:              getEnv("GCS_BUCKET", ""),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		GeminiModel:         getEnv("GEMINI_MODEL", defaultGeminiModel),
		FirestoreCollection: getEnv("FIRESTORE_COLLECTION", defaultFirestoreCollection),
		SignedURLTTL:        defaultSignedURLTTL,
		HTTPAddr:            getEnv("HTTP_ADDR", defaultHTTPAddr),
		RabbitMQURL:         getEnv("RABBITMQ_URL", ""),
		ShutdownTimeout:     defaultShutdownTimeout,
		ReadHeaderTimeout:   defaultReadHeaderTimeout,
	}

	if raw := os.Getenv("SIGNED_URL_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("SIGNED_URL_TTL is not a duration: %w", err)
		}
		cfg.SignedURLTTL = ttl
	}

	if cfg.CredentialsJSON == "" {
		return Config{}, fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS is required")
	}
	if cfg.ProjectID == "" {
		return Config{}, fmt.Errorf("GOOGLE_PROJECT_ID is required")
	}
	if cfg.Bucket == "" {
		return Config{}, fmt.Errorf("GCS_BUCKET is required")
	}
	if cfg.GeminiAPIKey == "" {
		return Config{}, fmt.Errorf("GEMINI_API_KEY is required")
	}

	return cfg, nil
}

// Notifications is the configuration of the event-consumer binary.
type Notifications struct {
	RabbitMQURL     string
	ShutdownTimeout time.Duration
}

func LoadNotifications() (Notifications, error) {
	cfg := Notifications{
		RabbitMQURL:     getEnv("RABBITMQ_URL", ""),
		ShutdownTimeout: defaultShutdownTimeout,
	}

	if cfg.RabbitMQURL == "" {
		return Notifications{}, fmt.Errorf("RABBITMQ_URL is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
