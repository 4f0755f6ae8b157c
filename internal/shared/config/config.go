package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	LogLevel        string
	CORSAllowOrigin []string

	// Blob storage.
	ObjectStoreType string
	GCSBucket       string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	ObjectPrefix    string
	MaxUploadBytes  int64

	// Document database.
	DatabaseType string
	DatabaseURL  string

	// Google Cloud / Firebase.
	GCPProjectID        string
	FirebaseCredentials string
	DocumentAILocation  string
	DocumentAIProcessor string

	OCRProvider  string
	LLMProvider  string
	GeminiAPIKey string
	GeminiModel  string

	AuthProvider string
	JWTSecret    string

	// Requests per minute allowed on AI routes, per user.
	AIRateLimitPerMinute int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", getEnv("NODE_ENV", "dev")))
	dbType := normalizeDatabaseType(getEnv("DATABASE", "memory"))

	cfg := Config{
		Port:                 getEnv("PORT", "8080"),
		Env:                  env,
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		CORSAllowOrigin:      splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		ObjectStoreType:      normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		GCSBucket:            getEnv("GCS_BUCKET_NAME", ""),
		LocalStoreDir:        getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:            getEnv("AWS_REGION", ""),
		S3Bucket:             getEnv("S3_BUCKET", ""),
		ObjectPrefix:         getEnv("OBJECT_PREFIX", ""),
		MaxUploadBytes:       getEnvInt64("MAX_UPLOAD_BYTES", 50<<20),
		DatabaseType:         dbType,
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		GCPProjectID:         getEnv("GOOGLE_CLOUD_PROJECT", getEnv("GCP_PROJECT_ID", "")),
		FirebaseCredentials:  getEnv("FIREBASE_CREDENTIALS", ""),
		DocumentAILocation:   getEnv("DOCUMENTAI_LOCATION", "us"),
		DocumentAIProcessor:  getEnv("DOCUMENTAI_PROCESSOR_ID", ""),
		OCRProvider:          normalizeOCRProvider(getEnv("OCR_PROVIDER", "local")),
		LLMProvider:          strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", "gemini"))),
		GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		AuthProvider:         normalizeAuthProvider(getEnv("AUTH_PROVIDER", "jwt")),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		AIRateLimitPerMinute: int(getEnvInt64("AI_RATE_LIMIT_PER_MINUTE", 30)),
	}

	if env == "production" && cfg.AuthProvider != "firebase" {
		log.Printf("AUTH_PROVIDER=%s in production; firebase is expected", cfg.AuthProvider)
	}

	return cfg
}

// IsProduction reports whether the service runs in production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// IsDevLike reports whether in-memory fallbacks and error details in
// responses are acceptable.
func (c Config) IsDevLike() bool {
	switch c.Env {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid int %q, using %d", key, raw, def)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "gcs", "gs":
		return "gcs"
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeDatabaseType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "firestore":
		return "firestore"
	case "postgres", "pg", "postgresql":
		return "postgres"
	default:
		return "memory"
	}
}

func normalizeOCRProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "documentai", "docai":
		return "documentai"
	default:
		return "local"
	}
}

func normalizeAuthProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "firebase":
		return "firebase"
	default:
		return "jwt"
	}
}
