package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Keys     APIKeys
	Ai       AIConfig
	Limits   LimitsConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	AuditLogFilePath   string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	IndexTopic         string
	SessionTTL         time.Duration
	OtelEnabled        bool
	OtelEndpoint       string
}

type DatabaseConfig struct {
	Connection string
}

type StorageConfig struct {
	Provider        string // "gcs" or "local"
	Bucket          string
	CredentialsFile string
	LocalDir        string
	SigningSecret   string
}

type APIKeys struct {
	GoogleGemini string
	OpenAI       string
	HuggingFace  string
	Jina         string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini", "ollama" or "jina"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "gemini", "openai", "huggingface" or "ollama"
	LLMModel          string
	LLMBaseURL        string
	TokenizerProvider string // "gemini" or "tiktoken"
	TokenizerEncoding string
	MaxContextTokens  int
	RetrievalTopK     int
	OCRLanguage       string
	OCREnabled        bool
}

type LimitsConfig struct {
	MaxUploadPages        int
	GenerationConcurrency int
	IndexConcurrency      int
	DocumentCacheTTL      time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			AuditLogFilePath:   getEnv("AUDIT_LOG_FILE_PATH", "logs/events.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3001"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			IndexTopic:         getEnv("INDEX_DOCUMENT_TOPIC_NAME", "INDEX_DOCUMENT"),
			SessionTTL:         getEnvAsDuration("SESSION_TTL", 2*time.Hour),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Storage: StorageConfig{
			Provider:        getEnv("STORAGE_PROVIDER", "local"),
			Bucket:          getEnv("STORAGE_BUCKET", ""),
			CredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
			LocalDir:        getEnv("STORAGE_LOCAL_DIR", "data/uploads"),
			SigningSecret:   getEnv("STORAGE_SIGNING_SECRET", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
			Jina:         getEnv("JINA_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:          getEnv("LLM_MODEL", "gemini-1.5-flash"),
			LLMBaseURL:        getEnv("LLM_BASE_URL", ""),
			TokenizerProvider: getEnv("TOKENIZER_PROVIDER", "gemini"),
			TokenizerEncoding: getEnv("TOKENIZER_ENCODING", "cl100k_base"),
			MaxContextTokens:  getEnvAsInt("LLM_MAX_CONTEXT_TOKENS", 1_048_576),
			RetrievalTopK:     getEnvAsInt("RETRIEVAL_TOP_K", 3),
			OCRLanguage:       getEnv("OCR_LANGUAGE", "eng"),
			OCREnabled:        getEnvAsBool("OCR_ENABLED", true),
		},
		Limits: LimitsConfig{
			MaxUploadPages:        getEnvAsInt("MAX_UPLOAD_PAGES", 75),
			GenerationConcurrency: getEnvAsInt("GENERATION_CONCURRENCY", 1),
			IndexConcurrency:      getEnvAsInt("INDEX_CONCURRENCY", 4),
			DocumentCacheTTL:      getEnvAsDuration("DOCUMENT_CACHE_TTL", 24*time.Hour),
		},
	}
}

// LLMAPIKey picks the credential matching the configured chat provider.
func (c *Config) LLMAPIKey() string {
	switch c.Ai.LLMProvider {
	case "openai":
		return c.Keys.OpenAI
	case "huggingface":
		return c.Keys.HuggingFace
	default:
		return c.Keys.GoogleGemini
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
