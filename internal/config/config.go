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
	Ai       AIConfig
	Jobs     JobsConfig
	Client   ClientConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string // empty disables events
	RedisURL           string // empty selects the in-process memo
	OtelEnabled        bool
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	EmbeddingServiceURL string
	LLMProvider         string // "ollama", "openai", "anthropic"
	LLMModel            string
	OllamaBaseURL       string
	OpenAIKey           string
	OpenAIBaseURL       string
	AnthropicKey        string
	CategorizeCacheTTL  time.Duration
	CategorizeLimit     int // concurrent suggestions per batch
	LLMMaxTokens        int // response cap per suggestion, 0 leaves the provider default
}

type JobsConfig struct {
	AutoCategorizeTopic string
	AutoCategorizeCron  string // empty disables the schedule
}

type ClientConfig struct {
	APIURL string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			OtelEnabled:        getEnv("OTEL_ENABLED", "false") == "true",
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			EmbeddingServiceURL: getEnv("EMBEDDING_SERVICE_URL", "http://localhost:8000"),
			LLMProvider:         getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:            getEnv("LLM_MODEL", "llama3.1:8b-instruct-q3_K_S"),
			OllamaBaseURL:       getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OpenAIKey:           getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:       getEnv("OPENAI_BASE_URL", ""),
			AnthropicKey:        getEnv("ANTHROPIC_API_KEY", ""),
			CategorizeCacheTTL:  time.Duration(getEnvAsInt("CATEGORIZE_CACHE_TTL", 60)) * time.Minute,
			CategorizeLimit:     getEnvAsInt("CATEGORIZE_CONCURRENCY", 4),
			LLMMaxTokens:        getEnvAsInt("LLM_MAX_TOKENS", 32),
		},
		Jobs: JobsConfig{
			AutoCategorizeTopic: getEnv("AUTO_CATEGORIZE_TOPIC", "AUTO_CATEGORIZE_NOTES"),
			AutoCategorizeCron:  getEnv("AUTO_CATEGORIZE_CRON", ""),
		},
		Client: ClientConfig{
			APIURL: getEnv("NOTEALOG_API_URL", "http://localhost:3000/api"),
		},
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
