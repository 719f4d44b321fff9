package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Store   StoreConfig
	Ai      AIConfig
	Ambient AmbientConfig
	Ranking RankingConfig
	Otel    OtelConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	HistorySize        int
}

type StoreConfig struct {
	Backend    string // "csv" or "postgres"
	CSVPath    string
	Connection string
}

type AIConfig struct {
	LLMProvider   string // "ollama", "cli" or "huggingface"
	OllamaBaseURL string
	LLMModel      string
	VisionModel   string
	CLIBinary     string
	APIKey        string
	Timeout       time.Duration
}

type AmbientConfig struct {
	WeatherAPIKey string
	WeatherURL    string
	CountryCode   string
	GeoURL        string
	CacheTTL      time.Duration
}

type RankingConfig struct {
	MaxRows    int
	FitTimeout time.Duration
}

type OtelConfig struct {
	Enabled  bool
	Endpoint string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "5000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			HistorySize:        getEnvAsInt("EMOTION_HISTORY_SIZE", 10),
		},
		Store: StoreConfig{
			Backend:    getEnv("STORE_BACKEND", "csv"),
			CSVPath:    getEnv("SELECTION_LOG_PATH", "user_logs.csv"),
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "ollama"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMModel:      getEnv("LLM_MODEL", "llama2"),
			VisionModel:   getEnv("VISION_MODEL", "llava"),
			CLIBinary:     getEnv("LLM_CLI_BINARY", "ollama"),
			APIKey:        getEnv("LLM_API_KEY", ""),
			Timeout:       getEnvAsDuration("LLM_TIMEOUT", 30*time.Second),
		},
		Ambient: AmbientConfig{
			WeatherAPIKey: getEnv("OPENWEATHER_API_KEY", ""),
			WeatherURL:    getEnv("OPENWEATHER_URL", ""),
			CountryCode:   getEnv("HOLIDAY_COUNTRY", "US"),
			GeoURL:        getEnv("GEOLOCATION_URL", ""),
			CacheTTL:      getEnvAsDuration("AMBIENT_CACHE_TTL", 10*time.Minute),
		},
		Ranking: RankingConfig{
			MaxRows:    getEnvAsInt("RANKING_MAX_ROWS", 5000),
			FitTimeout: getEnvAsDuration("RANKING_FIT_TIMEOUT", 5*time.Second),
		},
		Otel: OtelConfig{
			Enabled:  getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
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

// getEnvAsDuration accepts Go durations ("5s") or a bare number of seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
