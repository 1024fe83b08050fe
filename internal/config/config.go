package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Ai      AIConfig
	Cad     CadConfig
	Storage StorageConfig
	Viewer  ViewerConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	StaticDir          string
}

type AIConfig struct {
	LLMProvider     string // "ollama" or "anthropic"
	LLMModel        string
	OllamaBaseURL   string
	AnthropicAPIKey string
}

type CadConfig struct {
	PythonBin      string
	ExecTimeoutSec int
	TessellatorBin string
}

type StorageConfig struct {
	StepDir string
}

type ViewerConfig struct {
	FrameRateHz int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "5000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:5000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			StaticDir:          getEnv("STATIC_DIR", "./web/static"),
		},
		Ai: AIConfig{
			LLMProvider:     getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:        getEnv("LLM_MODEL", "llama3.2"),
			OllamaBaseURL:   getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		},
		Cad: CadConfig{
			PythonBin:      getEnv("CADQUERY_PYTHON", "python3"),
			ExecTimeoutSec: getEnvAsInt("CADQUERY_TIMEOUT_SEC", 60),
			TessellatorBin: getEnv("STEP_TESSELLATOR", ""),
		},
		Storage: StorageConfig{
			StepDir: getEnv("STEP_DIR", filepath.Join(os.TempDir(), "text-to-cad-steps")),
		},
		Viewer: ViewerConfig{
			FrameRateHz: getEnvAsInt("VIEWER_FRAME_RATE_HZ", 60),
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
