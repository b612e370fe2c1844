package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config is passed explicitly to the components that need it instead of each
// of them reading ambient environment state.
type Config struct {
	ServerPort      string
	TasksAPIBaseURL string
	JWTSecret       string
	LogFilePath     string
	AdminPassword   string
}

// Load reads .env when present and builds the configuration from the
// environment.
func Load() (*Config, error) {
	// .env is optional outside local development
	_ = godotenv.Load(".env")

	cfg := &Config{
		ServerPort:      os.Getenv("SERVER_PORT"),
		TasksAPIBaseURL: os.Getenv("TASKS_API_BASE_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		LogFilePath:     os.Getenv("LOG_FILE_PATH"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = "5000"
	}
	if cfg.TasksAPIBaseURL == "" {
		cfg.TasksAPIBaseURL = fmt.Sprintf("http://localhost:%s", cfg.ServerPort)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set in the environment variables")
	}
	if cfg.LogFilePath == "" {
		cfg.LogFilePath = "logs/taskmanager.log"
	}

	return cfg, nil
}
