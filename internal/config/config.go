// Package config содержит логику чтения конфигурации барбершоп-консоли.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// DefaultInsightAddress — адрес генеративного API по умолчанию.
const DefaultInsightAddress = "https://generativelanguage.googleapis.com"

// Config содержит параметры конфигурации барбершоп-консоли.
type Config struct {
	RunAddress     string `env:"RUN_ADDRESS"`
	DatabaseURI    string `env:"DATABASE_URI"`
	StorageFile    string `env:"STORAGE_FILE"`
	InsightAPIKey  string `env:"INSIGHT_API_KEY"`
	InsightAddress string `env:"INSIGHT_ADDRESS"`
	InsightModel   string `env:"INSIGHT_MODEL"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envStorageFile := cfg.StorageFile
	envInsightAPIKey := cfg.InsightAPIKey
	envInsightAddress := cfg.InsightAddress
	envInsightModel := cfg.InsightModel

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI for the postgres record store")
	flag.StringVar(&cfg.StorageFile, "f", "", "path to the file record store")
	flag.StringVar(&cfg.InsightAPIKey, "k", "", "API key for the text generation capability")
	flag.StringVar(&cfg.InsightAddress, "i", DefaultInsightAddress, "address of the text generation capability")
	flag.StringVar(&cfg.InsightModel, "m", "gemini-3-flash-preview", "model used for reminders and insights")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envStorageFile != "" {
		cfg.StorageFile = envStorageFile
	}
	if envInsightAPIKey != "" {
		cfg.InsightAPIKey = envInsightAPIKey
	}
	if envInsightAddress != "" {
		cfg.InsightAddress = envInsightAddress
	}
	if envInsightModel != "" {
		cfg.InsightModel = envInsightModel
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}

	return cfg, nil
}
