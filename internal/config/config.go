package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppConfig содержит общую конфигурацию приложения
type AppConfig struct {
	Env      string `yaml:"env" validate:"required,oneof=local development production test"`
	LogLevel string `yaml:"logLevel" validate:"required,oneof=debug info warn error"`
}

// APIConfig содержит адрес сервиса обработки контента
type APIConfig struct {
	BaseURL string        `yaml:"baseURL" validate:"omitempty,url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
}

// StorageConfig содержит конфигурацию журнала попыток
type StorageConfig struct {
	Driver string `yaml:"driver" validate:"required,oneof=memory postgres"`
	DSN    string `yaml:"dsn" validate:"required_if=Driver postgres"`
}

// QuizConfig содержит настройки прохождения теста
type QuizConfig struct {
	TickInterval time.Duration `yaml:"tickInterval" validate:"gt=0"`
	ExportDir    string        `yaml:"exportDir" validate:"required"`
}

// EventsConfig содержит настройки публикации событий
type EventsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url" validate:"required_if=Enabled true"`
	Exchange string `yaml:"exchange" validate:"required_if=Enabled true"`
}

// Config - корневая структура конфигурации
type Config struct {
	App     AppConfig     `yaml:"app"`
	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	Quiz    QuizConfig    `yaml:"quiz"`
	Events  EventsConfig  `yaml:"events"`
}

// Переменные окружения, которые перекрывают значения из файла
const (
	EnvAPIURL      = "QUIZ_API_URL"
	EnvAPIToken    = "QUIZ_API_TOKEN"
	EnvDatabaseDSN = "QUIZ_DATABASE_DSN"
	EnvAMQPURL     = "QUIZ_AMQP_URL"
	EnvLogLevel    = "QUIZ_LOG_LEVEL"
)

// Default возвращает конфигурацию по умолчанию.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Env:      "local",
			LogLevel: "info",
		},
		API: APIConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Driver: "memory",
		},
		Quiz: QuizConfig{
			TickInterval: time.Second,
			ExportDir:    ".",
		},
		Events: EventsConfig{
			Exchange: "quiz.events",
		},
	}
}

// Load загружает конфигурацию: значения по умолчанию, затем YAML файл path
// (если задан), затем переменные окружения и .env файлы envFiles.
// Без envFiles читается .env из текущего каталога, если он есть.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err = yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(envFiles...); err != nil && len(envFiles) > 0 {
		return nil, fmt.Errorf("failed to load env files: %w", err)
	}

	applyEnv(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	override(&cfg.API.BaseURL, EnvAPIURL)
	override(&cfg.API.Token, EnvAPIToken)
	override(&cfg.App.LogLevel, EnvLogLevel)

	if dsn := os.Getenv(EnvDatabaseDSN); dsn != "" {
		cfg.Storage.DSN = dsn
		cfg.Storage.Driver = "postgres"
	}

	if url := os.Getenv(EnvAMQPURL); url != "" {
		cfg.Events.URL = url
		cfg.Events.Enabled = true
	}
}

func override(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

// Validate проверяет конфигурацию по тегам validate.
func Validate(cfg *Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}

	var invalidValidationError *validator.InvalidValidationError
	if errors.As(err, &invalidValidationError) {
		return fmt.Errorf("config validator failed: %w", err)
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages,
			fmt.Sprintf("field '%s' failed on '%s' (value: '%v')", fe.Namespace(), fe.Tag(), fe.Value()))
	}

	return fmt.Errorf("invalid config:\n- %s", strings.Join(messages, "\n- "))
}
