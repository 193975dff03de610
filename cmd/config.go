package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"agent-directory/internal/api"
	"agent-directory/internal/notifier"
	"agent-directory/internal/storage"
)

// AppConfig 应用配置，优先级：环境变量 > .env > YAML 文件 > 默认值。
type AppConfig struct {
	Server   ServerConfig         `yaml:"server"`
	Database storage.Config       `yaml:"database"`
	Auth     api.AuthConfig       `yaml:"auth"`
	CORS     CORSConfig           `yaml:"cors"`
	Email    notifier.EmailConfig `yaml:"email"`
	Log      LogConfig            `yaml:"log"`
}

// ServerConfig HTTP 服务配置。
type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"SERVER_ADDR"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
}

// CORSConfig 跨域来源白名单，为空时允许全部来源。
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// LogConfig 日志级别与输出格式（text 或 json）。
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

func defaultConfig() AppConfig {
	return AppConfig{
		Server:   ServerConfig{Addr: ":8080", ShutdownTimeout: 5 * time.Second},
		Database: storage.Config{Driver: "sqlite", Path: "data/agents.db"},
		Auth:     api.AuthConfig{AdminRole: "admin"},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// loadConfig 读取 YAML 配置（文件不存在时忽略），再叠加 .env 与环境变量。
func loadConfig(path string) (AppConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path == "" {
		path = "config.yaml"
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return AppConfig{}, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return AppConfig{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	for _, f := range []string{".env", ".env.local"} {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return AppConfig{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
