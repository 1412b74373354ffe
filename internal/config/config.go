package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database   DatabaseConfig
	HTTP       HTTPConfig
	LLM        LLMConfig
	Governance GovernanceConfig
	NATS       NATSConfig
	Chat       ChatConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type HTTPConfig struct {
	Addr string
}

type LLMConfig struct {
	APIKey       string
	BaseURL      string
	Timeout      time.Duration
	DefaultModel string
	// Models переопределяет модель для отдельных компонентов (classifier, coder, ...)
	Models map[string]string
}

type GovernanceConfig struct {
	DeleteQuorum       string
	CompleteQuorum     string
	RemoveMemberQuorum string
	MaxRetries         int
	DefaultTaskDays    int
}

type NATSConfig struct {
	URL           string
	SubjectPrefix string
}

type ChatConfig struct {
	HistoryWindow int
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "collabquest"),
			Password: getEnv("DB_PASSWORD", "collabquest"),
			DBName:   getEnv("DB_NAME", "collabquest"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		HTTP: HTTPConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
		},
		LLM: LLMConfig{
			APIKey:       getEnv("GEMINI_API_KEY", ""),
			BaseURL:      getEnv("GEMINI_BASE_URL", ""),
			Timeout:      getDuration("LLM_TIMEOUT", 30*time.Second),
			DefaultModel: getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			Models:       modelsFromEnv(),
		},
		Governance: GovernanceConfig{
			DeleteQuorum:       getEnv("QUORUM_DELETE", "unanimous"),
			CompleteQuorum:     getEnv("QUORUM_COMPLETE", "majority"),
			RemoveMemberQuorum: getEnv("QUORUM_REMOVE_MEMBER", "majority"),
			MaxRetries:         getInt("GOVERNANCE_MAX_RETRIES", 3),
			DefaultTaskDays:    getInt("TASK_DEFAULT_DAYS", 3),
		},
		NATS: NATSConfig{
			URL:           getEnv("NATS_URL", ""),
			SubjectPrefix: getEnv("NATS_SUBJECT_PREFIX", "collabquest.notifications"),
		},
		Chat: ChatConfig{
			HistoryWindow: getInt("CHAT_HISTORY_WINDOW", 10),
		},
	}

	return cfg
}

// LoadModelsFile дополняет таблицу моделей из YAML файла вида
//
//	default: gemini-2.5-flash
//	models:
//	  coder: gemini-2.5-pro
func (c *Config) LoadModelsFile(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read models file: %w", err)
	}

	var file struct {
		Default string            `yaml:"default"`
		Models  map[string]string `yaml:"models"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse models file: %w", err)
	}

	if file.Default != "" {
		c.LLM.DefaultModel = file.Default
	}
	if c.LLM.Models == nil {
		c.LLM.Models = make(map[string]string)
	}
	for role, model := range file.Models {
		c.LLM.Models[strings.ToLower(role)] = model
	}
	return nil
}

// modelsFromEnv читает LLM_MODEL_<ROLE>, например LLM_MODEL_CODER
func modelsFromEnv() map[string]string {
	models := make(map[string]string)
	for _, role := range []string{"classifier", "resolver", "extractor", "planner", "coder", "searcher", "chatter"} {
		if v := os.Getenv("LLM_MODEL_" + strings.ToUpper(role)); v != "" {
			models[role] = v
		}
	}
	return models
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
