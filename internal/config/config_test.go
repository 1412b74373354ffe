package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("LLM_TIMEOUT", "")
	t.Setenv("QUORUM_DELETE", "")
	t.Setenv("TASK_DEFAULT_DAYS", "")

	cfg := Load()

	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.DefaultModel)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "unanimous", cfg.Governance.DeleteQuorum)
	assert.Equal(t, 3, cfg.Governance.DefaultTaskDays)
	assert.Equal(t, 10, cfg.Chat.HistoryWindow)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("LLM_MODEL_CODER", "gemini-2.5-pro")
	t.Setenv("GOVERNANCE_MAX_RETRIES", "7")
	t.Setenv("CHAT_HISTORY_WINDOW", "not-a-number")

	cfg := Load()

	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Models["coder"])
	assert.Equal(t, 7, cfg.Governance.MaxRetries)
	assert.Equal(t, 10, cfg.Chat.HistoryWindow, "некорректное значение заменяется значением по умолчанию")
}

func TestConfig_LoadModelsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default: gemini-2.0-flash\nmodels:\n  Coder: gemini-2.5-pro\n  planner: gemini-2.5-pro\n"), 0o600))

	cfg := &Config{}
	require.NoError(t, cfg.LoadModelsFile(path))

	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.DefaultModel)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Models["coder"])
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Models["planner"])

	assert.NoError(t, cfg.LoadModelsFile(""))
	assert.Error(t, cfg.LoadModelsFile(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "h", Port: "1", User: "u", Password: "p", DBName: "d", SSLMode: "disable"}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=d sslmode=disable", c.DSN())
}
