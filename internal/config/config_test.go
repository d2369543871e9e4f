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
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "sql", cfg.KVBackend)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, "gemini-1.5-flash", cfg.LLMModel())
	assert.Equal(t, 2*time.Second, cfg.GenerateCooldown)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, "contenta", cfg.ExportPrefix)
	assert.Equal(t, 30, cfg.AILogRetentionDays)
	assert.Equal(t, "0 * * * * *", cfg.SweepSpec)
	assert.Zero(t, cfg.MemoryKVTTL)
	assert.Empty(t, cfg.JWTSecret)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "LLM_PROVIDER=openai\nOPENAI_API_KEY=sk-test\nKV_BACKEND=Redis\nGENERATE_COOLDOWN=5s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	for _, k := range []string{"LLM_PROVIDER", "OPENAI_API_KEY", "KV_BACKEND", "GENERATE_COOLDOWN"} {
		k := k
		t.Cleanup(func() { os.Unsetenv(k) })
	}

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, "sk-test", cfg.LLMAPIKey())
	assert.Equal(t, "gpt-4o-mini", cfg.LLMModel())
	assert.Equal(t, "redis", cfg.KVBackend)
	assert.Equal(t, 5*time.Second, cfg.GenerateCooldown)
}

func TestValidate(t *testing.T) {
	base := Config{DBDriver: "sqlite", KVBackend: "memory", LLMProvider: "gemini", StorageProvider: "local"}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"合法", func(c *Config) {}, false},
		{"未知数据库", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"未知 KV", func(c *Config) { c.KVBackend = "etcd" }, true},
		{"未知模型", func(c *Config) { c.LLMProvider = "claude" }, true},
		{"未知存储", func(c *Config) { c.StorageProvider = "cos" }, true},
		{"强制鉴权缺密钥", func(c *Config) { c.RequireAuth = true }, true},
		{"强制鉴权有密钥", func(c *Config) { c.RequireAuth = true; c.JWTSecret = "s" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
