package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "memory", cfg.Storage.Provider)
	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, 24*time.Hour, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 15*time.Minute, cfg.Auth.ResetCodeTTL)
	assert.Equal(t, 15*time.Second, cfg.AI.Timeout)
	assert.NotEmpty(t, cfg.AI.Model)
	assert.NotNil(t, cfg.Owner)
	assert.NotNil(t, cfg.Mail)
}

func TestApplyDefaults_KeepsConfiguredValues(t *testing.T) {
	cfg := &Config{Storage: StorageConfig{Provider: "redis"}, Auth: &AuthConfig{BcryptCost: 4}}
	applyDefaults(cfg)

	assert.Equal(t, "redis", cfg.Storage.Provider)
	assert.Equal(t, 4, cfg.Auth.BcryptCost)
}

func TestLoadWithEnv_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	yaml := "env:\n  serviceName: emart\nstorage:\n  provider: memory\nowner:\n  email: owner@example.com\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.yaml"), []byte(yaml), 0o600))

	t.Setenv("STORAGE_PROVIDER", "blob")
	t.Setenv("OWNER_EMAIL", "boss@example.com")

	wd, err := os.Getwd()
	require.NoError(t, err)
	rel, err := filepath.Rel(wd, dir)
	require.NoError(t, err)

	cfg, err := LoadWithEnv[Config]("test", rel)
	require.NoError(t, err)

	assert.Equal(t, "emart", cfg.Env.ServiceName)
	assert.Equal(t, "blob", cfg.Storage.Provider)
	require.NotNil(t, cfg.Owner)
	assert.Equal(t, "boss@example.com", cfg.Owner.Email)
}
