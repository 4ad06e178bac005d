package config

import (
	"os"
	"path/filepath"
	"testing"

	"vocab-manager/core/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, 30, cfg.Database.TimeoutSeconds)
	assert.Equal(t, "vocabulary", cfg.Storage.Bucket)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 300, cfg.Cache.LanguageTTLSeconds)
	assert.Equal(t, 4, cfg.Server.BodyLimitMB)
}

func TestLoadConfig_EnvFileAndOverrides(t *testing.T) {
	dir := t.TempDir()
	env := "DATABASE_DRIVER=sqlite\nDATABASE_NAME=vocab.db\nLOG_FORMAT=console\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))

	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_JWT_SECRET", "secret")
	// godotenv.Overload writes into the process env; make sure the test cleans it up.
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("DATABASE_NAME", "")
	t.Setenv("LOG_FORMAT", "")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Server.JWTSecret)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "vocab.db", cfg.Database.Name)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		field string
	}{
		{"driver", "DATABASE_DRIVER", "oracle", "Database.Driver"},
		{"log format", "LOG_FORMAT", "xml", "Log.Format"},
		{"port", "SERVER_PORT", "http", "Server.Port"},
		{"negative ttl", "CACHE_LANGUAGE_TTL_SECONDS", "-1", "Cache.LanguageTTLSeconds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig(t.TempDir())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")

			var verr *validation.Error
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
		})
	}
}
