package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("SUMMARIZER_TIMEOUT", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("DATABASE_MAX_CONNS", "")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 10, cfg.Database.MaxConns)
	assert.Equal(t, StorageBackendLocal, cfg.Storage.Backend)
	assert.Equal(t, 3*time.Second, cfg.Summarizer.Timeout)
	assert.Empty(t, cfg.Redis.URL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file:./data/docs.db")
	t.Setenv("STORAGE_BACKEND", "minio")
	t.Setenv("STORAGE_BUCKET", "versions")
	t.Setenv("SUMMARIZER_TIMEOUT", "750ms")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example ,")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "file:./data/docs.db", cfg.Database.URL)
	assert.Equal(t, StorageBackendMinIO, cfg.Storage.Backend)
	assert.Equal(t, 750*time.Millisecond, cfg.Summarizer.Timeout)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Server.CORSOrigins)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"port":    {"SERVER_PORT": "eighty"},
		"driver":  {"DATABASE_DRIVER": "mysql"},
		"backend": {"STORAGE_BACKEND": "ftp"},
		"timeout": {"SUMMARIZER_TIMEOUT": "soon"},
		"pool":    {"DATABASE_DRIVER": "postgres", "DATABASE_MAX_CONNS": "0"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
