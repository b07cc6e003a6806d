package config

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "SERVER_PORT", "BACKEND_URL", "BACKEND_TIMEOUT", "BACKEND_MAX_RETRIES", "STORAGE_DRIVER", "REDIS_DB", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvProduction, cfg.Env)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:8000/api", cfg.Backend.URL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, uint(3), cfg.Backend.MaxRetries)
	assert.Equal(t, DriverFile, cfg.Storage.Driver)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("BACKEND_URL", "https://api.example.com/v1/")
	t.Setenv("BACKEND_TIMEOUT", "3s")
	t.Setenv("BACKEND_MAX_RETRIES", "5")
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "https://api.example.com/v1", cfg.Backend.URL)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, uint(5), cfg.Backend.MaxRetries)
	assert.Equal(t, DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"BACKEND_TIMEOUT", "soon"},
		{"BACKEND_MAX_RETRIES", "-1"},
		{"REDIS_DB", "zero"},
		{"STORAGE_DRIVER", "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoadEnv_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SSG_TEST_VALUE=from-dotenv\n"), 0600))
	t.Cleanup(func() { os.Unsetenv("SSG_TEST_VALUE") })

	LoadEnv(path)
	assert.Equal(t, "from-dotenv", os.Getenv("SSG_TEST_VALUE"))

	assert.NotPanics(t, func() { LoadEnv(filepath.Join(t.TempDir(), "missing.env")) })
}

func TestDBConfig_DSN(t *testing.T) {
	_, err := DBConfig{Host: "localhost"}.DSN()
	assert.Error(t, err)

	dsn, err := DBConfig{Host: "db", Port: "5432", User: "ssg", Password: "pw", Name: "portal"}.DSN()
	require.NoError(t, err)
	assert.Equal(t, "host=db port=5432 user=ssg password=pw dbname=portal sslmode=disable", dsn)
}

func TestAutoMigrate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS client_storage")).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	assert.NoError(t, AutoMigrate(context.Background(), mock))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenStore_Memory(t *testing.T) {
	store, closeFn, err := OpenStore(context.Background(), &Config{Storage: StorageConfig{Driver: DriverMemory}})
	require.NoError(t, err)
	defer closeFn()

	assert.NoError(t, store.Ping(context.Background()))
}

func TestOpenStore_File(t *testing.T) {
	dir := t.TempDir()
	store, closeFn, err := OpenStore(context.Background(), &Config{Storage: StorageConfig{Driver: DriverFile, Dir: dir}})
	require.NoError(t, err)
	defer closeFn()

	require.NoError(t, store.Save(context.Background(), "auth-storage", []byte("{}")))
	assert.FileExists(t, filepath.Join(dir, "auth-storage.json"))
}

func TestOpenStore_Unknown(t *testing.T) {
	_, _, err := OpenStore(context.Background(), &Config{Storage: StorageConfig{Driver: "sqlite"}})
	assert.Error(t, err)
}
