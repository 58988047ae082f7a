package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
siteName: lexikon
baseURL: https://lexikon.example.com
listenAddr: ":8080"
session:
  maxAge: 2h
  cookieName: sid
  cookieSecure: true
mysql:
  dsn: "user:pass@tcp(localhost:3306)/lexikon?parseTime=true"
  tablePrefix: lx_
mail:
  backend: smtp
  from: noreply@lexikon.example.com
  smtp:
    host: smtp.example.com
    port: 587
store:
  backend: redis
  redis:
    url: redis://localhost:6379
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "lexikon", cfg.SiteName)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 2*time.Hour, cfg.Session.MaxAge)
	assert.Equal(t, "sid", cfg.Session.CookieName)
	assert.True(t, cfg.Session.CookieSecure)
	assert.Equal(t, "lx_", cfg.MySQL.TablePrefix)
	assert.Equal(t, "smtp", cfg.Mail.Backend)
	assert.Equal(t, 587, cfg.Mail.SMTP.Port)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "redis://localhost:6379", cfg.Store.Redis.URL)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
mysql:
  dsn: "user:pass@tcp(localhost:3306)/lexikon"
mail:
  backend: smtp
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, DefaultCookieName, cfg.Session.CookieName)
	assert.Equal(t, time.Hour, cfg.Session.MaxAge)
	assert.Equal(t, "memory", cfg.Store.Backend)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
