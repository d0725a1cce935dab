package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "account-service", cfg.AppName)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 10*time.Minute, cfg.ResetOTPTTL)
	assert.Equal(t, time.Hour, cfg.AccessTTL)
	assert.True(t, cfg.MailSendEnabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("RESET_OTP_TTL", "5m")
	t.Setenv("DB_NAME", "other")
	t.Setenv("MAIL_SEND_ENABLED", "false")

	cfg := Load()
	assert.Equal(t, 5*time.Minute, cfg.ResetOTPTTL)
	assert.Equal(t, "other", cfg.DBName)
	assert.False(t, cfg.MailSendEnabled)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("RESET_OTP_TTL", "not-a-duration")
	t.Setenv("DB_MAX_CONNS", "not-an-int")
	t.Setenv("MAIL_SEND_ENABLED", "not-a-bool")

	cfg := Load()
	assert.Equal(t, 10*time.Minute, cfg.ResetOTPTTL)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.True(t, cfg.MailSendEnabled)
}

func TestPostgresDSN(t *testing.T) {
	t.Setenv("DB_USER", "svc")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "accounts")
	t.Setenv("DB_SSLMODE", "require")

	cfg := Load()
	assert.Equal(t, "postgres://svc:pw@db:5433/accounts?sslmode=require", cfg.PostgresDSN())
}

func TestCSVHelpers(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("ELASTICSEARCH_ADDRS", "http://es1:9200,http://es2:9200")

	cfg := Load()
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins())
	assert.Equal(t, []string{"http://es1:9200", "http://es2:9200"}, cfg.ESAddrs())
}
