package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "this-is-a-test-secret-at-least-32-chars"

func loadWithSecret(t *testing.T) *Config {
	t.Helper()
	viper.Reset()
	t.Setenv("TEAMSITE_JWT_SECRET", testSecret)
	cfg, err := Load()
	require.NoError(t, err)
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadWithSecret(t)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Database.Type, "默认应使用内存存储")
	assert.Equal(t, 50, cfg.Newsletter.BatchSize)
	assert.Equal(t, "mon", cfg.Newsletter.ScheduleWeekday)
	assert.Equal(t, 9, cfg.Newsletter.ScheduleHour)
	assert.Equal(t, "Asia/Seoul", cfg.Newsletter.Timezone)
	assert.False(t, cfg.Newsletter.AutoSend)
	assert.Equal(t, 7, cfg.Newsletter.PeriodDays)
	assert.Equal(t, "gpt-4o", cfg.AI.Model)
}

func TestLoad_RejectsDefaultJWTSecret(t *testing.T) {
	viper.Reset()
	t.Setenv("TEAMSITE_JWT_SECRET", "change-me-in-production")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsShortJWTSecret(t *testing.T) {
	viper.Reset()
	t.Setenv("TEAMSITE_JWT_SECRET", "too-short")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	viper.Reset()
	t.Setenv("TEAMSITE_JWT_SECRET", testSecret)
	t.Setenv("TEAMSITE_SERVER_PORT", "9090")
	t.Setenv("TEAMSITE_CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("TEAMSITE_NEWSLETTER_BATCH_SIZE", "20")
	t.Setenv("TEAMSITE_NEWSLETTER_SCHEDULE_WEEKDAY", "FRI")
	t.Setenv("TEAMSITE_AI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 20, cfg.Newsletter.BatchSize)
	assert.Equal(t, "fri", cfg.Newsletter.ScheduleWeekday, "星期缩写应规范化为小写")
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
}

func TestLoad_InvalidScheduleWeekday(t *testing.T) {
	viper.Reset()
	t.Setenv("TEAMSITE_JWT_SECRET", testSecret)
	t.Setenv("TEAMSITE_NEWSLETTER_SCHEDULE_WEEKDAY", "monday")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidScheduleTime(t *testing.T) {
	viper.Reset()
	t.Setenv("TEAMSITE_JWT_SECRET", testSecret)
	t.Setenv("TEAMSITE_NEWSLETTER_SCHEDULE_HOUR", "24")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidPeriodDays(t *testing.T) {
	viper.Reset()
	t.Setenv("TEAMSITE_JWT_SECRET", testSecret)
	t.Setenv("TEAMSITE_NEWSLETTER_PERIOD_DAYS", "31")

	_, err := Load()
	assert.Error(t, err)
}
