package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cn-data/internal/fetch"
	"cn-data/internal/model"
)

var configEnvKeys = []string{
	"DATA_DIR", "SAVE_FORMAT", "PROFILE", "LOG_LEVEL",
	"BUFFER_CAPACITY", "FETCH_TIMEOUT", "FETCH_RATE",
	"USER_AGENT", "PROXY_URL", "VENUES",
	"CRAWL_DAYS", "CRAWL_WORKERS", "CRAWL_RUN_HOUR", "CRAWL_RUN_MINUTE",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "parquet", cfg.SaveFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, fetch.DefaultCapacity, cfg.BufferCapacity)
	assert.Equal(t, fetch.DefaultTimeout, cfg.FetchTimeout)
	assert.Zero(t, cfg.FetchRate)
	assert.Equal(t, "cn-data-fetch/1.0", cfg.UserAgent)
	assert.Empty(t, cfg.ProxyURL)
	assert.Equal(t, []model.Venue{model.VenueSHFE, model.VenueCFFEX, model.VenueCZCE, model.VenueDCE}, cfg.Venues)
	assert.Equal(t, 7, cfg.CrawlDays)
	assert.Equal(t, 4, cfg.CrawlWorkers)
	assert.Equal(t, 9, cfg.CrawlRunHour)
	assert.Equal(t, 30, cfg.CrawlRunMinute)
}

func TestLoadConfigProfileQuirk(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PROFILE", "dev")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "csv", cfg.SaveFormat)

	t.Setenv("PROFILE", "production")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "parquet", cfg.SaveFormat)
}

func TestLoadConfigSaveFormatOverride(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PROFILE", "dev")
	t.Setenv("SAVE_FORMAT", " JSON ")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.SaveFormat)
}

func TestLoadConfigBadSaveFormat(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("SAVE_FORMAT", "xml")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoadConfigNumericOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("BUFFER_CAPACITY", "1048576")
	t.Setenv("FETCH_TIMEOUT", "90s")
	t.Setenv("FETCH_RATE", "2.5")
	t.Setenv("CRAWL_DAYS", "30")
	t.Setenv("CRAWL_WORKERS", "8")
	t.Setenv("CRAWL_RUN_HOUR", "18")
	t.Setenv("CRAWL_RUN_MINUTE", "0")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 1<<20, cfg.BufferCapacity)
	assert.Equal(t, 90*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 2.5, cfg.FetchRate)
	assert.Equal(t, 30, cfg.CrawlDays)
	assert.Equal(t, 8, cfg.CrawlWorkers)
	assert.Equal(t, 18, cfg.CrawlRunHour)
	assert.Equal(t, 0, cfg.CrawlRunMinute)
}

func TestLoadConfigParseErrors(t *testing.T) {
	cases := []struct {
		key   string
		value string
	}{
		{"BUFFER_CAPACITY", "eight-megabytes"},
		{"FETCH_TIMEOUT", "soon"},
		{"FETCH_RATE", "fast"},
		{"CRAWL_DAYS", "week"},
		{"CRAWL_WORKERS", "many"},
		{"CRAWL_RUN_HOUR", "noon"},
		{"CRAWL_RUN_MINUTE", "half"},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv(tc.key, tc.value)

			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.key)
		})
	}
}

func TestLoadConfigRangeValidation(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("CRAWL_RUN_HOUR", "25")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")

	clearConfigEnv(t)
	t.Setenv("BUFFER_CAPACITY", "0")
	_, err = LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoadConfigVenues(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("VENUES", "shfe, ine,")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []model.Venue{model.VenueSHFE, model.VenueINE}, cfg.Venues)
}

func TestLoadConfigBadVenue(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("VENUES", "SHFE,NASDAQ")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VENUES")
}

func TestConfigPaths(t *testing.T) {
	cfg := &Config{DataDir: "/var/lib/cn-data"}
	assert.Equal(t, filepath.Join("/var/lib/cn-data", "daily"), cfg.SaveBaseDir())
	assert.Equal(t, filepath.Join("/var/lib/cn-data", "daily", ".lastday.json"), cfg.ProgressPath())
}
