package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "timeseries", cfg.QueryType)
	assert.Equal(t, "UTC", cfg.TimeZone)
	assert.Nil(t, cfg.UseCache)
	assert.Zero(t, cfg.Timeout)
}

func TestLoad(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "druid.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "events/wikipedia", cfg.DataSource)
	assert.Equal(t, "groupBy", cfg.QueryType)
	assert.Equal(t, "PT1H", cfg.Granularity)
	assert.Equal(t, "Europe/Berlin", cfg.TimeZone)
	require.NotNil(t, cfg.UseCache)
	assert.False(t, *cfg.UseCache)
	require.NotNil(t, cfg.PopulateCache)
	assert.False(t, *cfg.PopulateCache)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	require.NotNil(t, cfg.Priority)
	assert.Equal(t, 10, *cfg.Priority)
	assert.Equal(t, "debug", cfg.LogLevel)

	_, err = Load(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	t.Run("保留默认值", func(t *testing.T) {
		cfg, err := Parse([]byte("dataSource: ds\n"))
		require.NoError(t, err)
		assert.Equal(t, "ds", cfg.DataSource)
		assert.Equal(t, "timeseries", cfg.QueryType)
		assert.Equal(t, "WARN", cfg.LogLevel)
	})

	t.Run("非法YAML", func(t *testing.T) {
		_, err := Parse([]byte("dataSource: [unclosed"))
		assert.Error(t, err)
	})

	t.Run("非法超时", func(t *testing.T) {
		_, err := Parse([]byte("timeout: soon\n"))
		assert.Error(t, err)
		_, err = Parse([]byte("timeout: -1s\n"))
		assert.EqualError(t, err, "parse config: timeout must not be negative")
	})
}
