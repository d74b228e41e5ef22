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
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "fern", cfg.AppName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 1024, cfg.MatchQueueSize)
	assert.Equal(t, -1.0, cfg.MatchDefaultThreshold)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.False(t, cfg.KafkaEnabled)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("MATCH_WORKERS", "3")
	t.Setenv("MATCH_RUN_TIMEOUT", "30s")
	t.Setenv("MATCH_DEFAULT_THRESHOLD", "0.9")
	t.Setenv("MATCH_SKIP_EMPTY_KEYS", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("KAFKA_BATCH_TIMEOUT_MS", "250")

	cfg, err := Load()
	require.NoError(t, err)

	engine := cfg.EngineConfig()
	assert.Equal(t, 3, engine.Workers)
	assert.Equal(t, 30*time.Second, engine.RunTimeout)
	assert.True(t, engine.SkipEmptyKeys)
	assert.Equal(t, 0.9, cfg.MatchDefaultThreshold)

	producer := cfg.ProducerConfig()
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, producer.Brokers)
	assert.Equal(t, 250*time.Millisecond, producer.BatchTimeout)
	assert.Equal(t, "twin-events", producer.Topic)
	assert.True(t, producer.MetricsEnabled)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("APP_NAME=fern-test\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("APP_NAME") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fern-test", cfg.AppName)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"threshold above one", func(c *Config) { c.MatchDefaultThreshold = 1.5 }},
		{"negative workers", func(c *Config) { c.MatchWorkers = -2 }},
		{"unknown log level", func(c *Config) { c.LogLevel = "chatty" }},
		{"unknown compression", func(c *Config) { c.KafkaCompression = "brotli" }},
		{"kafka without brokers", func(c *Config) {
			c.KafkaEnabled = true
			c.KafkaBrokers = nil
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNewLogger(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)

	cfg.PrettyLogs = true
	cfg.LogLevel = "debug"
	logger, err = NewLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)

	cfg.LogLevel = "loud"
	_, err = NewLogger(cfg)
	assert.Error(t, err)
}
