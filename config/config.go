package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/matching"
)

type Config struct {
	AppName    string `env:"APP_NAME" env-default:"fern"`
	LogLevel   string `env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	PrettyLogs bool   `env:"PRETTY_LOGS" env-default:"false"`

	// Matching engine
	MatchWorkers           int           `env:"MATCH_WORKERS" env-default:"0" validate:"gte=0"` // 0 uses one worker per CPU
	MatchQueueSize         int           `env:"MATCH_QUEUE_SIZE" env-default:"1024" validate:"gte=0"`
	MatchRunTimeout        time.Duration `env:"MATCH_RUN_TIMEOUT" env-default:"0s"`
	MatchDefaultThreshold  float64       `env:"MATCH_DEFAULT_THRESHOLD" env-default:"-1" validate:"gte=-1,lte=1"` // negative uses the profile threshold
	MatchSkipEmptyKeys     bool          `env:"MATCH_SKIP_EMPTY_KEYS" env-default:"false"`
	MatchMaxBucketSize     int           `env:"MATCH_MAX_BUCKET_SIZE" env-default:"0" validate:"gte=0"`
	MatchComparerCacheSize int           `env:"MATCH_COMPARER_CACHE_SIZE" env-default:"0" validate:"gte=0"`

	// Kafka result sink
	KafkaEnabled      bool     `env:"KAFKA_ENABLED" env-default:"false"`
	KafkaBrokers      []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaTopic        string   `env:"KAFKA_TOPIC" env-default:"twin-events"`
	KafkaBatchSize    int      `env:"KAFKA_BATCH_SIZE" env-default:"100"`
	KafkaBatchTimeout int      `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"100"`
	KafkaRequiredAcks int      `env:"KAFKA_REQUIRED_ACKS" env-default:"1"`
	KafkaCompression  string   `env:"KAFKA_COMPRESSION" env-default:"snappy" validate:"oneof=none gzip snappy lz4 zstd"`

	MetricsEnabled bool `env:"METRICS_ENABLED" env-default:"true"`
	TracingEnabled bool `env:"TRACING_ENABLED" env-default:"false"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads an optional .env file, then binds the environment.
func Load(envFiles ...string) (*Config, error) {
	// a missing .env file is not an error
	_ = godotenv.Load(envFiles...)

	cfg := &Config{}
	if err := ectoenv.BindEnv(cfg); err != nil {
		return nil, fmt.Errorf("bind environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("invalid config: KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// NewLogger builds the zap backed logger. Pretty logs use zap's
// development encoder.
func NewLogger(c *Config) (ectologger.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	zapConfig := zap.NewProductionConfig()
	if c.PrettyLogs {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.InitialFields = map[string]any{"app": c.AppName}

	zapLogger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return zapadapter.NewZapEctoLogger(zapLogger, nil), nil
}

func (c *Config) EngineConfig() matching.EngineConfig {
	return matching.EngineConfig{
		Workers:           c.MatchWorkers,
		QueueSize:         c.MatchQueueSize,
		RunTimeout:        c.MatchRunTimeout,
		SkipEmptyKeys:     c.MatchSkipEmptyKeys,
		MaxBucketSize:     c.MatchMaxBucketSize,
		ComparerCacheSize: c.MatchComparerCacheSize,
		MetricsEnabled:    c.MetricsEnabled,
	}
}

func (c *Config) ProducerConfig() kafka.ProducerConfig {
	return kafka.ProducerConfig{
		Brokers:      c.KafkaBrokers,
		Topic:        c.KafkaTopic,
		BatchSize:    c.KafkaBatchSize,
		BatchTimeout: time.Duration(c.KafkaBatchTimeout) * time.Millisecond,
		RequiredAcks: c.KafkaRequiredAcks,
		Compression:  strings.ToLower(c.KafkaCompression),

		MetricsEnabled: c.MetricsEnabled,
	}
}
