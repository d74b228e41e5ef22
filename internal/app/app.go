// Package app assembles the matching engine and its result sink from
// configuration.
package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/Gobusters/ectologger"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ramsey-B/fern/config"
	"github.com/Ramsey-B/fern/pkg/events"
	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/matching"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/profile"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

type App struct {
	Engine *matching.Engine

	config   *config.Config
	logger   ectologger.Logger
	producer *kafka.Producer
	shutdown func(context.Context) error
}

// New wires the engine. With Kafka enabled, results of every run are
// published to the configured topic. Extra engine options are applied last.
func New(cfg *config.Config, logger ectologger.Logger, opts ...matching.Option) *App {
	a := &App{config: cfg, logger: logger}

	engineOpts := []matching.Option{matching.WithStateHook(a.logTransition)}
	if cfg.KafkaEnabled {
		a.producer = kafka.NewProducer(cfg.ProducerConfig(), logger)
		engineOpts = append(engineOpts, matching.WithSink(events.NewEmitter(a.producer, logger)))
	}
	if cfg.TracingEnabled {
		a.shutdown = tracing.Setup(cfg.AppName)
	}

	a.Engine = matching.NewEngine(logger, cfg.EngineConfig(), append(engineOpts, opts...)...)
	return a
}

// Run matches records with the configured default threshold.
func (a *App) Run(ctx context.Context, data *models.MatchingData, records []models.Record) (*matching.Result, error) {
	return a.Engine.Run(ctx, data, records, a.config.MatchDefaultThreshold)
}

// RunProfile loads the profile stored at path and runs it.
func (a *App) RunProfile(ctx context.Context, path string, records []models.Record) (*matching.Result, error) {
	data, err := profile.Load(path)
	if err != nil {
		return nil, err
	}
	return a.Run(ctx, data, records)
}

// MetricsHandler serves the Prometheus metrics, or nil when metrics are
// disabled.
func (a *App) MetricsHandler() http.Handler {
	if !a.config.MetricsEnabled {
		return nil
	}
	return promhttp.Handler()
}

// Close flushes the Kafka writer and the tracer provider.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.shutdown != nil {
		if err := a.shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *App) logTransition(runID string, from, to matching.State) {
	a.logger.WithContext(context.Background()).WithFields(map[string]any{
		"run_id": runID,
		"from":   from.String(),
		"to":     to.String(),
	}).Debug("Run state changed")
}
