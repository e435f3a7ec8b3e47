package main

import (
	"go.uber.org/zap"

	"luxhousing/internal/config"
	"luxhousing/internal/metrics"
	"luxhousing/internal/metrics/datadog"
	"luxhousing/internal/metrics/prompush"
)

const defaultPushgatewayURL = "http://localhost:9091"

// setupMetrics installs the configured metrics backend and returns a
// function that flushes it. A backend that fails to initialize leaves the
// nop backend in place.
func setupMetrics(p config.Pipeline, log *zap.Logger) (flush func()) {
	flush = func() {
		if err := metrics.Flush(); err != nil {
			log.Warn("metrics flush failed", zap.Error(err))
		}
	}

	job := p.Job
	if job == "" {
		job = "luxhousing"
	}

	switch p.Metrics.Backend {
	case "pushgateway":
		url := p.Metrics.PushgatewayURL
		if url == "" {
			url = defaultPushgatewayURL
		}
		b, err := prompush.NewBackend(job, url)
		if err != nil {
			log.Warn("metrics: prom push backend unavailable; using nop", zap.Error(err))
			return func() {}
		}
		log.Info("metrics enabled", zap.String("backend", "pushgateway"), zap.String("url", url), zap.String("job", job))
		metrics.SetBackend(b)

	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       p.Metrics.DogStatsDAddr,
			GlobalTags: []string{"job:" + job},
		})
		if err != nil {
			log.Warn("metrics: datadog backend unavailable; using nop", zap.Error(err))
			return func() {}
		}
		log.Info("metrics enabled", zap.String("backend", "datadog"), zap.String("addr", p.Metrics.DogStatsDAddr))
		metrics.SetBackend(b)

	case "", "none":
		log.Debug("metrics disabled")
		return func() {}

	default:
		log.Warn("metrics: unknown backend; metrics disabled", zap.String("backend", p.Metrics.Backend))
		return func() {}
	}
	return flush
}
