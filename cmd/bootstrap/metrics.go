package bootstrap

import (
	"tour-booking/internal/pkg/config"
	"tour-booking/internal/pkg/metrics"

	"go.uber.org/fx"
)

var MetricsModule = fx.Module("metrics",
	fx.Provide(
		func(cfg config.Config) *metrics.Metrics {
			return metrics.New(cfg.Metrics.Namespace)
		},
	),
)
