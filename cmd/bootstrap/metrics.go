package bootstrap

import (
	"booking-engine/internal/infra/metrics"
	"booking-engine/internal/usecase/shared"

	"go.uber.org/fx"
)

var MetricsModule = fx.Module("metrics",
	fx.Provide(
		metrics.New,
		func(m *metrics.Metrics) shared.EngineMetrics {
			return m
		},
	),
)
