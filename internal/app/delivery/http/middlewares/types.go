package middlewares

import (
	"clinic-appointment-service/internal/app/config"
	"clinic-appointment-service/internal/app/services/shared/metrics"

	"go.uber.org/zap"
)

type Middlewares struct {
	Log            *zap.Logger
	InternalConfig *config.InternalConfig
	Metrics        *metrics.Collector
}

func NewMiddlewares(logger *zap.Logger, internalConfig *config.InternalConfig, collector *metrics.Collector) *Middlewares {
	return &Middlewares{
		Log:            logger,
		InternalConfig: internalConfig,
		Metrics:        collector,
	}
}
