package bootstrap

import (
	"log/slog"

	"booking-engine/internal/infra/billing"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/config"
	"booking-engine/internal/usecase/shared"

	"go.uber.org/fx"
)

var BillingModule = fx.Module("billing",
	fx.Provide(
		NewFeatureGate,
	),
)

func NewFeatureGate(cfg config.Config, clk clock.Clock, logger *slog.Logger) (shared.FeatureGate, error) {
	if cfg.Billing.Provider == config.BillingProviderStripe {
		logger.Info("Feature gate backed by stripe subscriptions", "cache_ttl", cfg.Billing.CacheTTL)
		source := billing.NewStripeSource(cfg.Billing.StripeSecretKey)
		return billing.NewStripeGate(source, cfg.Billing.CacheTTL, clk, logger), nil
	}

	catalog, err := billing.LoadCatalog(cfg.Billing.PlanCatalogPath)
	if err != nil {
		return nil, err
	}
	logger.Info("Feature gate backed by plan catalog", "path", cfg.Billing.PlanCatalogPath)
	return billing.NewCatalogGate(catalog, logger), nil
}
