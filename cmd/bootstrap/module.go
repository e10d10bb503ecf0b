package bootstrap

import (
	"booking-engine/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	LockModule,
	JWTModule,
	MetricsModule,
	components.PersistenceModule,
	BillingModule,
	IndexModule,
	SchedulerModule,
	components.UseCaseModule,
	components.HandlerModule,
)
