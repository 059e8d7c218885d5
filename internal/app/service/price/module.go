package price

import "go.uber.org/fx"

// Module exposes the price service via Fx.
var Module = fx.Options(
	fx.Provide(NewBinanceQuoter),
	fx.Provide(NewService),
)
