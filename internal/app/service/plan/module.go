package plan

import (
	"go.uber.org/fx"

	"github.com/hodlflow/stacker/internal/app/service/price"
)

// Module exposes the plan service via Fx.
var Module = fx.Options(
	fx.Provide(func(s *price.Service) PriceProvider { return s }),
	fx.Provide(NewService),
)
