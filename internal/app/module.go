package app

import (
	"time"

	"github.com/hodlflow/stacker/internal/app/api/server"
	"github.com/hodlflow/stacker/internal/app/service/plan"
	"github.com/hodlflow/stacker/internal/app/service/price"
	"github.com/hodlflow/stacker/internal/app/service/scheduler"
	"github.com/hodlflow/stacker/internal/platform/db"
	"github.com/hodlflow/stacker/pkg/config"
	"github.com/hodlflow/stacker/pkg/logger"

	"go.uber.org/fx"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	server.Module,
	price.Module,
	plan.Module,
	scheduler.Module,
)
