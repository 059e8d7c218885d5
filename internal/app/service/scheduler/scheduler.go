package scheduler

import (
	"context"
	"errors"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/hodlflow/stacker/internal/app/service/plan"
	"github.com/hodlflow/stacker/internal/app/service/price"
	"github.com/hodlflow/stacker/pkg/config"
)

// Scheduler periodically executes due plans. The engine itself does not
// poll; this is the external caller the lifecycle contract expects. Failed
// executions are logged and skipped; retry happens naturally on the next
// tick because a failed plan's schedule does not advance.
type Scheduler struct {
	cfg   *config.Config
	log   *zap.SugaredLogger
	plans plan.PlanManager
	cron  *cron.Cron
}

func NewScheduler(cfg *config.Config, log *zap.SugaredLogger, plans plan.PlanManager) *Scheduler {
	return &Scheduler{cfg: cfg, log: log, plans: plans, cron: cron.New()}
}

// RunDuePlans executes every due active plan once. Errors on individual
// plans do not stop the sweep.
func (s *Scheduler) RunDuePlans(ctx context.Context) {
	due, err := s.plans.GetDuePlans(ctx)
	if err != nil {
		s.log.Errorw("scheduler: failed to list due plans", "err", err)
		return
	}
	if len(due) == 0 {
		return
	}

	executed := 0
	for _, p := range due {
		if _, err := s.plans.ExecutePlan(ctx, p.ID); err != nil {
			// racing a concurrent cancel/execute is expected and not an incident
			if errors.Is(err, plan.ErrPlanNotExecutable) {
				s.log.Debugw("scheduler: plan no longer executable", "plan_id", p.ID)
				continue
			}
			if errors.Is(err, price.ErrPriceUnavailable) {
				s.log.Warnw("scheduler: price unavailable, will retry next tick", "plan_id", p.ID)
				continue
			}
			s.log.Errorw("scheduler: failed to execute plan", "plan_id", p.ID, "err", err)
			continue
		}
		executed++
	}
	s.log.Infow("scheduler sweep finished", "due", len(due), "executed", executed)
}

func runScheduler(lc fx.Lifecycle, s *Scheduler) error {
	if !s.cfg.Scheduler.Enabled {
		s.log.Infow("scheduler disabled")
		return nil
	}

	spec := s.cfg.Scheduler.Spec
	if spec == "" {
		spec = "@every 1m"
	}
	if _, err := s.cron.AddFunc(spec, func() {
		s.RunDuePlans(context.Background())
	}); err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.log.Infow("starting scheduler", "spec", spec)
			s.cron.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			s.log.Infow("stopping scheduler")
			stopCtx := s.cron.Stop()
			select {
			case <-stopCtx.Done():
			case <-ctx.Done():
			}
			return nil
		},
	})
	return nil
}

var Module = fx.Options(
	fx.Provide(NewScheduler),
	fx.Invoke(runScheduler),
)
