package cronrunner

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"fieldlogger/internal/logger"
)

type Runner struct {
	cron    *cron.Cron
	logger  *zap.Logger
	baseCtx context.Context
}

func New(log *zap.Logger, baseCtx context.Context) *Runner {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &Runner{
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.OrNop(log),
		baseCtx: baseCtx,
	}
}

// Add schedules job under name. A panicking job is logged and the schedule
// keeps running.
func (r *Runner) Add(name, spec string, job func(context.Context) error) (cron.EntryID, error) {
	return r.cron.AddFunc(spec, func() {
		r.run(name, job)
	})
}

func (r *Runner) run(name string, job func(context.Context) error) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("cron job panicked", zap.String("job", name), zap.Any("panic", p))
		}
	}()
	if err := job(r.baseCtx); err != nil {
		r.logger.Warn("cron job failed",
			zap.String("job", name),
			zap.Duration("took", time.Since(start)),
			zap.Error(err),
		)
		return
	}
	r.logger.Debug("cron job ok", zap.String("job", name), zap.Duration("took", time.Since(start)))
}

func (r *Runner) Len() int {
	return len(r.cron.Entries())
}

func (r *Runner) Start() {
	r.logger.Info("cron started", zap.Int("jobs", r.Len()))
	r.cron.Start()
}

func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("cron stopped")
}
