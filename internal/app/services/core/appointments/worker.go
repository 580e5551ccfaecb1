package appointments

import (
	"clinic-appointment-service/internal/app/config"
	"clinic-appointment-service/internal/app/contracts"
	"clinic-appointment-service/internal/pkg/constvars"
	"clinic-appointment-service/internal/pkg/utils"
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultLeaderLockTTL = 2 * time.Minute

// Worker periodically cancels appointments that were never confirmed.
type Worker struct {
	log     *zap.Logger
	cfg     config.Scheduler
	locker  contracts.LockerService
	usecase contracts.AppointmentUsecase
	now     func() time.Time

	mu     sync.Mutex
	cron   *cron.Cron
	runCtx context.Context
	cancel context.CancelFunc
}

func NewWorker(log *zap.Logger, cfg config.Scheduler, lockerSvc contracts.LockerService, usecase contracts.AppointmentUsecase) *Worker {
	return &Worker{log: log, cfg: cfg, locker: lockerSvc, usecase: usecase, now: time.Now}
}

// Start schedules RunOnce on the configured cron spec.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cron != nil {
		return
	}

	w.runCtx, w.cancel = context.WithCancel(ctx)
	spec := w.cfg.AutoCancelCronSpec
	if spec == "" {
		spec = constvars.DefaultAutoCancelCronSpec
	}

	c := cron.New()
	tick := func() { w.RunOnce(w.runCtx, w.now()) }
	if _, err := c.AddFunc(spec, tick); err != nil {
		w.log.Warn("appointments.worker: invalid cron spec; falling back to default",
			zap.String("spec", spec),
			zap.Error(err),
		)
		c = cron.New()
		_, _ = c.AddFunc(constvars.DefaultAutoCancelCronSpec, tick)
	}
	c.Start()
	w.cron = c
}

// Stop cancels in-flight runs and waits for the running job to return.
func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		w.cancel()
	}
	if w.cron != nil {
		<-w.cron.Stop().Done()
		w.cron = nil
	}
}

// RunOnce performs one auto-cancel pass as of now. Only the replica holding the
// leader lock does any work.
func (w *Worker) RunOnce(ctx context.Context, now time.Time) int {
	ctx = context.WithValue(ctx, constvars.CONTEXT_REQUEST_ID_KEY, utils.GenerateRequestID())

	ttl := w.cfg.LeaderLockTTL
	if ttl <= 0 {
		ttl = defaultLeaderLockTTL
	}
	acquired, token, err := w.locker.TryLock(ctx, constvars.AutoCancelLeaderLockKey, ttl)
	if err != nil {
		w.log.Warn("appointments.worker: leader lock attempt failed", zap.Error(err))
		return 0
	}
	if !acquired {
		w.log.Debug("appointments.worker: leader lock held by another instance")
		return 0
	}
	defer func() {
		if err := w.locker.Unlock(ctx, constvars.AutoCancelLeaderLockKey, token); err != nil {
			w.log.Warn("appointments.worker: failed to release leader lock", zap.Error(err))
		}
	}()

	refreshCtx, cancelRefresh := context.WithCancel(ctx)
	defer cancelRefresh()
	go func() {
		ticker := time.NewTicker(ttl / 2)
		defer ticker.Stop()
		for {
			select {
			case <-refreshCtx.Done():
				return
			case <-ticker.C:
				if err := w.locker.Refresh(refreshCtx, constvars.AutoCancelLeaderLockKey, token, ttl); err != nil {
					w.log.Warn("appointments.worker: failed to refresh leader lock TTL", zap.Error(err))
				}
			}
		}
	}()

	cancelled, err := w.usecase.AutoCancelExpired(ctx, now)
	if err != nil {
		w.log.Error("appointments.worker: auto-cancel pass failed",
			zap.Time(constvars.LoggingTickKey, now),
			zap.Error(err),
		)
		return 0
	}
	return cancelled
}
