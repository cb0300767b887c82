package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Loader reloads the funnel snapshot. *usecase.Board satisfies it.
type Loader interface {
	Load(ctx context.Context) error
}

type FunnelRefreshWorker struct {
	loader       Loader
	tickInterval time.Duration
	logger       *zap.Logger
}

func NewFunnelRefreshWorker(loader Loader, interval time.Duration, logger *zap.Logger) *FunnelRefreshWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FunnelRefreshWorker{
		loader:       loader,
		tickInterval: interval,
		logger:       logger,
	}
}

// Start reloads on every tick until ctx is done. The first load happens at startup in
// main, so the worker waits one interval before its first run.
func (w *FunnelRefreshWorker) Start(ctx context.Context) {
	w.logger.Info("funnel refresh worker started", zap.Duration("interval", w.tickInterval))

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("funnel refresh worker stopped")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *FunnelRefreshWorker) refresh(ctx context.Context) {
	start := time.Now()
	if err := w.loader.Load(ctx); err != nil {
		// Board keeps the previous snapshot
		w.logger.Warn("funnel refresh failed", zap.Error(err))
		return
	}
	w.logger.Debug("funnel refreshed", zap.Duration("took", time.Since(start)))
}
