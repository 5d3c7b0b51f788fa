package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/plucktv/plucktv/internal/config"
	"github.com/plucktv/plucktv/internal/repository"
)

// Janitor prunes playlists that have not been accessed within the
// configured retention window. Scheduling uses 6-field cron
// expressions (with seconds).
type Janitor struct {
	repo   repository.PlaylistRepository
	logger *slog.Logger
	cfg    config.RetentionConfig
	cron   *cron.Cron
}

// NewJanitor creates a retention janitor. It does nothing until Start
// is called, and Start is a no-op when retention is disabled.
func NewJanitor(repo repository.PlaylistRepository, logger *slog.Logger, cfg config.RetentionConfig) *Janitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Janitor{
		repo:   repo,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds()),
	}
}

// Start schedules the pruning job.
func (j *Janitor) Start() error {
	if !j.cfg.Enabled {
		j.logger.Debug("playlist retention disabled")
		return nil
	}

	if _, err := j.cron.AddFunc(j.cfg.Cron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		j.Prune(ctx)
	}); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("playlist retention scheduled",
		slog.String("cron", j.cfg.Cron),
		slog.Duration("max_age", j.cfg.MaxAge),
	)
	return nil
}

// Stop halts the schedule, waiting for a running job to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}

// Prune removes playlists not accessed within the retention window.
func (j *Janitor) Prune(ctx context.Context) {
	cutoff := time.Now().Add(-j.cfg.MaxAge)
	removed, err := j.repo.DeleteStaleBefore(ctx, cutoff)
	if err != nil {
		j.logger.Error("playlist pruning failed", slog.String("error", err.Error()))
		return
	}
	if removed > 0 {
		j.logger.Info("stale playlists pruned",
			slog.Int64("removed", removed),
			slog.Time("cutoff", cutoff),
		)
	}
}
