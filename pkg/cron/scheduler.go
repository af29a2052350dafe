// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the learned-store backup job. Timestamped snapshots of
// the store file mitigate the single-writer clobber risk on the durable
// record without changing store semantics.
type Scheduler struct {
	cron      *cron.Cron
	storePath string
	backupDir string
	schedule  string
	logger    *slog.Logger
}

// NewScheduler creates a scheduler copying storePath into backupDir on
// the given 5-field cron schedule.
func NewScheduler(storePath, backupDir, schedule string, logger *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:      c,
		storePath: storePath,
		backupDir: backupDir,
		schedule:  schedule,
		logger:    logger,
	}
}

// Start registers and begins the backup job.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.backupStore); err != nil {
		return fmt.Errorf("failed to schedule store backup: %w", err)
	}
	s.cron.Start()
	s.logger.Info("store backup scheduled", slog.String("schedule", s.schedule))
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// backupStore copies the current store file into a timestamped snapshot.
// A missing store file just means nothing has been learned yet.
func (s *Scheduler) backupStore() {
	data, err := os.ReadFile(s.storePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("no learned store to back up yet")
			return
		}
		s.logger.Error("failed to read learned store for backup", slog.Any("error", err))
		return
	}

	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		s.logger.Error("failed to create backup directory", slog.Any("error", err))
		return
	}

	name := fmt.Sprintf("learned_patterns-%s.json", time.Now().UTC().Format("20060102T150405Z"))
	target := filepath.Join(s.backupDir, name)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		s.logger.Error("failed to write store backup", slog.Any("error", err))
		return
	}

	s.logger.Info("learned store backed up", slog.String("path", target))
}
