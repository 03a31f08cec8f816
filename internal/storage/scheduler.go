package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// BackupFunc writes one backup.
type BackupFunc func(ctx context.Context) (*BackupInfo, error)

// BackupScheduler runs a backup on a fixed interval until its context ends.
type BackupScheduler struct {
	backup   BackupFunc
	interval time.Duration
	logger   *slog.Logger

	mu           sync.RWMutex
	running      bool
	lastBackup   time.Time
	lastPath     string
	lastError    error
	backupCount  int
	failureCount int
}

// NewBackupScheduler creates a scheduler. interval must be positive.
func NewBackupScheduler(backup BackupFunc, interval time.Duration, logger *slog.Logger) (*BackupScheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("backup interval must be positive, got %s", interval)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BackupScheduler{
		backup:   backup,
		interval: interval,
		logger:   logger.With("component", "backup"),
	}, nil
}

// Run blocks, backing up once per interval, and returns when ctx is done.
// It returns an error if the scheduler is already running.
func (s *BackupScheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler is already running")
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runBackup(ctx)
		case <-ctx.Done():
			return nil
		}
	}
}

// runBackup executes a backup and updates statistics.
func (s *BackupScheduler) runBackup(ctx context.Context) {
	info, err := s.backup(ctx)

	s.mu.Lock()
	s.lastBackup = time.Now()
	s.lastError = err
	if err != nil {
		s.failureCount++
	} else {
		s.backupCount++
		s.lastPath = info.Path
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("scheduled backup failed", "error", err)
		return
	}
	s.logger.Info("scheduled backup written", "path", info.Path, "size", info.Size)
}

// SchedulerStatus contains information about the scheduler state.
type SchedulerStatus struct {
	Running      bool
	Interval     time.Duration
	LastBackup   time.Time
	LastPath     string
	BackupCount  int
	FailureCount int
	LastError    error
}

// Status returns the current scheduler status.
func (s *BackupScheduler) Status() SchedulerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return SchedulerStatus{
		Running:      s.running,
		Interval:     s.interval,
		LastBackup:   s.lastBackup,
		LastPath:     s.lastPath,
		BackupCount:  s.backupCount,
		FailureCount: s.failureCount,
		LastError:    s.lastError,
	}
}
