package storage

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/mtg-inventory/internal/logging"
)

func TestNewBackupScheduler_RejectsBadInterval(t *testing.T) {
	_, err := NewBackupScheduler(nil, 0, nil)
	assert.Error(t, err)
}

func TestBackupScheduler_RunsUntilCancelled(t *testing.T) {
	var calls atomic.Int32
	backup := func(context.Context) (*BackupInfo, error) {
		calls.Add(1)
		return &BackupInfo{Path: "/tmp/inventory.db"}, nil
	}

	s, err := NewBackupScheduler(backup, 10*time.Millisecond, logging.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	assert.True(t, s.Status().Running)
	assert.ErrorContains(t, s.Run(ctx), "already running")

	cancel()
	require.NoError(t, <-done)

	status := s.Status()
	assert.False(t, status.Running)
	assert.GreaterOrEqual(t, status.BackupCount, 2)
	assert.Equal(t, "/tmp/inventory.db", status.LastPath)
	assert.Zero(t, status.FailureCount)
}

func TestBackupScheduler_RecordsFailures(t *testing.T) {
	boom := errors.New("disk full")
	s, err := NewBackupScheduler(func(context.Context) (*BackupInfo, error) {
		return nil, boom
	}, time.Hour, logging.Discard())
	require.NoError(t, err)

	s.runBackup(context.Background())

	status := s.Status()
	assert.Equal(t, 1, status.FailureCount)
	assert.Zero(t, status.BackupCount)
	assert.ErrorIs(t, status.LastError, boom)
	assert.False(t, status.LastBackup.IsZero())
}

func TestBackupScheduler_WithDatabase(t *testing.T) {
	service := NewTestService(t)
	dir := filepath.Join(t.TempDir(), "backups")

	s, err := NewBackupScheduler(func(ctx context.Context) (*BackupInfo, error) {
		return service.Backup(ctx, dir)
	}, time.Hour, logging.Discard())
	require.NoError(t, err)

	s.runBackup(context.Background())
	require.NoError(t, s.Status().LastError)

	backups, err := ListBackups(dir)
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}
