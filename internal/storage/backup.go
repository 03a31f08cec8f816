package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrBackupExists is returned when the backup target file already exists.
var ErrBackupExists = errors.New("backup file already exists")

// BackupInfo contains information about a backup file.
type BackupInfo struct {
	Path     string
	Name     string
	Size     int64
	ModTime  time.Time
	Checksum string
}

// Backup writes a consistent copy of the database to dir using VACUUM INTO
// and verifies the copy before returning. The file is named
// inventory_<timestamp>.db.
func (db *DB) Backup(ctx context.Context, dir string) (*BackupInfo, error) {
	if dir == "" {
		return nil, fmt.Errorf("backup directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := fmt.Sprintf("inventory_%s.db", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrBackupExists, path)
	}

	// VACUUM INTO takes a string literal, not a bound parameter.
	quoted := "'" + strings.ReplaceAll(path, "'", "''") + "'"
	if _, err := db.conn.ExecContext(ctx, "VACUUM INTO "+quoted); err != nil {
		return nil, fmt.Errorf("failed to write backup: %w", err)
	}

	if err := VerifyBackup(ctx, path); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("backup verification failed: %w", err)
	}

	return backupInfo(path)
}

// VerifyBackup opens the file as a database and checks that it passes
// SQLite's integrity check and carries the inventory schema.
func VerifyBackup(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	config := DefaultConfig(path)
	config.MaxOpenConns = 1
	backup, err := Open(config)
	if err != nil {
		return err
	}
	defer func() {
		_ = backup.Close()
	}()

	var result string
	if err := backup.conn.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("failed to run integrity check: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}

	var tables int
	err = backup.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('editions', 'cards', 'card_instances')`,
	).Scan(&tables)
	if err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}
	if tables != 3 {
		return fmt.Errorf("backup is missing inventory tables")
	}
	return nil
}

// ListBackups returns the .db files in dir, oldest first. A missing
// directory yields an empty list.
func ListBackups(dir string) ([]BackupInfo, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".db" {
			continue
		}
		info, err := backupInfo(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		backups = append(backups, *info)
	}
	return backups, nil
}

func backupInfo(path string) (*BackupInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	checksum, err := calculateChecksum(path)
	if err != nil {
		checksum = "unknown"
	}

	return &BackupInfo{
		Path:     path,
		Name:     filepath.Base(path),
		Size:     stat.Size(),
		ModTime:  stat.ModTime(),
		Checksum: checksum,
	}, nil
}

// calculateChecksum calculates the SHA-256 checksum of a file.
func calculateChecksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = file.Close()
	}()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
