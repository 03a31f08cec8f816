package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/ramonehamilton/mtg-inventory/internal/storage"
)

// runMigrate applies, rolls back or reports the schema version of the
// database at dbPath, then returns without serving.
func runMigrate(action, dbPath string, out io.Writer, logger *slog.Logger) (err error) {
	if dbPath == ":memory:" {
		return fmt.Errorf("cannot run migrations against an in-memory database")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create database directory: %w", err)
	}

	mgr, err := storage.NewMigrationManager(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := mgr.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	switch action {
	case "up":
		if err := mgr.Up(); err != nil {
			return err
		}
	case "down":
		if err := mgr.Down(); err != nil {
			return err
		}
	case "version":
	default:
		return fmt.Errorf("unknown migrate action %q (want up, down or version)", action)
	}

	version, dirty, err := mgr.Version()
	if err != nil {
		return err
	}
	logger.Info("migration finished", "component", "storage", "action", action, "version", version, "dirty", dirty)
	_, err = fmt.Fprintf(out, "schema version %d (dirty: %t)\n", version, dirty)
	return err
}

// listBackups prints the backups found in dir.
func listBackups(dir string, out io.Writer) error {
	backups, err := storage.ListBackups(dir)
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		_, err := fmt.Fprintf(out, "no backups in %s\n", dir)
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tMODIFIED\tSHA256")
	for _, b := range backups {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", b.Name, b.Size, b.ModTime.Format("2006-01-02 15:04:05"), b.Checksum)
	}
	return w.Flush()
}
