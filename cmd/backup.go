package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/nibzard/tasker/internal/storage"
)

func backupCommand(a *app, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	path, err := storage.Backup(a.cfg.DataFile, a.cfg.BackupDir, a.now())
	if err != nil {
		return err
	}
	a.logger.Info("backup created", "path", path)
	fmt.Fprintf(a.out, "Backed up %s to %s\n", a.cfg.DataFile, path)
	return nil
}

func backupsCommand(a *app, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	backups, err := storage.ListBackups(a.cfg.BackupDir)
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Fprintf(a.out, "No backups in %s.\n", a.cfg.BackupDir)
		return nil
	}
	now := a.now()
	for _, b := range backups {
		fmt.Fprintf(a.out, "  %s  %8s  %s\n", filepath.Base(b.Path), humanize.Bytes(uint64(b.Size)), relTime(b.ModTime, now))
	}
	return nil
}

// restoreCommand replaces the task file with a backup. A bare file name is
// looked up in the backup directory. The current file is backed up first.
func restoreCommand(a *app, args []string) error {
	if err := exactArgs(args, 1, "restore <backup>"); err != nil {
		return err
	}
	src := args[0]
	if _, err := os.Stat(src); errors.Is(err, os.ErrNotExist) && filepath.Base(src) == src {
		src = filepath.Join(a.cfg.BackupDir, src)
	}
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("backup not found: %s", args[0])
	}

	if _, err := os.Stat(a.cfg.DataFile); err == nil {
		safety, err := storage.Backup(a.cfg.DataFile, a.cfg.BackupDir, a.now())
		if err != nil {
			return fmt.Errorf("backing up current task file: %w", err)
		}
		fmt.Fprintf(a.out, "Current task file saved as %s\n", safety)
	}
	if err := storage.Restore(src, a.cfg.DataFile); err != nil {
		return err
	}
	a.logger.Info("task file restored", "from", src)
	fmt.Fprintf(a.out, "Restored %s from %s\n", a.cfg.DataFile, src)
	return nil
}
