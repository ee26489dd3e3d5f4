package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Backup copies the document at path into dir and returns the backup's
// path. Backup names sort by creation time.
func Backup(path, dir string, now time.Time) (string, error) {
	if _, err := ReadDocument(path); err != nil {
		return "", fmt.Errorf("backup: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	suffix := uuid.New().String()[:8]
	name := fmt.Sprintf("%s-%s-%s.json", base, now.UTC().Format("20060102-150405"), suffix)
	dest := filepath.Join(dir, name)
	if err := copyFile(path, dest); err != nil {
		return "", fmt.Errorf("backup: %w", err)
	}
	return dest, nil
}

// BackupInfo describes one backup file.
type BackupInfo struct {
	Path    string
	ModTime time.Time
	Size    int64
}

// ListBackups returns the JSON files in dir, newest first. A missing
// directory yields no backups.
func ListBackups(dir string) ([]BackupInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read backup dir: %w", err)
	}
	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Path:    filepath.Join(dir, entry.Name()),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}
	sort.Slice(backups, func(i, j int) bool {
		if !backups[i].ModTime.Equal(backups[j].ModTime) {
			return backups[i].ModTime.After(backups[j].ModTime)
		}
		return backups[i].Path > backups[j].Path
	})
	return backups, nil
}

// Restore replaces the document at path with the backup. The backup must
// parse as a task document.
func Restore(backup, path string) error {
	doc, err := ReadDocument(backup)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	if err := WriteDocument(path, doc); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
