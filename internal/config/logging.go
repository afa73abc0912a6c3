package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// SetupLogFile opens a fresh timestamped log file under dir, pruning the
// oldest files beyond maxFiles. The caller owns the returned handle. Used in
// dev, where logs are mirrored to disk alongside stdout.
func SetupLogFile(dir string, maxFiles int) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	name := filepath.Join(dir, fmt.Sprintf("docintegrity-%s.log",
		time.Now().Format("2006-01-02T15-04-05")))

	f, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	// Pruning failure is not fatal; the new file is already open.
	if err := pruneOldLogs(dir, maxFiles); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to prune old logs: %v\n", err)
	}

	return f, nil
}

func pruneOldLogs(dir string, maxFiles int) error {
	files, err := filepath.Glob(filepath.Join(dir, "docintegrity-*.log"))
	if err != nil {
		return err
	}
	if len(files) <= maxFiles {
		return nil
	}

	// The timestamp in the name sorts chronologically.
	sort.Strings(files)
	for _, f := range files[:len(files)-maxFiles] {
		if err := os.Remove(f); err != nil {
			return fmt.Errorf("remove %s: %w", f, err)
		}
	}
	return nil
}
