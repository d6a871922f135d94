package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"
)

// logTimeLayout sorts lexically in chronological order
const logTimeLayout = "2006-01-02T15-04-05"

// SetupLogFile opens a new "<name>-<timestamp>.log" file in dir and prunes
// older files of the same name so at most maxFiles remain. A non-positive
// maxFiles keeps everything. The caller closes the file.
func SetupLogFile(dir, name string, maxFiles int) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("%s-%s.log", name, time.Now().Format(logTimeLayout)))
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	if maxFiles > 0 {
		if err := pruneLogs(dir, name, maxFiles); err != nil {
			// Logging still works, only the cleanup failed
			fmt.Fprintf(os.Stderr, "warning: failed to prune old logs: %v\n", err)
		}
	}
	return f, nil
}

func pruneLogs(dir, name string, keep int) error {
	files, err := filepath.Glob(filepath.Join(dir, name+"-*.log"))
	if err != nil {
		return err
	}
	if len(files) <= keep {
		return nil
	}

	slices.Sort(files)
	for _, file := range files[:len(files)-keep] {
		if err := os.Remove(file); err != nil {
			return fmt.Errorf("remove %s: %w", file, err)
		}
	}
	return nil
}
