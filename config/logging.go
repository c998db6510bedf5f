package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// MaxLogSize triggers a rotation of the log file when exceeded at start-up
const MaxLogSize = 10 * 1024 * 1024

// SetupLogging points the standard logger at the log file when debug is on,
// and discards output otherwise. The returned file is nil when discarding.
func SetupLogging(c LogConfig) (*os.File, error) {
	if !c.Debug {
		log.SetOutput(io.Discard)
		return nil, nil
	}

	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: create %s: %w", c.Dir, err)
	}

	path := filepath.Join(c.Dir, c.File)
	if info, err := os.Stat(path); err == nil && info.Size() > MaxLogSize {
		ext := filepath.Ext(c.File)
		rotated := filepath.Join(c.Dir, fmt.Sprintf("%s.%s%s", c.File[:len(c.File)-len(ext)], time.Now().Format("20060102-150405"), ext))
		if err := os.Rename(path, rotated); err != nil {
			return nil, fmt.Errorf("logging: rotate %s: %w", path, err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open %s: %w", path, err)
	}

	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	return f, nil
}
