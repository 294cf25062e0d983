package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"standuphub/internal/config"
)

// withRunLock serializes pipeline invocations that write into the out
// directory. A held lock means another invocation is mid-write.
func withRunLock(cfg *config.Config, fn func() error) error {
	if err := os.MkdirAll(cfg.Paths.OutDir, 0o755); err != nil {
		return fmt.Errorf("ensure out directory: %w", err)
	}
	lock := flock.New(filepath.Join(cfg.Paths.OutDir, ".standuphub.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return errors.New("another standuphub run is already in progress")
	}
	defer func() {
		_ = lock.Unlock()
	}()
	return fn()
}
