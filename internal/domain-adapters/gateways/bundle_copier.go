package gateways

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gofrs/flock"

	"github.com/ochairo/snapverify/internal/domain/entities"
	"github.com/ochairo/snapverify/internal/domain/interfaces"
)

const lockSuffix = ".lock"

// BundleCopier duplicates a build output into its disposable working copy.
// The copy path is held under an exclusive file lock until Release is called.
// The lock file outlives a kept copy and is deleted together with a removed one.
type BundleCopier struct {
	logger     interfaces.Logger
	lock       *flock.Flock
	removeLock bool
}

// NewBundleCopier creates a new bundle copier
func NewBundleCopier(logger interfaces.Logger) *BundleCopier {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &BundleCopier{logger: logger}
}

// Duplicate removes any previous copy of sourcePath and copies it afresh
func (c *BundleCopier) Duplicate(ctx context.Context, sourcePath string) (*entities.Bundle, error) {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat build directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("build directory is not a directory: %s", sourcePath)
	}

	bundle := entities.NewBundle(sourcePath)

	if err := c.acquire(bundle.CopyPath + lockSuffix); err != nil {
		return nil, err
	}

	c.logger.Debug("removing previous copy", interfaces.F("path", bundle.CopyPath))
	if err := os.RemoveAll(bundle.CopyPath); err != nil {
		return nil, fmt.Errorf("failed to remove previous copy: %w", err)
	}

	c.logger.Info("copying bundle",
		interfaces.F("from", bundle.SourcePath),
		interfaces.F("to", bundle.CopyPath),
	)
	if err := copyTree(ctx, bundle.SourcePath, bundle.CopyPath); err != nil {
		return nil, fmt.Errorf("failed to copy bundle: %w", err)
	}

	return bundle, nil
}

// Remove deletes the working copy of bundle
func (c *BundleCopier) Remove(bundle *entities.Bundle) error {
	if err := os.RemoveAll(bundle.CopyPath); err != nil {
		return fmt.Errorf("failed to remove copy: %w", err)
	}
	if c.lock != nil && c.lock.Path() == bundle.CopyPath+lockSuffix {
		c.removeLock = true
	}
	c.logger.Debug("removed copy", interfaces.F("path", bundle.CopyPath))
	return nil
}

// Release drops the lock on the copy path. It is safe to call more than once.
func (c *BundleCopier) Release() error {
	if c.lock == nil {
		return nil
	}
	path := c.lock.Path()
	err := c.lock.Close()
	c.lock = nil

	if c.removeLock {
		c.removeLock = false
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = fmt.Errorf("failed to remove lock file: %w", rmErr)
		}
	}
	return err
}

func (c *BundleCopier) acquire(path string) error {
	if c.lock != nil {
		if c.lock.Path() == path {
			return nil
		}
		if err := c.Release(); err != nil {
			return fmt.Errorf("failed to release previous lock: %w", err)
		}
	}

	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		_ = lock.Close()
		return fmt.Errorf("failed to lock %s: %w", path, err)
	}
	if !ok {
		_ = lock.Close()
		return fmt.Errorf("another verification run holds %s", path)
	}

	c.lock = lock
	return nil
}
