package snapshot

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/skuehn/lernbox/internal/domain/leitner"
)

// WriteFile writes the snapshot to path atomically: the CSV is written to
// a temporary file in the destination directory and renamed over the
// target, so a failure never leaves a partial or corrupted file. The
// parent directory must already exist; any destination that cannot be
// written fails with ErrInvalidDestination.
func WriteFile(path string, snap leitner.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".lernbox-*.csv")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidDestination, path, err)
	}
	tmpPath := tmp.Name()
	_ = os.Chmod(tmpPath, 0o644)

	bw := bufio.NewWriter(tmp)
	if err := Encode(bw, snap); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %s: %v", ErrInvalidDestination, path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %s: %v", ErrInvalidDestination, path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %s: %v", ErrInvalidDestination, path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %s: %v", ErrInvalidDestination, path, err)
	}

	// Crash safety, best effort: persist the rename itself.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	return nil
}

// ReadFile reads and decodes a snapshot file. compartmentOverride follows
// Decode's semantics: zero infers the count from the data.
func ReadFile(path string, compartmentOverride int) (leitner.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return leitner.Snapshot{}, fmt.Errorf("snapshot: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return Decode(bufio.NewReader(f), compartmentOverride)
}
