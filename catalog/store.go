package catalog

import (
	"fmt"
	"os"
	"path/filepath"
)

// BackupSuffix is appended to the catalog path for the sibling backup file.
const BackupSuffix = ".backup"

// Load reads and decodes a catalog file. Any read or decode failure is
// fatal to the run; there is no partial recovery.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return c, nil
}

// SaveOptions controls catalog persistence.
type SaveOptions struct {
	// RemoveStale prunes entries with extractionState "stale" before writing.
	RemoveStale bool
	// SkipBackup disables the sibling backup of the previous file.
	SkipBackup bool
}

// Save serializes the catalog and replaces the file at path atomically.
// Unless SkipBackup is set, the previous on-disk file is first moved to
// path + ".backup"; a missing previous file is not an error.
func Save(c *Catalog, path string, opts SaveOptions) error {
	if opts.RemoveStale {
		c.RemoveStale()
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	if !opts.SkipBackup {
		if err := Backup(path); err != nil {
			return err
		}
	}

	return writeAtomic(path, data)
}

// Backup moves the file at path to its sibling backup path. Best-effort:
// a missing original is not an error.
func Backup(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if err := os.Rename(path, path+BackupSuffix); err != nil {
		return fmt.Errorf("backing up %s: %w", path, err)
	}
	return nil
}

// writeAtomic writes data to a temp file in the target directory and
// renames it over path, so concurrent readers never observe a partial
// write.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions on %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
