package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Counts holds the number of regular files and directories found under a root.
type Counts struct {
	Files   int
	Folders int
}

// CountFilesAndFolders counts the regular files and directories inside dir.
// The root itself is not counted. Symlinks and other special entries are skipped.
func CountFilesAndFolders(dir string, recursive bool) (Counts, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return Counts{}, fmt.Errorf("CountFilesAndFolders: stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return Counts{}, fmt.Errorf("CountFilesAndFolders: %s is not a directory", dir)
	}

	if !recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return Counts{}, fmt.Errorf("CountFilesAndFolders: read %s: %w", dir, err)
		}
		var c Counts
		for _, e := range entries {
			c.add(e)
		}
		return c, nil
	}

	var c Counts
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == dir {
			return nil
		}
		c.add(d)
		return nil
	})
	if err != nil {
		return Counts{}, fmt.Errorf("CountFilesAndFolders: walk %s: %w", dir, err)
	}
	return c, nil
}

func (c *Counts) add(d fs.DirEntry) {
	switch {
	case d.IsDir():
		c.Folders++
	case d.Type().IsRegular():
		c.Files++
	}
}
