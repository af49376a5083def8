package crawler

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Crawler scans a directory for Python source files.
type Crawler struct {
	ignored []string
}

// NewCrawler creates a new crawler instance. extraIgnored adds directory
// names to skip on top of the defaults.
func NewCrawler(extraIgnored ...string) *Crawler {
	return &Crawler{
		ignored: append([]string{".git", "vendor", "node_modules", "__pycache__", ".venv", "venv"}, extraIgnored...),
	}
}

// ScanProject walks the root directory and streams every .py file path to the
// callback, preventing large memory buildup on big trees.
func (c *Crawler) ScanProject(root string, onFile func(path string)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip ignored directories
		if d.IsDir() {
			for _, ign := range c.ignored {
				if d.Name() == ign {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), ".py") {
			return nil
		}

		onFile(path)
		return nil
	})
}
