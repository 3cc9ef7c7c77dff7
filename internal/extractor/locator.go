// Package extractor finds a local UmaExtractor install and runs it to
// export the veteran list as data.json.
package extractor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// CacheFileName stores the extractor path found by a previous run so
// later runs skip the directory scan.
const CacheFileName = ".umaextractor_path"

// ErrNotFound reports that no UmaExtractor install could be located.
var ErrNotFound = errors.New("UmaExtractor not found")

// Locator searches the usual install spots for UmaExtractor.
type Locator struct {
	// BaseDir is the tool's working directory; the cache file lives here
	// and the parent directory is searched first.
	BaseDir string
	// Home overrides the user home directory, for tests.
	Home string
	// ExtraRoots are scanned in addition to the standard locations.
	ExtraRoots []string
}

func (l *Locator) home() string {
	if l.Home != "" {
		return l.Home
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

func (l *Locator) cachePath() string {
	return filepath.Join(l.BaseDir, CacheFileName)
}

// CachedPath returns the extractor path remembered from a previous run,
// if it still exists on disk.
func (l *Locator) CachedPath() (string, bool) {
	b, err := os.ReadFile(l.cachePath())
	if err != nil {
		return "", false
	}
	saved := strings.TrimSpace(string(b))
	if saved == "" {
		return "", false
	}
	if _, err := os.Stat(saved); err != nil {
		return "", false
	}
	return saved, true
}

// SaveCachedPath remembers path for the next run. Failures are ignored;
// the cache is an optimization only.
func (l *Locator) SaveCachedPath(path string) {
	_ = os.WriteFile(l.cachePath(), []byte(path), 0o600)
}

// checkFolder probes one folder for the known extractor layouts: the
// PyInstaller dist exe, an exe dropped at the root, or the bare script.
func checkFolder(base string) (string, bool) {
	if _, err := os.Stat(base); err != nil {
		return "", false
	}
	candidates := []string{
		filepath.Join(base, "py", "dist", "UmaExtractor.exe"),
		filepath.Join(base, "UmaExtractor.exe"),
		filepath.Join(base, "py", "extract_umas.py"),
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, true
		}
	}
	return "", false
}

// scan walks dir looking for UmaExtractor.exe up to maxDepth levels
// down. Dot-directories are skipped and unreadable ones ignored.
func scan(dir string, maxDepth int) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(entry.Name(), "UmaExtractor.exe") {
			return filepath.Join(dir, entry.Name()), true
		}
	}
	if maxDepth <= 0 {
		return "", false
	}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if found, ok := scan(filepath.Join(dir, entry.Name()), maxDepth-1); ok {
			return found, true
		}
	}
	return "", false
}

// knownDirs are exact locations tried before any scan.
func (l *Locator) knownDirs() []string {
	parent := filepath.Dir(l.BaseDir)
	dirs := []string{filepath.Join(parent, "UmaExtractor")}
	if home := l.home(); home != "" {
		for _, sub := range []string{"Downloads", "Desktop", "Documents", "Dev"} {
			dirs = append(dirs, filepath.Join(home, sub, "UmaExtractor"))
		}
	}
	dirs = append(dirs,
		`C:\Program Files\UmaExtractor`,
		`C:\Program Files (x86)\UmaExtractor`,
		`C:\UmaExtractor`,
		`D:\UmaExtractor`,
	)
	return append(dirs, l.ExtraRoots...)
}

// ScanRoots lists the directories the deep scan covers, so a failed
// search can tell the user where it looked.
func (l *Locator) ScanRoots() []string {
	roots := []string{filepath.Dir(l.BaseDir)}
	home := l.home()
	if home == "" {
		return append(roots, l.ExtraRoots...)
	}
	roots = append(roots,
		filepath.Join(home, "Downloads"),
		filepath.Join(home, "Desktop"),
		filepath.Join(home, "Documents"),
	)
	// OneDrive can shadow Desktop and Documents, and localized installs
	// rename them, so every top-level OneDrive folder joins the scan.
	onedrive := filepath.Join(home, "OneDrive")
	if entries, err := os.ReadDir(onedrive); err == nil {
		roots = append(roots,
			filepath.Join(onedrive, "Desktop"),
			filepath.Join(onedrive, "Documents"),
			filepath.Join(onedrive, "Downloads"),
		)
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			dir := filepath.Join(onedrive, entry.Name())
			if dir == filepath.Join(onedrive, "Desktop") ||
				dir == filepath.Join(onedrive, "Documents") ||
				dir == filepath.Join(onedrive, "Downloads") {
				continue
			}
			roots = append(roots, dir)
		}
	}
	return append(roots, l.ExtraRoots...)
}

// Find locates the extractor: cached path first, then the known install
// folders, then a bounded scan of download-ish directories. The result
// is cached for the next run.
func (l *Locator) Find() (string, error) {
	if cached, ok := l.CachedPath(); ok {
		return cached, nil
	}
	for _, dir := range l.knownDirs() {
		if found, ok := checkFolder(dir); ok {
			l.SaveCachedPath(found)
			return found, nil
		}
	}
	for _, root := range l.ScanRoots() {
		if found, ok := scan(root, 4); ok {
			l.SaveCachedPath(found)
			return found, nil
		}
	}
	return "", ErrNotFound
}
