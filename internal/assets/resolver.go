package assets

import (
	"os"
	"path/filepath"

	"github.com/1282saa/work-con/internal/utils"
)

// Resolver locates the built single-page app. The frontend build lands in
// ./static inside the container and in ../frontend/build during local
// development; whichever exists first wins for index.html.
type Resolver struct {
	roots  []string
	logger *utils.Logger
}

// NewResolver probes the candidate directories relative to appRoot.
func NewResolver(appRoot string, logger *utils.Logger) *Resolver {
	candidates := []string{
		filepath.Join(appRoot, "static"),
		filepath.Join(filepath.Dir(appRoot), "frontend", "build"),
	}

	var roots []string
	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			roots = append(roots, dir)
			logger.LogInfo("Static path found: %s", dir)
		}
	}

	return &Resolver{roots: roots, logger: logger}
}

// Roots returns the candidate directories that exist.
func (r *Resolver) Roots() []string {
	return r.roots
}

// Find returns the absolute path of relPath within the first root that
// contains it as a regular file.
func (r *Resolver) Find(relPath string) (string, bool) {
	for _, root := range r.roots {
		full := filepath.Join(root, relPath)
		if info, err := os.Stat(full); err == nil && info.Mode().IsRegular() {
			return full, true
		}
	}
	return "", false
}

// IndexPath returns the path of index.html, or ok=false when no frontend
// build is present.
func (r *Resolver) IndexPath() (string, bool) {
	return r.Find("index.html")
}

// ListFiles walks every root and returns the relative paths it serves,
// keyed by root. Used by the debug endpoint.
func (r *Resolver) ListFiles() map[string][]string {
	files := make(map[string][]string)
	for _, root := range r.roots {
		var paths []string
		filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil || info.IsDir() {
				return nil
			}
			if rel, err := filepath.Rel(root, path); err == nil {
				paths = append(paths, rel)
			}
			return nil
		})
		files[root] = paths
	}
	return files
}
