package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1282saa/work-con/internal/utils"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestResolverFindsBuildInCandidates(t *testing.T) {
	appRoot := filepath.Join(t.TempDir(), "backend")

	// Development layout: sibling frontend/build.
	writeFile(t, filepath.Join(filepath.Dir(appRoot), "frontend", "build", "index.html"))
	writeFile(t, filepath.Join(filepath.Dir(appRoot), "frontend", "build", "static", "js", "main.js"))
	require.NoError(t, os.MkdirAll(appRoot, 0755))

	r := NewResolver(appRoot, utils.NewDiscardLogger())
	require.Len(t, r.Roots(), 1)

	index, ok := r.IndexPath()
	require.True(t, ok)
	assert.Equal(t, filepath.Join(filepath.Dir(appRoot), "frontend", "build", "index.html"), index)

	_, ok = r.Find(filepath.Join("static", "js", "main.js"))
	assert.True(t, ok)

	_, ok = r.Find("missing.txt")
	assert.False(t, ok)
}

func TestResolverPrefersLocalStaticDir(t *testing.T) {
	appRoot := t.TempDir()
	writeFile(t, filepath.Join(appRoot, "static", "index.html"))
	writeFile(t, filepath.Join(filepath.Dir(appRoot), "frontend", "build", "index.html"))

	r := NewResolver(appRoot, utils.NewDiscardLogger())
	require.Len(t, r.Roots(), 2)

	index, ok := r.IndexPath()
	require.True(t, ok)
	assert.Equal(t, filepath.Join(appRoot, "static", "index.html"), index)
}

func TestResolverWithoutBuild(t *testing.T) {
	r := NewResolver(filepath.Join(t.TempDir(), "backend"), utils.NewDiscardLogger())
	assert.Empty(t, r.Roots())

	_, ok := r.IndexPath()
	assert.False(t, ok)
}

func TestResolverListFiles(t *testing.T) {
	appRoot := t.TempDir()
	writeFile(t, filepath.Join(appRoot, "static", "index.html"))
	writeFile(t, filepath.Join(appRoot, "static", "static", "css", "main.css"))

	r := NewResolver(appRoot, utils.NewDiscardLogger())
	files := r.ListFiles()

	root := filepath.Join(appRoot, "static")
	require.Contains(t, files, root)
	assert.ElementsMatch(t, []string{
		"index.html",
		filepath.Join("static", "css", "main.css"),
	}, files[root])
}
