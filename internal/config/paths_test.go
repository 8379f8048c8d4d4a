package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPaths(t *testing.T) {
	paths, err := GetPaths()
	require.NoError(t, err)
	require.NotNil(t, paths)

	assert.NotEmpty(t, paths.ExecutableDir)
	assert.True(t, filepath.IsAbs(paths.ExecutableDir))

	// All derived paths hang off the executable directory
	assert.Equal(t, filepath.Join(paths.ExecutableDir, "data"), paths.DataDir)
	assert.Equal(t, filepath.Join(paths.DataDir, "uploads"), paths.UploadsDir)
	assert.Equal(t, filepath.Join(paths.DataDir, "reports"), paths.ReportsDir)
	assert.Equal(t, filepath.Join(paths.DataDir, "cache"), paths.CacheDir)
	assert.Equal(t, filepath.Join(paths.ExecutableDir, "logs"), paths.LogsDir)
	assert.Equal(t, filepath.Join(paths.ExecutableDir, "web"), paths.WebDir)

	assert.Equal(t, filepath.Join(paths.ReportsDir, ResultsCSVName), paths.ResultsCSV)
	assert.Equal(t, filepath.Join(paths.ReportsDir, ResultsXLSXName), paths.ResultsXLSX)
}

func TestPathHelpers(t *testing.T) {
	paths := &Paths{
		ExecutableDir: "/app",
		DataDir:       "/app/data",
		UploadsDir:    "/app/data/uploads",
		ReportsDir:    "/app/data/reports",
		CacheDir:      "/app/data/cache",
		LogsDir:       "/app/logs",
		WebDir:        "/app/web",
		StaticDir:     "/app/web/static",
	}

	assert.Equal(t, filepath.Join("/app/data/uploads", "contracts.xlsx"), paths.GetUploadPath("contracts.xlsx"))
	assert.Equal(t, filepath.Join("/app/data/reports", ResultsCSVName), paths.GetReportPath(ResultsCSVName))
	assert.Equal(t, filepath.Join("/app/logs", "app.log"), paths.GetLogPath("app.log"))
	assert.Equal(t, filepath.Join("/app/data/cache", "tmp.bin"), paths.GetCachePath("tmp.bin"))
	assert.Equal(t, filepath.Join("/app/web", "index.html"), paths.GetWebFilePath("index.html"))
	assert.Equal(t, filepath.Join("/app/web/static", "app.js"), paths.GetStaticFilePath("app.js"))
	assert.Equal(t, filepath.Join("/app", "config.yaml"), paths.GetRelativePath("config.yaml"))
}

func TestEnsureDirectories(t *testing.T) {
	tempDir := t.TempDir()

	paths := &Paths{
		ExecutableDir: tempDir,
		DataDir:       filepath.Join(tempDir, "data"),
		UploadsDir:    filepath.Join(tempDir, "data", "uploads"),
		ReportsDir:    filepath.Join(tempDir, "data", "reports"),
		CacheDir:      filepath.Join(tempDir, "data", "cache"),
		LogsDir:       filepath.Join(tempDir, "logs"),
		WebDir:        filepath.Join(tempDir, "web"),
		StaticDir:     filepath.Join(tempDir, "web", "static"),
	}

	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{
		paths.DataDir, paths.UploadsDir, paths.ReportsDir,
		paths.CacheDir, paths.LogsDir, paths.WebDir, paths.StaticDir,
	} {
		info, err := os.Stat(dir)
		require.NoError(t, err, "directory %s should exist", dir)
		assert.True(t, info.IsDir())
	}
}

func TestFileExists(t *testing.T) {
	tempDir := t.TempDir()
	existing := filepath.Join(tempDir, "present.txt")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0644))

	assert.True(t, FileExists(existing))
	assert.False(t, FileExists(filepath.Join(tempDir, "absent.txt")))
}
