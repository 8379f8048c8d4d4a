package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths
// This is the single source of truth for ALL file paths in the application
type Paths struct {
	ExecutableDir string
	WebDir        string
	StaticDir     string
	DataDir       string
	UploadsDir    string
	ReportsDir    string
	CacheDir      string
	LogsDir       string

	// Well-known report files
	ResultsCSV  string
	ResultsXLSX string
}

// GetPaths returns the application paths relative to the executable location
// All paths are ALWAYS relative to the executable directory, never the current working directory
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	exeDir := filepath.Dir(exe)

	// Directory structure:
	// <exe dir>/
	//   ├── data/
	//   │   ├── uploads/    (Uploaded contract datasets)
	//   │   ├── reports/    (Exported rent statements)
	//   │   └── cache/      (Temporary files)
	//   ├── logs/           (Application logs)
	//   └── web/            (Frontend assets)

	dataDir := filepath.Join(exeDir, "data")
	reportsDir := filepath.Join(dataDir, "reports")

	paths := &Paths{
		ExecutableDir: exeDir,
		DataDir:       dataDir,
		WebDir:        filepath.Join(exeDir, "web"),
		StaticDir:     filepath.Join(exeDir, "web", "static"),
		UploadsDir:    filepath.Join(dataDir, "uploads"),
		ReportsDir:    reportsDir,
		CacheDir:      filepath.Join(dataDir, "cache"),
		LogsDir:       filepath.Join(exeDir, "logs"),

		ResultsCSV:  filepath.Join(reportsDir, ResultsCSVName),
		ResultsXLSX: filepath.Join(reportsDir, ResultsXLSXName),
	}

	return paths, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.UploadsDir,
		p.ReportsDir,
		p.CacheDir,
		p.LogsDir,
		p.WebDir,
		p.StaticDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}

		if logger != nil {
			logger.Debug("Ensured directory exists",
				slog.String("directory", dir))
		}
	}

	return nil
}

// GetRelativePath returns a path relative to the executable directory
func (p *Paths) GetRelativePath(subpath string) string {
	return filepath.Join(p.ExecutableDir, subpath)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// GetUploadPath returns the path for an uploaded dataset file
func (p *Paths) GetUploadPath(filename string) string {
	return filepath.Join(p.UploadsDir, filename)
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetCachePath returns the path for a cache file
func (p *Paths) GetCachePath(filename string) string {
	return filepath.Join(p.CacheDir, filename)
}

// GetWebFilePath returns the path to a web file
func (p *Paths) GetWebFilePath(filename string) string {
	return filepath.Join(p.WebDir, filename)
}

// GetStaticFilePath returns the path to a static file
func (p *Paths) GetStaticFilePath(filename string) string {
	return filepath.Join(p.StaticDir, filename)
}

// LogPathResolution logs detailed path resolution information for debugging
func (p *Paths) LogPathResolution() {
	logger := slog.Default()
	if logger == nil {
		return
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("executable", p.ExecutableDir),
			slog.String("data", p.DataDir),
			slog.String("uploads", p.UploadsDir),
			slog.String("reports", p.ReportsDir),
			slog.String("cache", p.CacheDir),
			slog.String("logs", p.LogsDir),
			slog.String("web", p.WebDir),
		),
		slog.Group("report_files",
			slog.String("results_csv", p.ResultsCSV),
			slog.String("results_xlsx", p.ResultsXLSX),
		))
}
