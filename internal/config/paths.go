package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved file locations used by the pipeline
type Paths struct {
	BaseDir     string
	InputFile   string
	CleanedFile string
	CleanedDir  string
	LogFile     string
}

// GetPaths resolves data and log paths against BaseDir.
// An empty BaseDir means the current working directory.
func (c *Config) GetPaths() (*Paths, error) {
	base := c.Data.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}

	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory %s: %w", base, err)
	}

	cleaned := resolve(base, c.Data.CleanedFile)
	return &Paths{
		BaseDir:     base,
		InputFile:   resolve(base, c.Data.InputFile),
		CleanedFile: cleaned,
		CleanedDir:  filepath.Dir(cleaned),
		LogFile:     resolve(base, c.Logging.FilePath),
	}, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LogPathResolution logs all resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Path resolution",
		slog.String("base_dir", p.BaseDir),
		slog.String("input_file", p.InputFile),
		slog.Bool("input_exists", FileExists(p.InputFile)),
		slog.String("cleaned_file", p.CleanedFile),
		slog.Bool("cleaned_exists", FileExists(p.CleanedFile)),
		slog.String("log_file", p.LogFile))
}
