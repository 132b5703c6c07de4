package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the pagemark home directory.
	DefaultDirName = ".pagemark"

	// ItemsDirName is the subdirectory for content items.
	ItemsDirName = "items"

	// MetaFileName is the file holding per-item settings.
	MetaFileName = "meta.yaml"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// Dir represents the pagemark home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.pagemark).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// ItemsPath returns the path to the content items directory.
func (d *Dir) ItemsPath() string {
	return filepath.Join(d.path, ItemsDirName)
}

// MetaPath returns the path to the per-item settings file.
func (d *Dir) MetaPath() string {
	return filepath.Join(d.path, MetaFileName)
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// ExportsDir returns the directory for exported files (markdown, etc.).
func (d *Dir) ExportsDir() string {
	return filepath.Join(d.path, "exports")
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	// Create items directory (this also creates the parent)
	if err := os.MkdirAll(d.ItemsPath(), 0o755); err != nil {
		return fmt.Errorf("failed to create items directory: %w", err)
	}
	return nil
}

// EnsureExportsDir creates the exports directory.
func (d *Dir) EnsureExportsDir() error {
	return os.MkdirAll(d.ExportsDir(), 0o755)
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}
