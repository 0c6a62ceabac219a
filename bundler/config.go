// CLAUDE:SUMMARY Bundler configuration (paths, merged names, asset lists), defaults and YAML loader.
package bundler

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/ptdbuild/horosafe"
)

// Config holds every value the build used to hard-code.
type Config struct {
	// Root is the project directory. Relative paths below resolve against it.
	// Default: ".".
	Root string `json:"root" yaml:"root"`

	// InputHTML is the HTML entry point. Default: "ptd.html".
	InputHTML string `json:"input_html" yaml:"input_html"`

	// OutputDir receives the bundle. Default: "deploy".
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// MergedJS is the merged script file name inside OutputDir. Default: "ptd.js".
	MergedJS string `json:"merged_js" yaml:"merged_js"`

	// MergedHTML is the rewritten HTML file name inside OutputDir. Default: "ptd.html".
	MergedHTML string `json:"merged_html" yaml:"merged_html"`

	// ImportsID is the id of the element grouping the script imports.
	// Default: "js_imports".
	ImportsID string `json:"imports_id" yaml:"imports_id"`

	// Files are copied verbatim into OutputDir. nil means style.css and LICENSE;
	// an explicit empty list copies nothing.
	Files []string `json:"files" yaml:"files"`

	// Dirs are copied recursively into OutputDir, replacing any previous copy.
	Dirs []string `json:"dirs" yaml:"dirs"`

	// Logger for progress and debug messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

// DefaultFiles is the asset file list used when Config.Files is nil.
var DefaultFiles = []string{"style.css", "LICENSE"}

func (c *Config) defaults() {
	if c.Root == "" {
		c.Root = "."
	}
	if c.InputHTML == "" {
		c.InputHTML = "ptd.html"
	}
	if c.OutputDir == "" {
		c.OutputDir = "deploy"
	}
	if c.MergedJS == "" {
		c.MergedJS = "ptd.js"
	}
	if c.MergedHTML == "" {
		c.MergedHTML = "ptd.html"
	}
	if c.ImportsID == "" {
		c.ImportsID = "js_imports"
	}
	if c.Files == nil {
		c.Files = append([]string(nil), DefaultFiles...)
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Validate checks names that end up as paths under OutputDir.
func (c *Config) Validate() error {
	if err := horosafe.ValidateFileName(c.MergedJS); err != nil {
		return fmt.Errorf("merged_js: %w", err)
	}
	if err := horosafe.ValidateFileName(c.MergedHTML); err != nil {
		return fmt.Errorf("merged_html: %w", err)
	}
	if c.ImportsID == "" {
		return fmt.Errorf("imports_id must not be empty")
	}
	for _, f := range c.Files {
		if _, err := horosafe.SafePath(c.OutputDir, f); err != nil {
			return fmt.Errorf("files: %q: %w", f, err)
		}
	}
	for _, d := range c.Dirs {
		if _, err := horosafe.SafePath(c.OutputDir, d); err != nil {
			return fmt.Errorf("dirs: %q: %w", d, err)
		}
	}
	return nil
}

// path resolves p against Root unless it is absolute.
func (c *Config) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// LoadConfigFile reads a YAML config file. Defaults are applied by New.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}
