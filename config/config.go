// Package config loads and saves simulator configuration as TOML,
// adapted from the teacher's config package but scoped to the RV32I
// domain: execution limits and trace/display preferences only, since
// this simulator has no assembler, debugger, or disassembler.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const appName = "rv32i-sim"

// Config represents the simulator's configuration.
type Config struct {
	// Execution settings
	Execution struct {
		MaxCycles   uint64 `toml:"max_cycles"`
		MemorySize  int    `toml:"memory_size"`
		EntryPoint  string `toml:"entry_point"`
		EnableTrace bool   `toml:"enable_trace"`
	} `toml:"execution"`

	// Display settings
	Display struct {
		ColorOutput  bool   `toml:"color_output"`
		NumberFormat string `toml:"number_format"` // hex or dec
	} `toml:"display"`

	// Trace settings
	Trace struct {
		OutputFile string `toml:"output_file"`
		MaxEntries int    `toml:"max_entries"`
	} `toml:"trace"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.MaxCycles = 1000000
	cfg.Execution.MemorySize = 16 * 1024 * 1024
	cfg.Execution.EntryPoint = "0x0"
	cfg.Execution.EnableTrace = false

	cfg.Display.ColorOutput = true
	cfg.Display.NumberFormat = "hex"

	cfg.Trace.OutputFile = "trace.log"
	cfg.Trace.MaxEntries = 100000

	return cfg
}

// appDir resolves base (as returned by os.UserConfigDir or
// os.UserCacheDir) into a per-app directory and makes sure it exists.
// A failure to resolve base, or to create the directory, falls back
// to fallback instead of the per-app path.
func appDir(base string, baseErr error, fallback string) string {
	if baseErr != nil {
		return fallback
	}
	dir := filepath.Join(base, appName)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fallback
	}
	return dir
}

// GetConfigPath returns the platform-specific config file path,
// rooted at os.UserConfigDir (e.g. $XDG_CONFIG_HOME or ~/.config on
// Linux, %AppData% on Windows, ~/Library/Application Support on
// macOS). A relative "config.toml" is used as a last resort when the
// platform directory can't be determined or created.
func GetConfigPath() string {
	base, err := os.UserConfigDir()
	return filepath.Join(appDir(base, err, "."), "config.toml")
}

// GetLogPath returns the platform-specific trace/log directory,
// rooted at os.UserCacheDir. Callers are responsible for naming the
// individual trace file within it.
func GetLogPath() string {
	base, err := os.UserCacheDir()
	dir := appDir(base, err, ".")
	if dir == "." {
		return "logs"
	}
	return filepath.Join(dir, "logs")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file. A missing
// file is not an error: the default configuration is returned.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %q: %w", path, err)
	}
	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes configuration to path as TOML, creating the parent
// directory if necessary and writing through a temporary file first so
// a failed encode never clobbers an existing config.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("creating config directory %q: %w", dir, err)
		}
	}

	tmp, err := os.CreateTemp(dir, ".rv32i-sim-config-*.tmp") // #nosec G304 -- derived from a host-resolved config path
	if err != nil {
		return fmt.Errorf("creating temporary config file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if err := toml.NewEncoder(tmp).Encode(c); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temporary config file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("installing config at %q: %w", path, err)
	}
	return nil
}
