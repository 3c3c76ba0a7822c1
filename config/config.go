// Package config loads and saves the persistent settings shared across
// qpuasm's command-line modes: which ISA version to target by default,
// how the assembler and validator should behave, how the disassembler
// and inspector render output, and where the live-diagnostics server
// listens.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents qpuasm's on-disk configuration.
type Config struct {
	// Assembler settings
	Assembler struct {
		DefaultVersion string `toml:"default_version"` // "3.3", "4.0", "4.1", "4.2", "7.1"
		MaxErrors      int    `toml:"max_errors"`
		StopOnError    bool   `toml:"stop_on_error"`
		WarnUnusedSym  bool   `toml:"warn_unused_symbols"`
	} `toml:"assembler"`

	// Validator settings
	Validator struct {
		Enabled        bool `toml:"enabled"`
		TreatWarnAsErr bool `toml:"treat_warnings_as_errors"`
		MaxFindings    int  `toml:"max_findings"`
	} `toml:"validator"`

	// Display settings (disassembler and inspector)
	Display struct {
		ColorOutput   bool   `toml:"color_output"`
		ShowEncoding  bool   `toml:"show_encoding"`
		ShowAddresses bool   `toml:"show_addresses"`
		NumberFormat  string `toml:"number_format"` // hex, dec
		DisasmContext int    `toml:"disasm_context"`
	} `toml:"display"`

	// Inspector (TUI) settings
	Inspector struct {
		HistorySize  int  `toml:"history_size"`
		AutoValidate bool `toml:"auto_validate"`
		ShowFields   bool `toml:"show_fields"`
	} `toml:"inspector"`

	// Server settings for the live-diagnostics API/websocket server
	Server struct {
		ListenAddr      string `toml:"listen_addr"`
		BroadcastBuffer int    `toml:"broadcast_buffer"`
		EnableCORS      bool   `toml:"enable_cors"`
	} `toml:"server"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Assembler.DefaultVersion = "4.2"
	cfg.Assembler.MaxErrors = 50
	cfg.Assembler.StopOnError = false
	cfg.Assembler.WarnUnusedSym = true

	cfg.Validator.Enabled = true
	cfg.Validator.TreatWarnAsErr = false
	cfg.Validator.MaxFindings = 1000

	cfg.Display.ColorOutput = true
	cfg.Display.ShowEncoding = true
	cfg.Display.ShowAddresses = true
	cfg.Display.NumberFormat = "hex"
	cfg.Display.DisasmContext = 5

	cfg.Inspector.HistorySize = 1000
	cfg.Inspector.AutoValidate = true
	cfg.Inspector.ShowFields = true

	cfg.Server.ListenAddr = "127.0.0.1:8787"
	cfg.Server.BroadcastBuffer = 256
	cfg.Server.EnableCORS = false

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "qpuasm")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "qpuasm")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// GetLogPath returns the platform-specific log directory path.
func GetLogPath() string {
	var logDir string

	switch runtime.GOOS {
	case "windows":
		logDir = os.Getenv("APPDATA")
		if logDir == "" {
			logDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		logDir = filepath.Join(logDir, "qpuasm", "logs")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "logs"
		}
		logDir = filepath.Join(homeDir, ".local", "share", "qpuasm", "logs")

	default:
		return "logs"
	}

	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "logs"
	}

	return logDir
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
