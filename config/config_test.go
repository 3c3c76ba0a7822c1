package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Assembler.DefaultVersion != "4.2" {
		t.Errorf("Expected DefaultVersion=4.2, got %s", cfg.Assembler.DefaultVersion)
	}
	if cfg.Assembler.MaxErrors != 50 {
		t.Errorf("Expected MaxErrors=50, got %d", cfg.Assembler.MaxErrors)
	}

	if !cfg.Validator.Enabled {
		t.Error("Expected Validator.Enabled=true")
	}
	if cfg.Validator.TreatWarnAsErr {
		t.Error("Expected TreatWarnAsErr=false")
	}

	if cfg.Display.NumberFormat != "hex" {
		t.Errorf("Expected NumberFormat=hex, got %s", cfg.Display.NumberFormat)
	}
	if cfg.Display.DisasmContext != 5 {
		t.Errorf("Expected DisasmContext=5, got %d", cfg.Display.DisasmContext)
	}

	if cfg.Inspector.HistorySize != 1000 {
		t.Errorf("Expected HistorySize=1000, got %d", cfg.Inspector.HistorySize)
	}

	if cfg.Server.ListenAddr != "127.0.0.1:8787" {
		t.Errorf("Expected ListenAddr=127.0.0.1:8787, got %s", cfg.Server.ListenAddr)
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()

	if path == "" {
		t.Error("GetConfigPath returned empty string")
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("Expected path to end with config.toml, got %s", path)
	}

	switch runtime.GOOS {
	case "windows":
		if !filepath.IsAbs(path) && path != "config.toml" {
			t.Errorf("Expected absolute path on Windows, got %s", path)
		}

	case "darwin", "linux":
		dir := filepath.Dir(path)
		if filepath.Base(dir) != "qpuasm" && path != "config.toml" {
			t.Errorf("Expected path in qpuasm directory or fallback, got %s", path)
		}
	}
}

func TestGetLogPath(t *testing.T) {
	path := GetLogPath()

	if path == "" {
		t.Error("GetLogPath returned empty string")
	}

	switch runtime.GOOS {
	case "windows":
		if !filepath.IsAbs(path) && path != "logs" {
			t.Errorf("Expected absolute path on Windows, got %s", path)
		}

	case "darwin", "linux":
		if filepath.Base(path) != "logs" {
			t.Errorf("Expected path to end with logs, got %s", path)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.toml")

	cfg := DefaultConfig()
	cfg.Assembler.DefaultVersion = "7.1"
	cfg.Assembler.StopOnError = true
	cfg.Validator.MaxFindings = 10
	cfg.Display.ColorOutput = false
	cfg.Server.ListenAddr = "0.0.0.0:9000"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loaded.Assembler.DefaultVersion != "7.1" {
		t.Errorf("Expected DefaultVersion=7.1, got %s", loaded.Assembler.DefaultVersion)
	}
	if !loaded.Assembler.StopOnError {
		t.Error("Expected StopOnError=true")
	}
	if loaded.Validator.MaxFindings != 10 {
		t.Errorf("Expected MaxFindings=10, got %d", loaded.Validator.MaxFindings)
	}
	if loaded.Display.ColorOutput {
		t.Error("Expected ColorOutput=false")
	}
	if loaded.Server.ListenAddr != "0.0.0.0:9000" {
		t.Errorf("Expected ListenAddr=0.0.0.0:9000, got %s", loaded.Server.ListenAddr)
	}
}

func TestLoadNonExistent(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom should not error on non-existent file: %v", err)
	}

	if cfg.Assembler.DefaultVersion != "4.2" {
		t.Error("Expected default config when file doesn't exist")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalidTOML := `
[assembler]
max_errors = "not a number"  # Invalid: should be an int
`
	if err := os.WriteFile(configPath, []byte(invalidTOML), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err := LoadFrom(configPath)
	if err == nil {
		t.Error("Expected error when loading invalid TOML")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "subdir1", "subdir2", "config.toml")

	cfg := DefaultConfig()
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}

	dir := filepath.Dir(configPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Error("Parent directories were not created")
	}
}
