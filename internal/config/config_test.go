package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"taglog/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("TAGLOG_SERIAL_PORT", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "taglog")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.RegistryFile != filepath.Join(wantData, "tags.json") {
		t.Fatalf("unexpected registry file: %q", cfg.Paths.RegistryFile)
	}
	if cfg.Paths.LockFile != filepath.Join(wantData, "taglog.lock") {
		t.Fatalf("unexpected lock file: %q", cfg.Paths.LockFile)
	}
	if cfg.Serial.Port != "/dev/ttyUSB0" {
		t.Fatalf("unexpected serial port: %q", cfg.Serial.Port)
	}
	if cfg.Serial.BaudRate != 9600 {
		t.Fatalf("unexpected baud rate: %d", cfg.Serial.BaudRate)
	}
	if cfg.ReadTimeout() != time.Second {
		t.Fatalf("unexpected read timeout: %s", cfg.ReadTimeout())
	}
	if cfg.Serial.Marker != "DATA" {
		t.Fatalf("unexpected marker: %q", cfg.Serial.Marker)
	}
	if !cfg.Serial.WatchHotplug {
		t.Fatal("expected hotplug watching enabled by default")
	}
	if cfg.Display.TimeFormat != "15:04" {
		t.Fatalf("unexpected time format: %q", cfg.Display.TimeFormat)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Setenv("TAGLOG_SERIAL_PORT", "")
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "taglog.toml")

	type payload struct {
		Paths struct {
			DataDir string `toml:"data_dir"`
		} `toml:"paths"`
		Serial struct {
			Port     string `toml:"port"`
			BaudRate int    `toml:"baud_rate"`
			Marker   string `toml:"marker"`
		} `toml:"serial"`
		Display struct {
			TimeFormat string `toml:"time_format"`
		} `toml:"display"`
	}
	custom := payload{}
	custom.Paths.DataDir = filepath.Join(tempDir, "data")
	custom.Serial.Port = "/dev/ttyACM1"
	custom.Serial.BaudRate = 115200
	custom.Serial.Marker = "  SCAN "
	custom.Display.TimeFormat = "15:04:05"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Serial.Port != "/dev/ttyACM1" || cfg.Serial.BaudRate != 115200 {
		t.Fatalf("unexpected serial settings: %+v", cfg.Serial)
	}
	if cfg.Serial.Marker != "SCAN" {
		t.Fatalf("expected trimmed marker, got %q", cfg.Serial.Marker)
	}
	if cfg.Paths.RegistryFile != filepath.Join(tempDir, "data", "tags.json") {
		t.Fatalf("registry file should follow data dir, got %q", cfg.Paths.RegistryFile)
	}
	if cfg.Paths.LogDir == "" {
		t.Fatal("expected log dir to be set")
	}
	if cfg.Display.TimeFormat != "15:04:05" {
		t.Fatalf("unexpected time format: %q", cfg.Display.TimeFormat)
	}
}

func TestLoadSerialPortFromEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TAGLOG_SERIAL_PORT", " /dev/ttyS4 ")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Serial.Port != "/dev/ttyS4" {
		t.Fatalf("expected env port override, got %q", cfg.Serial.Port)
	}
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(configPath, []byte("[serial\nport = "), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestValidateRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"zero baud", func(c *config.Config) { c.Serial.BaudRate = 0 }, "serial.baud_rate"},
		{"negative timeout", func(c *config.Config) { c.Serial.ReadTimeoutMillis = -5 }, "serial.read_timeout_ms"},
		{"huge timeout", func(c *config.Config) { c.Serial.ReadTimeoutMillis = 120000 }, "serial.read_timeout_ms"},
		{"marker with delimiter", func(c *config.Config) { c.Serial.Marker = "DA,TA" }, "serial.marker"},
		{"empty time format", func(c *config.Config) { c.Display.TimeFormat = " " }, "display.time_format"},
		{"unknown color", func(c *config.Config) { c.Display.Color = "sometimes" }, "display.color"},
		{"unknown log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"unknown log level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateSampleLoadsCleanly(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TAGLOG_SERIAL_PORT", "")
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Serial.Marker != "DATA" || cfg.Serial.BaudRate != 9600 {
		t.Fatalf("sample config should match defaults, got %+v", cfg.Serial)
	}
}

func TestEncodeRoundTrips(t *testing.T) {
	cfg := config.Default()
	cfg.Serial.Port = "/dev/ttyACM0"
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(data), "/dev/ttyACM0") {
		t.Fatalf("expected encoded port, got %s", data)
	}
}
