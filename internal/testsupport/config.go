package testsupport

import (
	"path/filepath"
	"testing"

	"taglog/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.RegistryFile = filepath.Join(base, "data", "tags.json")
	cfgVal.Paths.LockFile = filepath.Join(base, "data", "taglog.lock")
	cfgVal.Serial.Port = filepath.Join(base, "dev", "ttyTEST0")
	cfgVal.Serial.WatchHotplug = false
	cfgVal.Display.Color = "never"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure test directories: %v", err)
	}
	return builder.cfg
}

// WithSerialPort overrides the reader device path on the test config.
func WithSerialPort(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Serial.Port = path
	}
}

// WithMarker overrides the line marker on the test config.
func WithMarker(marker string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Serial.Marker = marker
	}
}

// WithTimeFormat overrides the displayed time-of-day layout.
func WithTimeFormat(layout string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Display.TimeFormat = layout
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
