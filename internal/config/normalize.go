package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSerial()
	c.normalizeDisplay()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.RegistryFile) == "" {
		c.Paths.RegistryFile = filepath.Join(c.Paths.DataDir, defaultRegistryFileName)
	}
	if c.Paths.RegistryFile, err = expandPath(c.Paths.RegistryFile); err != nil {
		return fmt.Errorf("paths.registry_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.LockFile) == "" {
		c.Paths.LockFile = filepath.Join(c.Paths.DataDir, defaultLockFileName)
	}
	if c.Paths.LockFile, err = expandPath(c.Paths.LockFile); err != nil {
		return fmt.Errorf("paths.lock_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeSerial() {
	if value, ok := os.LookupEnv("TAGLOG_SERIAL_PORT"); ok && strings.TrimSpace(value) != "" {
		c.Serial.Port = value
	}
	c.Serial.Port = strings.TrimSpace(c.Serial.Port)
	c.Serial.Marker = strings.TrimSpace(c.Serial.Marker)
	if c.Serial.Marker == "" {
		c.Serial.Marker = defaultMarker
	}
}

func (c *Config) normalizeDisplay() {
	if strings.TrimSpace(c.Display.TimeFormat) == "" {
		c.Display.TimeFormat = defaultTimeFormat
	}
	c.Display.Color = strings.ToLower(strings.TrimSpace(c.Display.Color))
	if c.Display.Color == "" {
		c.Display.Color = defaultColorMode
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
