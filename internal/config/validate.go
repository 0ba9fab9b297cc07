package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSerial(); err != nil {
		return err
	}
	if err := c.validateDisplay(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSerial() error {
	if c.Serial.BaudRate <= 0 {
		return errors.New("serial.baud_rate must be positive")
	}
	if c.Serial.ReadTimeoutMillis <= 0 || c.Serial.ReadTimeoutMillis > maxReadTimeoutMillis {
		return fmt.Errorf("serial.read_timeout_ms must be between 1 and %d", maxReadTimeoutMillis)
	}
	if strings.Contains(c.Serial.Marker, ",") {
		return errors.New("serial.marker must not contain the field delimiter ','")
	}
	return nil
}

func (c *Config) validateDisplay() error {
	if strings.TrimSpace(c.Display.TimeFormat) == "" {
		return errors.New("display.time_format must be set")
	}
	switch c.Display.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("display.color: unsupported value %q (use auto, always, or never)", c.Display.Color)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
