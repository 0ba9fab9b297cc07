package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"taglog/internal/config"
	"taglog/internal/ingest"
	"taglog/internal/logging"
	"taglog/internal/registry"
	"taglog/internal/serialport"
	"taglog/internal/textutil"
)

// serialOpener builds the open function used by the watch session.
var serialOpener = func(settings serialport.Settings) ingest.OpenFunc {
	return ingest.OpenFunc(serialport.Opener(settings))
}

type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	log        *slog.Logger
	logErr     error
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(c.flagPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

func (c *commandContext) flagPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) verbose() bool {
	return c.verboseFlag != nil && *c.verboseFlag
}

// logger returns the file logger for this invocation, teed to stderr when
// --verbose is set.
func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logErr = err
			return
		}
		var console = cmd.ErrOrStderr()
		if !c.verbose() {
			console = nil
		}
		c.log, c.logErr = logging.NewFromConfig(cfg, console)
	})
	return c.log, c.logErr
}

func (c *commandContext) openRegistry(cmd *cobra.Command) (*config.Config, *registry.Registry, *slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := c.logger(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	reg, err := registry.Open(cfg.Paths.RegistryFile, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, reg, logger, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	return textutil.Ternary(value, "yes", "no")
}
