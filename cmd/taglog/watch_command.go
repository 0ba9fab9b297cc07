package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"taglog/internal/devicewatch"
	"taglog/internal/ingest"
	"taglog/internal/logging"
	"taglog/internal/preflight"
	"taglog/internal/serialport"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var noStart bool
	var device string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Log tag scans from the reader in an interactive session",
		Long: `Open the reader and log every scan until you quit.

Unknown tags are named interactively: the next line you type becomes the
tag's name. Type 'help' inside the session for the other commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, reg, logger, err := ctx.openRegistry(cmd)
			if err != nil {
				return err
			}
			if device != "" {
				cfg.Serial.Port = device
			}

			if result := preflight.CheckDevice("Reader device", cfg.Serial.Port); !result.Passed {
				logging.WarnWithContext(logger, "reader device preflight failed", "device_preflight_failed",
					logging.String(logging.FieldDevice, cfg.Serial.Port),
					logging.String("detail", result.Detail),
					logging.String(logging.FieldErrorHint, "run `taglog ports` to list available devices"),
					logging.String(logging.FieldImpact, "starting the session will likely fail"))
			}

			settings := serialport.Settings{
				Device:      cfg.Serial.Port,
				BaudRate:    cfg.Serial.BaudRate,
				ReadTimeout: cfg.ReadTimeout(),
			}
			loop := ingest.New(reg, serialOpener(settings), ingest.Options{
				Marker:     cfg.Serial.Marker,
				TimeFormat: cfg.Display.TimeFormat,
				LockPath:   cfg.Paths.LockFile,
				Device:     cfg.Serial.Port,
			}, logger)

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var monitor *devicewatch.Monitor
			if cfg.Serial.WatchHotplug {
				monitor = devicewatch.NewMonitor(cfg.Serial.Port, logger)
				if err := monitor.Start(runCtx); err != nil {
					monitor = nil
				}
			}

			out := cmd.OutOrStdout()
			session := &watchSession{
				loop:     loop,
				registry: reg,
				monitor:  monitor,
				logger:   logger,
				in:       cmd.InOrStdin(),
				out:      out,
				colorize: shouldColorize(out, cfg.Display.Color),
				plain:    !isTerminal(out),
			}
			return session.run(runCtx, !noStart)
		},
	}

	cmd.Flags().BoolVar(&noStart, "no-start", false, "Open the session without starting the reader")
	cmd.Flags().StringVar(&device, "device", "", "Serial device to read from (overrides serial.port)")
	return cmd
}
