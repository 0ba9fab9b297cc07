package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"taglog/internal/devicewatch"
	"taglog/internal/preflight"
)

func newDevicesCommand(ctx *commandContext) *cobra.Command {
	var follow bool
	var all bool

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "Show the reader device and optionally follow hotplug events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out, cfg.Display.Color)

			result := preflight.CheckDevice("Reader device", cfg.Serial.Port)
			fmt.Fprintln(out, renderCheckLine(result.Name, checkKind(result), result.Detail, colorize))
			if !follow {
				return nil
			}

			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			device := cfg.Serial.Port
			if all {
				device = ""
			}
			monitor := devicewatch.NewMonitor(device, logger)

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := monitor.Start(runCtx); err != nil {
				return err
			}
			defer monitor.Stop()

			fmt.Fprintln(out, "Watching for serial device changes (Ctrl+C to stop)...")
			for {
				select {
				case <-runCtx.Done():
					return nil
				case ev := <-monitor.Events():
					writeDeviceEvent(out, ev, colorize)
				}
			}
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Stream add/remove events until interrupted")
	cmd.Flags().BoolVar(&all, "all", false, "With --follow, report every tty device instead of only the reader")
	return cmd
}

func writeDeviceEvent(out io.Writer, ev devicewatch.Event, colorize bool) {
	kind, verb := statusWarn, "removed"
	if ev.Attached() {
		kind, verb = statusOK, "added"
	}
	detail := ev.Device
	if ev.Vendor != "" || ev.Model != "" {
		detail = fmt.Sprintf("%s (%s %s)", ev.Device, ev.Vendor, ev.Model)
	}
	fmt.Fprintln(out, renderCheckLine(verb, kind, detail, colorize))
}

func checkKind(result preflight.Result) statusKind {
	if result.Passed {
		return statusOK
	}
	return statusError
}
