package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"taglog/internal/serialport"
)

func newPortsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List serial ports and whether taglog can open them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			ports, err := serialport.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderPorts(ports, cfg.Serial.Port, serialport.CheckAccess, !isTerminal(out)))
			return nil
		},
	}
}

func renderPorts(ports []serialport.PortInfo, configured string, check func(string) error, plain bool) string {
	if len(ports) == 0 {
		return "No serial ports found."
	}
	rows := make([][]string, 0, len(ports))
	for _, p := range ports {
		access := "ok"
		if err := check(p.Name); err != nil {
			access = "denied"
		}
		name := p.Name
		if name == configured {
			name += " *"
		}
		rows = append(rows, []string{name, yesNo(p.IsUSB), p.USBID(), p.SerialNumber, p.Product, access})
	}
	return renderTable(tableSpec{
		headers: []string{"Port", "USB", "VID:PID", "Serial", "Product", "Access"},
		plain:   plain,
	}, rows)
}
