package serialport

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// PortInfo describes one serial port known to the operating system.
type PortInfo struct {
	Name         string
	IsUSB        bool
	VID          string
	PID          string
	SerialNumber string
	Product      string
}

// List returns the available serial ports sorted by name. USB metadata is
// filled in when the platform enumerator supports it.
func List() ([]PortInfo, error) {
	details, detailErr := enumerator.GetDetailedPortsList()
	if detailErr == nil {
		ports := make([]PortInfo, 0, len(details))
		for _, d := range details {
			if d == nil {
				continue
			}
			ports = append(ports, PortInfo{
				Name:         d.Name,
				IsUSB:        d.IsUSB,
				VID:          d.VID,
				PID:          d.PID,
				SerialNumber: d.SerialNumber,
				Product:      d.Product,
			})
		}
		sortPorts(ports)
		return ports, nil
	}

	names, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", errors.Join(detailErr, err))
	}
	ports := make([]PortInfo, 0, len(names))
	for _, name := range names {
		ports = append(ports, PortInfo{Name: name})
	}
	sortPorts(ports)
	return ports, nil
}

func sortPorts(ports []PortInfo) {
	slices.SortFunc(ports, func(a, b PortInfo) int { return cmp.Compare(a.Name, b.Name) })
}

// USBID formats the vendor and product identifiers as VID:PID.
func (p PortInfo) USBID() string {
	if !p.IsUSB || (p.VID == "" && p.PID == "") {
		return ""
	}
	return p.VID + ":" + p.PID
}
