package serialport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"go.bug.st/serial"
)

// ErrConnection reports that the serial device could not be opened or read.
var ErrConnection = errors.New("serial connection error")

const (
	// DefaultBaudRate matches the reader firmware.
	DefaultBaudRate = 9600
	// DefaultReadTimeout bounds each blocking read.
	DefaultReadTimeout = time.Second
)

// Port is the subset of a serial connection the ingestion loop needs.
type Port interface {
	io.Reader
	Close() error
}

// Settings describes how to open the reader device.
type Settings struct {
	Device      string
	BaudRate    int
	ReadTimeout time.Duration
}

func (s Settings) withDefaults() Settings {
	s.Device = strings.TrimSpace(s.Device)
	if s.BaudRate <= 0 {
		s.BaudRate = DefaultBaudRate
	}
	if s.ReadTimeout <= 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	return s
}

// Open connects to the device described by s.
func Open(s Settings) (Port, error) {
	s = s.withDefaults()
	if s.Device == "" {
		return nil, fmt.Errorf("%w: no serial device configured", ErrConnection)
	}

	mode := &serial.Mode{
		BaudRate: s.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(s.Device, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w%s", ErrConnection, s.Device, err, hint(err))
	}
	if err := port.SetReadTimeout(s.ReadTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("%w: set read timeout on %s: %w", ErrConnection, s.Device, err)
	}
	return port, nil
}

// Opener returns a context-aware open function bound to s.
func Opener(s Settings) func(context.Context) (Port, error) {
	return func(ctx context.Context) (Port, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return Open(s)
	}
}

func hint(err error) string {
	var portErr *serial.PortError
	if errors.As(err, &portErr) {
		switch portErr.Code() {
		case serial.PortNotFound:
			return " (device not found; is the reader plugged in?)"
		case serial.PermissionDenied:
			return " (permission denied; add the user to the dialout group)"
		case serial.PortBusy:
			return " (device busy; another program has it open)"
		}
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return " (device not found; is the reader plugged in?)"
	case errors.Is(err, fs.ErrPermission):
		return " (permission denied; add the user to the dialout group)"
	}
	return ""
}
