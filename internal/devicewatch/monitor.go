package devicewatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"taglog/internal/logging"
)

// ErrUnavailable reports that the netlink socket could not be opened.
var ErrUnavailable = errors.New("hotplug monitoring unavailable")

const eventBuffer = 16

// Event describes a serial device appearing or disappearing.
type Event struct {
	Action string
	Device string
	Vendor string
	Model  string
	Serial string
}

// Attached reports whether the event is a device arrival.
func (e Event) Attached() bool {
	return e.Action == string(netlink.ADD)
}

// Monitor listens for tty add/remove uevents. An empty device watches every
// tty; otherwise only events for that device node are delivered.
type Monitor struct {
	logger   *slog.Logger
	device   string
	resolved string
	events   chan Event

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
}

// NewMonitor creates a monitor for device. Symlinks such as
// /dev/serial/by-id entries are resolved now, while the device is present,
// so removal events can still be matched.
func NewMonitor(device string, logger *slog.Logger) *Monitor {
	device = strings.TrimSpace(device)
	m := &Monitor{
		logger: logging.NewComponentLogger(logger, "devicewatch"),
		device: device,
		events: make(chan Event, eventBuffer),
	}
	if device != "" {
		if resolved, err := filepath.EvalSymlinks(device); err == nil {
			m.resolved = resolved
		}
	}
	return m
}

// Events delivers matched hotplug events. Events are dropped when the
// consumer falls behind.
func (m *Monitor) Events() <-chan Event {
	if m == nil {
		return nil
	}
	return m.events
}

// Start begins listening for udev netlink events.
func (m *Monitor) Start(ctx context.Context) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		logging.WarnWithContext(m.logger, "failed to connect to netlink socket", "netlink_connect_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "hotplug notices need access to the udev netlink socket"),
			logging.String(logging.FieldImpact, "reader unplug and replug will not be reported"),
		)
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.running = true

	quit := m.quit
	go m.monitorLoop(ctx, conn, quit)

	m.logger.Info("hotplug monitor started",
		logging.String(logging.FieldEventType, "hotplug_monitor_started"),
		logging.String(logging.FieldDevice, m.device),
	)
	return nil
}

// Stop shuts down the monitor. It is safe to call on a stopped monitor.
func (m *Monitor) Stop() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	if m.quit != nil {
		close(m.quit)
		m.quit = nil
	}
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.running = false

	m.logger.Info("hotplug monitor stopped",
		logging.String(logging.FieldEventType, "hotplug_monitor_stopped"),
	)
}

// Running reports whether the monitor is active.
func (m *Monitor) Running() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) monitorLoop(ctx context.Context, conn *netlink.UEventConn, quit <-chan struct{}) {
	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	monitorQuit := conn.Monitor(queue, errs, buildMatcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			m.handleEvent(uevent)
		case err := <-errs:
			logging.WarnWithContext(m.logger, "netlink monitor error", "netlink_monitor_error",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check kernel netlink subsystem"),
				logging.String(logging.FieldImpact, "hotplug notices may be missed"),
			)
		}
	}
}

// buildMatcher matches SUBSYSTEM=tty with ACTION=add|remove.
func buildMatcher() netlink.Matcher {
	action := "add|remove"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "tty",
		},
	})
	return rules
}

func (m *Monitor) handleEvent(uevent netlink.UEvent) {
	devname := extractDeviceName(uevent)
	if devname == "" {
		m.logger.Debug("ignoring event without device name",
			logging.String("action", string(uevent.Action)),
			logging.String("kobj", uevent.KObj),
		)
		return
	}
	if !m.matches(devname, uevent.Env["DEVLINKS"]) {
		return
	}

	event := Event{
		Action: string(uevent.Action),
		Device: devname,
		Vendor: firstNonEmpty(uevent.Env["ID_VENDOR_FROM_DATABASE"], uevent.Env["ID_VENDOR"], uevent.Env["ID_VENDOR_ID"]),
		Model:  firstNonEmpty(uevent.Env["ID_MODEL_FROM_DATABASE"], uevent.Env["ID_MODEL"], uevent.Env["ID_MODEL_ID"]),
		Serial: uevent.Env["ID_SERIAL_SHORT"],
	}

	m.logger.Info("serial device hotplug",
		logging.String(logging.FieldEventType, "device_"+event.Action),
		logging.String(logging.FieldDevice, devname),
		logging.String("vendor", event.Vendor),
		logging.String("model", event.Model),
	)

	select {
	case m.events <- event:
	default:
		m.logger.Debug("hotplug event dropped; consumer busy", logging.String(logging.FieldDevice, devname))
	}
}

func (m *Monitor) matches(devname, devlinks string) bool {
	if m.device == "" {
		return true
	}
	if devname == m.device || (m.resolved != "" && devname == m.resolved) {
		return true
	}
	for _, link := range strings.Fields(devlinks) {
		if link == m.device {
			return true
		}
	}
	return false
}

// extractDeviceName gets the device node from a uevent, falling back to the
// last DEVPATH element (e.g. /devices/.../tty/ttyUSB0).
func extractDeviceName(uevent netlink.UEvent) string {
	if devname := uevent.Env["DEVNAME"]; devname != "" {
		if !strings.HasPrefix(devname, "/") {
			devname = "/dev/" + devname
		}
		return devname
	}

	devpath := uevent.Env["DEVPATH"]
	if devpath == "" {
		return ""
	}
	parts := strings.Split(devpath, "/")
	last := parts[len(parts)-1]
	if last == "" {
		return ""
	}
	return "/dev/" + last
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
