package main

import (
	"strings"
	"testing"

	"taglog/internal/ingest"
	"taglog/internal/registry"
	"taglog/internal/serialport"
)

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(tableSpec{headers: []string{"A", "B", "C"}, plain: true}, [][]string{{"1"}, {"x", "y", "z"}})
	if !strings.Contains(out, "| 1 |") {
		t.Fatalf("short row not rendered:\n%s", out)
	}
	if !strings.Contains(out, "| A | B | C |") {
		t.Fatalf("header missing:\n%s", out)
	}
	if renderTable(tableSpec{}, nil) != "" {
		t.Fatal("expected empty output without headers")
	}
}

func TestRenderSessionLog(t *testing.T) {
	if got := renderSessionLog(nil, true); got != "No scans recorded in this session." {
		t.Fatalf("empty log = %q", got)
	}
	out := renderSessionLog([]ingest.Record{
		{Label: "Alice", Date: "2024-01-01", Time: "10:42", TagID: "UID1"},
		{Label: "Bob", Date: "2024-01-01", Time: "10:43", TagID: "UID2"},
	}, true)
	for _, want := range []string{"Session log", "LABEL", "TAG ID", "Alice", "UID2", "10:43"} {
		if !strings.Contains(strings.ToUpper(out), strings.ToUpper(want)) {
			t.Fatalf("session log missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Alice") > strings.Index(out, "Bob") {
		t.Fatalf("records out of order:\n%s", out)
	}
}

func TestRenderRegistry(t *testing.T) {
	if got := renderRegistry(nil, true); got != "No tags registered." {
		t.Fatalf("empty registry = %q", got)
	}
	out := renderRegistry([]registry.Entry{{TagID: "UID1", Name: "Alice"}}, true)
	if !strings.Contains(out, "Alice") || !strings.Contains(out, "UID1") {
		t.Fatalf("registry table missing entry:\n%s", out)
	}
}

func TestRenderPorts(t *testing.T) {
	if got := renderPorts(nil, "", nil, true); got != "No serial ports found." {
		t.Fatalf("empty ports = %q", got)
	}
	ports := []serialport.PortInfo{
		{Name: "/dev/ttyS0"},
		{Name: "/dev/ttyUSB0", IsUSB: true, VID: "10c4", PID: "ea60", Product: "CP2102"},
	}
	check := func(name string) error {
		if name == "/dev/ttyS0" {
			return serialport.ErrConnection
		}
		return nil
	}
	out := renderPorts(ports, "/dev/ttyUSB0", check, true)
	for _, want := range []string{"/dev/ttyUSB0 *", "10c4:ea60", "CP2102", "denied", "ok"} {
		if !strings.Contains(out, want) {
			t.Fatalf("ports table missing %q:\n%s", want, out)
		}
	}
}
