package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"taglog/internal/devicewatch"
	"taglog/internal/ingest"
	"taglog/internal/logging"
	"taglog/internal/registry"
)

const watchHelp = `Commands:
  start                 start logging tag data
  stop                  stop logging
  add <id> <name>       register a tag
  rename <id> <name>    rename a registered tag
  remove <id>           delete a registered tag
  list                  show registered tags
  log                   show scans recorded in this session
  help                  show this help
  quit                  stop logging and exit`

// watchSession is the interactive presentation for the ingestion loop. It
// runs on one goroutine: input lines, records, naming requests, loop errors,
// and hotplug events are handled in the order they arrive.
type watchSession struct {
	loop     *ingest.Loop
	registry *registry.Registry
	monitor  *devicewatch.Monitor
	logger   *slog.Logger
	in       io.Reader
	out      io.Writer
	colorize bool
	plain    bool

	records []ingest.Record
	pending *ingest.NameRequest
}

// run drives the session until quit, cancellation, or end of input while
// the loop is idle. The loop is always stopped and the session log printed
// before run returns.
func (s *watchSession) run(ctx context.Context, autoStart bool) error {
	done := make(chan struct{})
	defer close(done)
	lines := readLines(s.in, done)

	fmt.Fprintln(s.out, "Type 'help' for commands.")
	if autoStart {
		s.start(ctx)
	}

	for {
		var pendingDone <-chan struct{}
		if s.pending != nil {
			pendingDone = s.pending.Done()
		}

		select {
		case <-ctx.Done():
			s.shutdown()
			return nil
		case line, ok := <-lines:
			if !ok {
				lines = nil
				if !s.loop.State().Active() {
					s.shutdown()
					return nil
				}
				continue
			}
			if quit := s.handleLine(ctx, line); quit {
				s.shutdown()
				return nil
			}
		case rec := <-s.loop.Records():
			s.showRecord(rec)
		case req := <-s.loop.NameRequests():
			s.pending = req
			s.promptName()
		case <-pendingDone:
			s.pending = nil
		case err := <-s.loop.Errors():
			fmt.Fprintln(s.out, paint(statusError, "Error: "+err.Error(), s.colorize))
			if s.loop.State() == ingest.StateFailed {
				fmt.Fprintln(s.out, renderStatus(statusError, "Logging stopped", s.colorize))
				if lines == nil {
					s.shutdown()
					return nil
				}
			}
		case ev := <-s.monitor.Events():
			s.showDeviceEvent(ev)
		}
	}
}

func readLines(r io.Reader, done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()
	return lines
}

// handleLine reports whether the session should end.
func (s *watchSession) handleLine(ctx context.Context, line string) bool {
	if s.pending != nil {
		s.answer(line)
		return false
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	command, args := strings.ToLower(fields[0]), fields[1:]

	switch command {
	case "start":
		s.start(ctx)
	case "stop":
		s.stop()
	case "add":
		if len(args) < 2 {
			s.usage("add <id> <name>")
			return false
		}
		s.report(s.registry.Set(args[0], strings.Join(args[1:], " ")), "Registered %s as %s", args[0], strings.Join(args[1:], " "))
	case "rename":
		if len(args) < 2 {
			s.usage("rename <id> <name>")
			return false
		}
		s.report(s.registry.Rename(args[0], strings.Join(args[1:], " ")), "Renamed %s to %s", args[0], strings.Join(args[1:], " "))
	case "remove":
		if len(args) != 1 {
			s.usage("remove <id>")
			return false
		}
		s.report(s.registry.Remove(args[0]), "Removed %s", args[0])
	case "list":
		fmt.Fprintln(s.out, renderRegistry(s.registry.List(), s.plain))
	case "log":
		fmt.Fprintln(s.out, renderSessionLog(s.records, s.plain))
	case "help", "?":
		fmt.Fprintln(s.out, watchHelp)
	case "quit", "exit":
		return true
	default:
		fmt.Fprintf(s.out, "Unknown command %q. Type 'help' for commands.\n", command)
	}
	return false
}

func (s *watchSession) start(ctx context.Context) {
	if err := s.loop.Start(ctx); err != nil {
		if errors.Is(err, ingest.ErrAlreadyRunning) {
			fmt.Fprintln(s.out, "Logging is already running.")
			return
		}
		fmt.Fprintln(s.out, paint(statusError, "Error: "+err.Error(), s.colorize))
		fmt.Fprintln(s.out, renderStatus(statusError, "Logging stopped", s.colorize))
		return
	}
	fmt.Fprintln(s.out, renderStatus(statusOK, "Logging tag data...", s.colorize))
}

func (s *watchSession) stop() {
	if !s.loop.State().Active() {
		fmt.Fprintln(s.out, "Logging is not running.")
		return
	}
	s.loop.Stop()
	s.pending = nil
	fmt.Fprintln(s.out, renderStatus(statusInfo, "Logging stopped", s.colorize))
}

func (s *watchSession) shutdown() {
	if s.loop.State().Active() {
		s.loop.Stop()
		fmt.Fprintln(s.out, renderStatus(statusInfo, "Logging stopped", s.colorize))
	}
	s.monitor.Stop()
	if len(s.records) > 0 {
		fmt.Fprintln(s.out, renderSessionLog(s.records, s.plain))
	}
}

func (s *watchSession) promptName() {
	req := s.pending
	if req.Label != "" {
		fmt.Fprintf(s.out, "New tag %s scanned (reader label %q). Enter a name:\n", req.TagID, req.Label)
		return
	}
	fmt.Fprintf(s.out, "New tag %s scanned. Enter a name:\n", req.TagID)
}

func (s *watchSession) answer(line string) {
	err := s.pending.Respond(line)
	switch {
	case err == nil, errors.Is(err, ingest.ErrAlreadyAnswered):
		s.pending = nil
	case errors.Is(err, registry.ErrValidation):
		fmt.Fprintln(s.out, paint(statusWarn, "Name cannot be empty!", s.colorize))
		s.promptName()
	default:
		fmt.Fprintln(s.out, paint(statusError, "Error: "+err.Error(), s.colorize))
	}
}

func (s *watchSession) showRecord(rec ingest.Record) {
	s.records = append(s.records, rec)
	fmt.Fprintf(s.out, "%s %s  %s  %s\n", rec.Date, rec.Time, rec.Label, rec.TagID)
	fmt.Fprintln(s.out, renderStatus(statusOK, fmt.Sprintf("%s scanned at %s", rec.Label, rec.Time), s.colorize))
}

func (s *watchSession) showDeviceEvent(ev devicewatch.Event) {
	if ev.Attached() {
		msg := fmt.Sprintf("Reader %s connected", ev.Device)
		if s.loop.State() != ingest.StateReading {
			msg += "; type 'start' to resume logging"
		}
		fmt.Fprintln(s.out, renderStatus(statusInfo, msg, s.colorize))
		return
	}
	fmt.Fprintln(s.out, renderStatus(statusWarn, fmt.Sprintf("Reader %s disconnected", ev.Device), s.colorize))
	s.logger.Info("reader unplugged during session",
		logging.String(logging.FieldEventType, "reader_unplugged"),
		logging.String(logging.FieldDevice, ev.Device),
		logging.String("loop_state", s.loop.State().String()))
}

func (s *watchSession) report(err error, format string, args ...any) {
	if err != nil {
		fmt.Fprintln(s.out, paint(statusError, "Error: "+err.Error(), s.colorize))
		return
	}
	fmt.Fprintf(s.out, format+"\n", args...)
}

func (s *watchSession) usage(syntax string) {
	fmt.Fprintf(s.out, "Usage: %s\n", syntax)
}

func renderSessionLog(records []ingest.Record, plain bool) string {
	if len(records) == 0 {
		return "No scans recorded in this session."
	}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{rec.Label, rec.Date, rec.Time, rec.TagID})
	}
	return renderTable(tableSpec{
		title:   "Session log",
		headers: []string{"Label", "Date", "Time", "Tag ID"},
		plain:   plain,
	}, rows)
}

func renderRegistry(entries []registry.Entry, plain bool) string {
	if len(entries) == 0 {
		return "No tags registered."
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Name, e.TagID})
	}
	return renderTable(tableSpec{
		headers: []string{"Name", "Tag ID"},
		plain:   plain,
	}, rows)
}
