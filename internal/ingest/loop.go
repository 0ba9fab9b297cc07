package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"taglog/internal/logging"
	"taglog/internal/registry"
	"taglog/internal/scanline"
	"taglog/internal/serialport"
)

// ErrAlreadyRunning is returned by Start while a session is active.
var ErrAlreadyRunning = errors.New("ingestion loop already running")

const (
	defaultTimeFormat   = "15:04"
	defaultRecordBuffer = 16
	errorBuffer         = 16
)

// Record is one scan ready for display.
type Record struct {
	Label string
	// Date is the date field carried by the scanned line.
	Date string
	// Time is the wall-clock time of reception, formatted with Options.TimeFormat.
	Time       string
	TagID      string
	ReceivedAt time.Time
}

// OpenFunc opens the serial session.
type OpenFunc func(ctx context.Context) (serialport.Port, error)

// Options tune a Loop.
type Options struct {
	// Marker is the token that starts a data line. Empty selects scanline.DefaultMarker.
	Marker string
	// TimeFormat is the layout used for Record.Time.
	TimeFormat string
	// LockPath, when set, is flocked for the lifetime of a session so only
	// one process reads the device at a time.
	LockPath string
	// RecordBuffer is the capacity of the Records channel.
	RecordBuffer int
	// Device names the reader in log lines.
	Device string
}

// Loop is the scan ingestion loop.
type Loop struct {
	registry *registry.Registry
	open     OpenFunc
	opts     Options
	logger   *slog.Logger
	lock     *flock.Flock
	now      func() time.Time

	records  chan Record
	requests chan *NameRequest
	errs     chan error

	runMu sync.Mutex

	mu     sync.Mutex
	state  State
	err    error
	cancel context.CancelFunc
	done   chan struct{}
}

// New constructs an idle loop.
func New(reg *registry.Registry, open OpenFunc, opts Options, logger *slog.Logger) *Loop {
	opts.Marker = strings.TrimSpace(opts.Marker)
	if opts.Marker == "" {
		opts.Marker = scanline.DefaultMarker
	}
	if strings.TrimSpace(opts.TimeFormat) == "" {
		opts.TimeFormat = defaultTimeFormat
	}
	if opts.RecordBuffer <= 0 {
		opts.RecordBuffer = defaultRecordBuffer
	}

	l := &Loop{
		registry: reg,
		open:     open,
		opts:     opts,
		logger:   logging.NewComponentLogger(logger, "ingest"),
		now:      time.Now,
		records:  make(chan Record, opts.RecordBuffer),
		requests: make(chan *NameRequest),
		errs:     make(chan error, errorBuffer),
	}
	if strings.TrimSpace(opts.LockPath) != "" {
		l.lock = flock.New(opts.LockPath)
	}
	return l
}

// Records delivers scan records in arrival order.
func (l *Loop) Records() <-chan Record { return l.records }

// NameRequests delivers naming requests for unregistered tags.
func (l *Loop) NameRequests() <-chan *NameRequest { return l.requests }

// Errors delivers failures that happen after Start returned: read errors
// and registry writes that failed while naming a tag.
func (l *Loop) Errors() <-chan error { return l.errs }

// State returns the current lifecycle state.
func (l *Loop) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Err returns the error that moved the loop to StateFailed, if any.
func (l *Loop) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Start opens the serial session and begins reading in the background.
// Connection failures move the loop to StateFailed and are returned wrapped
// in serialport.ErrConnection. Start does not retry.
func (l *Loop) Start(ctx context.Context) error {
	l.runMu.Lock()
	defer l.runMu.Unlock()

	l.mu.Lock()
	if l.state.Active() {
		l.mu.Unlock()
		return ErrAlreadyRunning
	}
	previous, previousCancel := l.done, l.cancel
	l.state = StateConnecting
	l.err = nil
	l.cancel = nil
	l.mu.Unlock()

	if previousCancel != nil {
		previousCancel()
	}
	if previous != nil {
		<-previous
	}

	if err := l.acquireLock(); err != nil {
		return l.failStart(err)
	}

	port, err := l.open(ctx)
	if err != nil {
		l.releaseLock()
		if !errors.Is(err, serialport.ErrConnection) {
			err = fmt.Errorf("%w: %w", serialport.ErrConnection, err)
		}
		return l.failStart(err)
	}

	sessionID := uuid.NewString()
	runCtx, cancel := context.WithCancel(logging.WithSessionID(ctx, sessionID))
	done := make(chan struct{})

	l.mu.Lock()
	l.state = StateReading
	l.cancel = cancel
	l.done = done
	l.mu.Unlock()

	logging.WithContext(runCtx, l.logger).Info("serial session opened",
		logging.String(logging.FieldEventType, "session_started"),
		logging.String(logging.FieldDevice, l.opts.Device),
		logging.String("marker", l.opts.Marker))

	go l.run(runCtx, port, done)
	return nil
}

// Stop ends the active session, closes the port, and waits for the reader
// goroutine to exit. Stop on an inactive loop is a no-op.
func (l *Loop) Stop() {
	l.runMu.Lock()
	defer l.runMu.Unlock()

	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel = nil
	l.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (l *Loop) failStart(err error) error {
	l.mu.Lock()
	l.state = StateFailed
	l.err = err
	l.mu.Unlock()

	logging.ErrorWithContext(l.logger, "failed to open serial session", "session_open_failed",
		logging.Error(err),
		logging.String(logging.FieldDevice, l.opts.Device),
		logging.String(logging.FieldErrorHint, "check the reader is plugged in and the device path is correct"))
	return err
}

func (l *Loop) acquireLock() error {
	if l.lock == nil {
		return nil
	}
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("%w: acquire session lock %s: %w", serialport.ErrConnection, l.opts.LockPath, err)
	}
	if !ok {
		return fmt.Errorf("%w: another taglog session holds %s", serialport.ErrConnection, l.opts.LockPath)
	}
	return nil
}

func (l *Loop) releaseLock() {
	if l.lock == nil {
		return
	}
	if err := l.lock.Unlock(); err != nil {
		logging.WarnWithContext(l.logger, "failed to release session lock", "session_lock_release_failed",
			logging.Error(err),
			logging.String("lock", l.opts.LockPath),
			logging.String(logging.FieldImpact, "the next session may report the device as busy"))
	}
}

func (l *Loop) run(ctx context.Context, port serialport.Port, done chan struct{}) {
	defer close(done)
	logger := logging.WithContext(ctx, l.logger)

	reader := serialport.NewLineReader(port)
	err := l.readLoop(ctx, logger, reader)

	if cerr := port.Close(); cerr != nil {
		logger.Debug("serial port close failed", logging.Error(cerr))
	}
	l.releaseLock()
	if dropped := reader.Dropped(); dropped > 0 {
		logger.Debug("oversized lines dropped", logging.Int("count", dropped))
	}

	if err != nil && ctx.Err() == nil {
		l.mu.Lock()
		l.state = StateFailed
		l.err = err
		l.mu.Unlock()
		logging.ErrorWithContext(logger, "serial session failed", "session_failed",
			logging.Error(err),
			logging.String(logging.FieldDevice, l.opts.Device),
			logging.String(logging.FieldErrorHint, "reconnect the reader and start logging again"))
		l.report(err)
		return
	}

	l.mu.Lock()
	l.state = StateStopped
	l.mu.Unlock()
	logger.Info("serial session closed", logging.String(logging.FieldEventType, "session_stopped"))
}

func (l *Loop) readLoop(ctx context.Context, logger *slog.Logger, reader *serialport.LineReader) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		line, ok, err := reader.Next()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("%w: read %s: %w", serialport.ErrConnection, l.opts.Device, err)
		}
		if !ok {
			continue
		}

		event, err := scanline.Parse(line, l.opts.Marker)
		if err != nil {
			logger.Debug("ignoring serial line", logging.String("line", line), logging.Error(err))
			continue
		}

		name, ok := l.resolveName(ctx, logger, event)
		if !ok {
			continue
		}

		received := l.now()
		record := Record{
			Label:      name,
			Date:       event.Date,
			Time:       received.Format(l.opts.TimeFormat),
			TagID:      event.TagID,
			ReceivedAt: received,
		}
		select {
		case l.records <- record:
		case <-ctx.Done():
			return nil
		}
		logger.Info("tag scanned",
			logging.String(logging.FieldEventType, "tag_scanned"),
			logging.String(logging.FieldTagID, record.TagID),
			logging.String("label", record.Label))
	}
}

// resolveName returns the registered name for event, asking the
// presentation layer and registering the answer when the tag is unknown.
// ok is false when the scan should be dropped.
func (l *Loop) resolveName(ctx context.Context, logger *slog.Logger, event scanline.Event) (string, bool) {
	if name, ok := l.registry.Get(event.TagID); ok {
		return name, true
	}

	logger.Info("unregistered tag scanned; requesting name",
		logging.String(logging.FieldEventType, "name_requested"),
		logging.String(logging.FieldTagID, event.TagID))

	req := newNameRequest(ctx, event.TagID, event.Label)
	select {
	case l.requests <- req:
	case <-ctx.Done():
		return "", false
	}

	var name string
	select {
	case name = <-req.reply:
	case <-ctx.Done():
		return "", false
	}

	if err := l.registry.Set(event.TagID, name); err != nil {
		logging.WarnWithContext(logger, "failed to register scanned tag", "tag_register_failed",
			logging.Error(err),
			logging.String(logging.FieldTagID, event.TagID),
			logging.String(logging.FieldErrorHint, "check the registry file is writable"),
			logging.String(logging.FieldImpact, "scan dropped; the tag will be requested again on its next scan"))
		l.report(fmt.Errorf("register %s: %w", event.TagID, err))
		return "", false
	}
	return name, true
}

func (l *Loop) report(err error) {
	select {
	case l.errs <- err:
	default:
		l.logger.Debug("error channel full; dropping error", logging.Error(err))
	}
}
