package scanline

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultMarker prefixes every data line the reader emits.
	DefaultMarker = "DATA"
	// Delimiter separates the fields of a data line.
	Delimiter = ","
	// FieldCount is the number of fields in a well-formed data line.
	FieldCount = 5
)

var (
	// ErrNoMarker reports a line that does not begin with the marker.
	ErrNoMarker = errors.New("line does not start with marker")
	// ErrFieldCount reports a marked line with the wrong number of fields.
	ErrFieldCount = errors.New("unexpected field count")
	// ErrEmptyTagID reports a marked line whose identifier field is empty.
	ErrEmptyTagID = errors.New("empty tag id")
)

// Event is one decoded scan line.
type Event struct {
	Marker string
	Label  string
	Date   string
	Time   string
	TagID  string
}

// Parse decodes line into an Event. An empty marker selects DefaultMarker.
func Parse(line, marker string) (Event, error) {
	if marker == "" {
		marker = DefaultMarker
	}
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, marker) {
		return Event{}, ErrNoMarker
	}

	fields := strings.Split(line, Delimiter)
	if len(fields) != FieldCount {
		return Event{}, fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(fields), FieldCount)
	}
	event := Event{
		Marker: fields[0],
		Label:  fields[1],
		Date:   fields[2],
		Time:   fields[3],
		TagID:  fields[4],
	}
	if event.TagID == "" {
		return Event{}, ErrEmptyTagID
	}
	return event, nil
}
