// Package serialport opens the tag reader's serial connection and frames
// its byte stream into text lines.
//
// Open configures the device for 8N1 at the requested baud rate with a
// bounded read timeout, so a Read that sees no data returns (0, nil) after
// the timeout instead of blocking forever. LineReader builds on that
// behaviour: Next reports "no line yet" on a timed-out read, which lets the
// ingestion loop check for cancellation between reads.
//
// List enumerates the serial ports known to the operating system with USB
// metadata where available, and CheckAccess verifies that a device node
// can be opened for reading and writing by the current user.
package serialport
