// Package scanline decodes the comma-separated lines emitted by the tag
// reader. A usable line starts with the configured marker and carries
// exactly five fields: marker, label, date, time, and tag identifier.
// Anything else is reported as a parse error so callers can drop it.
package scanline
