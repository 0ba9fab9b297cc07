// Package main hosts the taglog CLI entrypoint and command graph.
//
// The Cobra command tree is the presentation layer for the tag logger: the
// watch command runs an interactive session that renders scan records,
// answers naming requests, and forwards start/stop and registry edits to the
// ingestion loop. The remaining commands manage the tag registry, inspect
// serial ports and hotplug events, run preflight checks, and scaffold
// configuration.
//
// Keep this package lean: domain behaviour lives in internal/ packages and is
// only surfaced here.
package main
