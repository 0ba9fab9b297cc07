// Package ingest runs the scan ingestion loop: it owns the serial session,
// turns reader lines into scan records, and resolves display names through
// the tag registry.
//
// A Loop moves through Idle, Connecting, Reading, Stopped, and Failed.
// Start opens the port synchronously so connection errors reach the caller;
// reading then continues on a background goroutine until Stop is called, the
// parent context ends, or the port fails. Records are delivered on Records in
// the order their lines arrived.
//
// When a scanned identifier is not registered the loop publishes a
// NameRequest on NameRequests and waits for the presentation layer to call
// Respond. The name is stored in the registry before the record is emitted,
// so every emitted record refers to a registered identifier.
package ingest
