// Package registry maps tag identifiers to human-assigned display names.
//
// The mapping is held in memory and mirrored to a single JSON file holding a
// flat object of identifier to name. The file is read once when the registry
// is opened and rewritten in full after every mutation, so the on-disk copy
// always matches memory after a successful call. A failed write leaves the
// in-memory mapping unchanged.
//
// Registry methods are safe for concurrent use: the ingestion loop registers
// newly scanned tags while the interactive session adds, renames, and removes
// entries.
//
// # Storage
//
//	{
//	  "04A1B2C3": "Alice",
//	  "UID123": "Carl"
//	}
//
// There is no schema version; any content that is not a JSON object of strings
// fails to load with ErrStorageFormat.
package registry
