// Package textutil holds the small string helpers shared by taglog packages.
//
// Tag identifiers and display names are stored exactly as given, so nothing
// here rewrites them. Names are ordered for display with Unicode collation,
// which keeps "alice" beside "Alice" and "Émile" beside "Emile".
package textutil
