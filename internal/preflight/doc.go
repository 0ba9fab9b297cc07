// Package preflight provides readiness checks for the reader device and the
// filesystem paths taglog depends on.
//
// These checks run in two contexts:
//   - The CLI "taglog check" command runs RunAll and prints every result.
//   - The watch session runs CheckDevice before opening the reader so a
//     missing or unreadable device is explained before the connection error.
package preflight
