// Package store persists reduction results in a SQLite database.
//
// Every run gets a UUID. A run holds a verbatim copy of its input dataset
// under entry1/input/<name> and the derived fields under
// entry1/EDXD_elements/<field>, using the names of pipeline.FieldNames.
// Numeric values are stored as a JSON shape plus a little-endian float64
// blob; string lists are stored as JSON.
//
// The database uses modernc.org/sqlite, a CGO-free driver, so the
// binary cross-compiles without a C toolchain.
package store
