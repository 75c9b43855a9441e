// Package driver wires source loading, scanning and parsing into the
// operations the CLI exposes: validating a string or a file, tokenizing a
// file and checking a whole directory in parallel.
package driver
