// Package storage provides JSON file persistence for the bill tracker.
//
// It writes the dashboard document and reads and writes the member contact
// cache. Relative paths are resolved against the data directory, and every
// write goes to a temporary file that is renamed into place so readers never
// see a partial file.
package storage
