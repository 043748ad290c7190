// Package memory provides in-memory implementations of driven ports.
//
// Store keeps memoirs and chunks in maps guarded by one lock and ranks them
// with a per-memoir BM25 index. It backs tests and the --in-memory flag.
package memory
