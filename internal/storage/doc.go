// Package storage provides the durable token store of the client.
//
// The store is a tiny key/value capability (get/set/remove) that must
// survive process restarts. It holds exactly one value in practice: the
// bearer token under DefaultKey.
//
// Backends:
//
//   - badger.go: embedded Badger KV with synchronous writes
//   - file/: a single JSON document, optionally sealed at rest
//   - sqlite/: a one-table SQLite database in WAL mode
//   - memory/: process-local map, for tests and ephemeral sessions
//
// All backends report absence with ErrNotFound and treat removal of an
// absent key as success.
package storage
