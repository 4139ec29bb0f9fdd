// Package file provides a token store backed by a single JSON document.
//
// The document is rewritten atomically (temp file + rename) with 0600
// permissions. When a seal key is configured, values are encrypted with
// XChaCha20-Poly1305 and bound to their key name as additional data.
package file
