// Package logger provides structured logging for the todo client and the
// development backend.
//
// It wraps log/slog and adds:
//
//   - JSON and text output formats
//   - A process-wide level that can be changed at runtime
//   - Redaction of credentials (bearer tokens, JWTs, password fields)
//   - Context propagation of request IDs
package logger
