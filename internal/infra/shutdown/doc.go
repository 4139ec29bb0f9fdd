// Package shutdown coordinates graceful process termination.
//
// A Handler collects named hooks and runs them in reverse registration
// order, under a shared deadline, once SIGINT or SIGTERM arrives or the
// caller's context ends.
package shutdown
