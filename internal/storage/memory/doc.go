// Package memory provides a process-local token store.
//
// Nothing written here survives a restart. It backs tests and the
// "memory" backend for throwaway sessions.
package memory
