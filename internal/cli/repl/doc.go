// Package repl provides the interactive shell for todo-cli.
//
// The shell keeps one session and notifier alive across commands, so a
// login is visible to every later line without re-reading the store.
package repl
