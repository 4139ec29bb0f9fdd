// Command todo-stub runs a local development backend for the todo
// client: sign-up, login, /me and per-user todos held in memory.
//
// Usage:
//
//	todo-stub [-config stub.yaml]
//
// Settings come from defaults, the optional YAML file and TODO_STUB_*
// environment variables. Editing log.level in the file takes effect
// without a restart.
package main
