// Package command provides the todo-cli command tree.
//
// Every command shares one App per process: it is built on first use
// from the loaded configuration and closed when the CLI exits. The
// shell command reuses the same App for every line it reads.
package command
