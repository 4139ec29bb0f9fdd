// Package main provides the entry point for todo-cli.
//
// todo-cli is the terminal client for the todo backend. It supports
// single-command mode and an interactive shell.
package main
