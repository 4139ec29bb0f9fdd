// Package config defines and loads the todo-cli configuration.
//
// Sources, lowest priority first: defaults, ~/.todo/cli.yaml (optional),
// TODO_* environment variables, then command-line flags applied by the
// command package.
package config
