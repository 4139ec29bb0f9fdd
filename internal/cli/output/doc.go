// Package output renders todo-cli results as a table, JSON or YAML.
package output
