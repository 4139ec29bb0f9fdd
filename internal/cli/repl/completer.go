package repl

import "strings"

// Completer provides command completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer for the todo-cli commands.
func NewCompleter() *Completer {
	return &Completer{
		commands: []string{
			"login", "signup", "logout", "status", "me", "ping",
			"todo", "todo list", "todo add", "todo done", "todo undo", "todo rm",
			"config", "config show", "config init", "config path",
			"help", "exit", "quit",
		},
	}
}

// Complete returns completion suggestions for the given prefix.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}

// TopLevel returns the commands without subcommands.
func (c *Completer) TopLevel() []string {
	var out []string
	for _, cmd := range c.commands {
		if !strings.Contains(cmd, " ") {
			out = append(out, cmd)
		}
	}
	return out
}
