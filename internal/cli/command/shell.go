package command

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/Archi470/Todo-Mobile-Application/internal/cli/config"
	"github.com/Archi470/Todo-Mobile-Application/internal/cli/repl"
)

// errShellGlobalFlag is returned for a shell line that starts with a
// flag. Global flags are read once, when the shell starts.
var errShellGlobalFlag = errors.New("global flags are set when starting the shell, not per line")

const shellDescription = `Global flags such as --base-url and --output are given when starting
the shell (todo-cli -o json shell) and apply to every line.`

func shellCommand(c *CLI) *cli.Command {
	return &cli.Command{
		Name:        "shell",
		Usage:       "Start an interactive shell that keeps the session open",
		Description: shellDescription,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "history",
				Usage: "History file (empty disables persistence)",
				Value: filepath.Join(config.Dir(), "history"),
			},
		},
		Action: c.shell,
	}
}

func (c *CLI) shell(ctx *cli.Context) error {
	if _, err := c.session(ctx); err != nil {
		return err
	}

	history := repl.NewHistory(ctx.String("history"))
	if err := history.Load(); err != nil {
		c.log.Warn("history not loaded", "error", err)
	}

	r := repl.New(func(ctx context.Context, args []string) error {
		if strings.HasPrefix(args[0], "-") {
			return fmt.Errorf("%w: %s", errShellGlobalFlag, args[0])
		}
		// Lines get no global flags: config is already loaded.
		err := c.newApp(c.commands(), nil).RunContext(ctx, append([]string{AppName}, args...))
		if errors.Is(err, ErrReported) {
			return nil
		}
		return err
	}, repl.WithIO(c.stdin, c.stdout), repl.WithHistory(history))

	runErr := r.Run(ctx.Context)
	if err := history.Save(); err != nil {
		c.log.Warn("history not saved", "error", err)
	}
	return runErr
}
