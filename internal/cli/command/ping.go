package command

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
)

func pingCommand(c *CLI) *cli.Command {
	return &cli.Command{
		Name:  "ping",
		Usage: "Check that the backend is reachable",
		Action: func(ctx *cli.Context) error {
			a, err := c.session(ctx)
			if err != nil {
				return err
			}
			start := time.Now()
			status, err := a.Gateway.Health(ctx.Context)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "%s: %s (%s)\n", a.Gateway.BaseURL(), status, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}
