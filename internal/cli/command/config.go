package command

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Archi470/Todo-Mobile-Application/internal/cli/config"
	"github.com/Archi470/Todo-Mobile-Application/internal/cli/output"
)

func configCommand(c *CLI) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect and write the CLI configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: c.configShow,
			},
			{
				Name:  "init",
				Usage: "Write the effective configuration to the config file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Overwrite an existing file",
					},
				},
				Action: c.configInit,
			},
			{
				Name:  "path",
				Usage: "Print the config file path",
				Action: func(*cli.Context) error {
					fmt.Fprintln(c.stdout, c.configPath)
					return nil
				},
			},
		},
	}
}

func (c *CLI) configShow(*cli.Context) error {
	format := c.format
	if format == output.FormatTable {
		format = output.FormatYAML
	}
	return output.NewFormatter(format).Format(c.stdout, c.cfg)
}

func (c *CLI) configInit(ctx *cli.Context) error {
	if _, err := os.Stat(c.configPath); err == nil && !ctx.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", c.configPath)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := config.Save(c.cfg, c.configPath); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(c.stdout, "Config written to %s\n", c.configPath)
	return nil
}
