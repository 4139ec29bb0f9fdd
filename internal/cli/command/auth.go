package command

import (
	"github.com/urfave/cli/v2"

	"github.com/Archi470/Todo-Mobile-Application/internal/cli/output"
)

func credentialFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "email",
			Aliases: []string{"e"},
			Usage:   "Account email",
			EnvVars: []string{"TODO_EMAIL"},
		},
		&cli.StringFlag{
			Name:    "password",
			Aliases: []string{"p"},
			Usage:   "Account password",
			EnvVars: []string{"TODO_PASSWORD"},
		},
	}
}

func loginCommand(c *CLI) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in and remember the session",
		Flags: credentialFlags(),
		Action: func(ctx *cli.Context) error {
			a, err := c.session(ctx)
			if err != nil {
				return err
			}
			return reported(a.Login(ctx.Context, ctx.String("email"), ctx.String("password")))
		},
	}
}

func signupCommand(c *CLI) *cli.Command {
	return &cli.Command{
		Name:    "signup",
		Aliases: []string{"register"},
		Usage:   "Create an account and sign in",
		Flags:   credentialFlags(),
		Action: func(ctx *cli.Context) error {
			a, err := c.session(ctx)
			if err != nil {
				return err
			}
			return reported(a.SignUp(ctx.Context, ctx.String("email"), ctx.String("password")))
		},
	}
}

func logoutCommand(c *CLI) *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Forget the session",
		Action: func(ctx *cli.Context) error {
			a, err := c.session(ctx)
			if err != nil {
				return err
			}
			return a.Logout(ctx.Context)
		},
	}
}

func statusCommand(c *CLI) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show the local session state",
		Action: func(ctx *cli.Context) error {
			a, err := c.session(ctx)
			if err != nil {
				return err
			}
			return c.render(output.NewSession(a.Sessions.Current(), a.Gateway.BaseURL(), c.storeLabel()))
		},
	}
}

func meCommand(c *CLI) *cli.Command {
	return &cli.Command{
		Name:    "me",
		Aliases: []string{"whoami"},
		Usage:   "Show the signed-in user's profile",
		Action: func(ctx *cli.Context) error {
			a, err := c.session(ctx)
			if err != nil {
				return err
			}
			p, err := a.Profile(ctx.Context)
			if err != nil {
				return reported(err)
			}
			return c.render(output.Profile(p))
		},
	}
}
