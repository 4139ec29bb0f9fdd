package command

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Archi470/Todo-Mobile-Application/internal/app"
	"github.com/Archi470/Todo-Mobile-Application/internal/cli/config"
	"github.com/Archi470/Todo-Mobile-Application/internal/cli/output"
	"github.com/Archi470/Todo-Mobile-Application/internal/core/domain"
	"github.com/Archi470/Todo-Mobile-Application/internal/infra/buildinfo"
	"github.com/Archi470/Todo-Mobile-Application/internal/storage"
	"github.com/Archi470/Todo-Mobile-Application/internal/telemetry/logger"
)

// AppName is the binary name.
const AppName = "todo-cli"

// ErrReported marks errors the user has already seen as a notification.
var ErrReported = errors.New("already reported")

func reported(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrReported, err)
}

// CLI holds the state shared by every command of one process.
type CLI struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	appOpts []app.Option

	configPath string
	cfg        *config.CLIConfig
	log        logger.Logger
	format     output.Format

	app          *app.App
	stopNotifier func()
}

// Option configures a CLI.
type Option func(*CLI)

// WithIO sets the standard streams.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(c *CLI) {
		c.stdin = stdin
		c.stdout = stdout
		c.stderr = stderr
	}
}

// WithAppOptions passes extra options to app.New.
func WithAppOptions(opts ...app.Option) Option {
	return func(c *CLI) { c.appOpts = append(c.appOpts, opts...) }
}

// New creates a CLI bound to the process streams.
func New(opts ...Option) *CLI {
	c := &CLI{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// App creates the CLI application.
func (c *CLI) App() *cli.App {
	a := c.newApp(append(c.commands(), shellCommand(c)), globalFlags())
	a.After = c.after
	return a
}

func (c *CLI) newApp(commands []*cli.Command, flags []cli.Flag) *cli.App {
	return &cli.App{
		Name:                 AppName,
		Usage:                "Todo app client: session, todos and notifications from the terminal",
		Version:              buildinfo.String(),
		Flags:                flags,
		Commands:             commands,
		Reader:               c.stdin,
		Writer:               c.stdout,
		ErrWriter:            c.stderr,
		Before:               c.before,
		EnableBashCompletion: true,
		// Exit codes are decided by main.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func (c *CLI) commands() []*cli.Command {
	return []*cli.Command{
		loginCommand(c),
		signupCommand(c),
		logoutCommand(c),
		statusCommand(c),
		meCommand(c),
		todoCommand(c),
		configCommand(c),
		pingCommand(c),
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Config file path",
			Value: config.DefaultConfigPath(),
		},
		&cli.StringFlag{
			Name:    "base-url",
			Aliases: []string{"u"},
			Usage:   "Backend base URL (e.g., http://localhost:8000)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.StringFlag{
			Name:  "store",
			Usage: "Token store backend: memory, file, badger, sqlite",
		},
		&cli.StringFlag{
			Name:  "store-path",
			Usage: "Token store location",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging",
		},
	}
}

// before loads configuration once per process. Nested shell runs find
// it already loaded.
func (c *CLI) before(ctx *cli.Context) error {
	if c.cfg != nil {
		return nil
	}

	c.configPath = ctx.String("config")
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlags(ctx, cfg)
	if err := config.Verify(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: c.stderr,
	})
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.format = format
	c.log = log.With("component", "cli")
	return nil
}

func applyFlags(ctx *cli.Context, cfg *config.CLIConfig) {
	if ctx.IsSet("base-url") {
		cfg.API.BaseURL = ctx.String("base-url")
	}
	if ctx.IsSet("output") {
		cfg.Output.Format = ctx.String("output")
	}
	if ctx.IsSet("store") {
		cfg.Store.Backend = ctx.String("store")
	}
	if ctx.IsSet("store-path") {
		cfg.Store.Path = ctx.String("store-path")
	}
	if ctx.IsSet("log-level") {
		cfg.Log.Level = ctx.String("log-level")
	}
	if ctx.Bool("verbose") {
		cfg.Log.Level = "debug"
	}
}

func (c *CLI) after(*cli.Context) error {
	return c.Close()
}

// Close releases the App, if one was built.
func (c *CLI) Close() error {
	if c.app == nil {
		return nil
	}
	if c.stopNotifier != nil {
		c.stopNotifier()
		c.stopNotifier = nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}

// session returns the process App, building and bootstrapping it on
// first use.
func (c *CLI) session(ctx *cli.Context) (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}

	opts := append([]app.Option{app.WithLogger(c.log)}, c.appOpts...)
	a, err := app.New(c.cfg.AppConfig(), opts...)
	if err != nil {
		return nil, err
	}
	c.stopNotifier = a.Notifier.Subscribe(c.printNotification)
	c.app = a

	// A failed token read leaves the user signed out; App logs it.
	_, _ = a.Start(ctx.Context)
	return a, nil
}

func (c *CLI) printNotification(n *domain.Notification) {
	if n == nil {
		return
	}
	if n.Message == "" {
		fmt.Fprintf(c.stderr, "[%s] %s\n", n.Kind, n.Title)
		return
	}
	fmt.Fprintf(c.stderr, "[%s] %s: %s\n", n.Kind, n.Title, n.Message)
}

func (c *CLI) render(data any) error {
	return output.NewFormatter(c.format).Format(c.stdout, data)
}

func (c *CLI) storeLabel() string {
	if c.cfg.Store.Backend == storage.BackendMemory || c.cfg.Store.Path == "" {
		return c.cfg.Store.Backend
	}
	return c.cfg.Store.Backend + ":" + c.cfg.Store.Path
}
