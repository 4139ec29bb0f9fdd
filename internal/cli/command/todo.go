package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/Archi470/Todo-Mobile-Application/internal/cli/output"
	"github.com/Archi470/Todo-Mobile-Application/internal/core/domain"
)

func todoCommand(c *CLI) *cli.Command {
	return &cli.Command{
		Name:  "todo",
		Usage: "Manage todos",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List todos",
				Action:  c.todoList,
			},
			{
				Name:      "add",
				Usage:     "Add a todo",
				ArgsUsage: "TITLE...",
				Action:    c.todoAdd,
			},
			{
				Name:      "done",
				Usage:     "Mark a todo completed",
				ArgsUsage: "TODO_ID",
				Action:    c.todoSetCompleted(true),
			},
			{
				Name:      "undo",
				Usage:     "Mark a todo open",
				ArgsUsage: "TODO_ID",
				Action:    c.todoSetCompleted(false),
			},
			{
				Name:      "rm",
				Aliases:   []string{"delete"},
				Usage:     "Delete a todo",
				ArgsUsage: "TODO_ID",
				Action:    c.todoDelete,
			},
		},
	}
}

func (c *CLI) todoList(ctx *cli.Context) error {
	a, err := c.session(ctx)
	if err != nil {
		return err
	}
	todos, err := a.ListTodos(ctx.Context)
	if err != nil {
		return reported(err)
	}
	return c.render(output.TodoList(todos))
}

func (c *CLI) todoAdd(ctx *cli.Context) error {
	title := strings.Join(ctx.Args().Slice(), " ")
	a, err := c.session(ctx)
	if err != nil {
		return err
	}
	t, err := a.AddTodo(ctx.Context, title)
	if err != nil {
		return reported(err)
	}
	if t == nil {
		return errors.New("title is required")
	}
	return c.render(output.TodoList([]domain.Todo{*t}))
}

func (c *CLI) todoSetCompleted(completed bool) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		id, err := todoID(ctx)
		if err != nil {
			return err
		}
		a, err := c.session(ctx)
		if err != nil {
			return err
		}
		t, err := a.SetTodoCompleted(ctx.Context, id, completed)
		if err != nil {
			return reported(err)
		}
		return c.render(output.TodoList([]domain.Todo{t}))
	}
}

func (c *CLI) todoDelete(ctx *cli.Context) error {
	id, err := todoID(ctx)
	if err != nil {
		return err
	}
	a, err := c.session(ctx)
	if err != nil {
		return err
	}
	if err := a.DeleteTodo(ctx.Context, id); err != nil {
		return reported(err)
	}
	fmt.Fprintf(c.stdout, "Todo %d deleted\n", id)
	return nil
}

func todoID(ctx *cli.Context) (int64, error) {
	if ctx.NArg() != 1 {
		return 0, errors.New("exactly one TODO_ID is required")
	}
	id, err := strconv.ParseInt(ctx.Args().First(), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid todo id %q", ctx.Args().First())
	}
	return id, nil
}
