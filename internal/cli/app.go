// pattern: Functional Core
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
)

// ErrUsage marks an error caused by bad arguments. The command's usage line
// is printed instead of the error.
var ErrUsage = errors.New("invalid arguments")

// ExitError sets the process exit code for a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// exitCode maps a command error to a process exit code: 2 for bad
// arguments, the code of an ExitError, and 1 otherwise.
func exitCode(err error) int {
	var ee *ExitError
	switch {
	case errors.As(err, &ee):
		return ee.Code
	case errors.Is(err, ErrUsage):
		return 2
	default:
		return 1
	}
}

// Command is a single CLI command.
type Command struct {
	Name             string
	Summary          string
	Usage            string
	RequiresInstance bool
	Run              func(args []string) error
}

// Group is a named set of subcommands, listed in registration order.
type Group struct {
	Name     string
	Summary  string
	commands []*Command
}

// AddCommand registers a command in the group.
func (g *Group) AddCommand(cmd *Command) {
	g.commands = append(g.commands, cmd)
}

// Command looks up a subcommand by name.
func (g *Group) Command(name string) (*Command, bool) {
	return find(g.commands, name)
}

// App is the top-level command dispatcher. Running it with no arguments
// means launching the TUI.
type App struct {
	version  string
	commands []*Command
	groups   []*Group

	// Stderr receives help and error output. Defaults to os.Stderr.
	Stderr io.Writer
	// Exit ends the process after a failed command. Defaults to os.Exit.
	Exit func(code int)
}

// NewApp creates an empty application.
func NewApp(version string) *App {
	return &App{version: version, Stderr: os.Stderr, Exit: os.Exit}
}

// AddGroup creates and registers a command group.
func (a *App) AddGroup(name, summary string) *Group {
	g := &Group{Name: name, Summary: summary}
	a.groups = append(a.groups, g)
	return g
}

// AddCommand registers a top-level command.
func (a *App) AddCommand(cmd *Command) {
	a.commands = append(a.commands, cmd)
}

// Command looks up a top-level command by name.
func (a *App) Command(name string) (*Command, bool) {
	return find(a.commands, name)
}

// Group looks up a command group by name.
func (a *App) Group(name string) (*Group, bool) {
	i := slices.IndexFunc(a.groups, func(g *Group) bool { return g.Name == name })
	if i < 0 {
		return nil, false
	}
	return a.groups[i], true
}

func find(cmds []*Command, name string) (*Command, bool) {
	i := slices.IndexFunc(cmds, func(c *Command) bool { return c.Name == name })
	if i < 0 {
		return nil, false
	}
	return cmds[i], true
}

// Execute dispatches args and reports whether the TUI should be launched.
// Failed commands print their error and exit through a.Exit.
func (a *App) Execute(args []string) bool {
	if len(args) == 0 {
		return true
	}

	if cmd, ok := a.Command(args[0]); ok {
		a.run(cmd, args[1:])
		return false
	}

	g, ok := a.Group(args[0])
	if !ok {
		a.PrintHelp(a.Stderr)
		a.Exit(2)
		return false
	}
	if len(args) < 2 || args[1] == "help" || isHelpFlag(args[1]) {
		g.PrintHelp(a.Stderr)
		return false
	}
	cmd, ok := g.Command(args[1])
	if !ok {
		g.PrintHelp(a.Stderr)
		a.Exit(2)
		return false
	}
	a.run(cmd, args[2:])
	return false
}

func (a *App) run(cmd *Command, args []string) {
	if slices.ContainsFunc(args, isHelpFlag) {
		fmt.Fprintln(a.Stderr, cmd.Usage)
		return
	}
	err := cmd.Run(args)
	if err == nil {
		return
	}
	if errors.Is(err, ErrUsage) {
		fmt.Fprintf(a.Stderr, "%v\n%s\n", err, cmd.Usage)
	} else {
		fmt.Fprintf(a.Stderr, "error: %v\n", err)
	}
	a.Exit(exitCode(err))
}

func isHelpFlag(arg string) bool {
	return arg == "--help" || arg == "-h"
}

// PrintHelp prints the top-level help text.
func (a *App) PrintHelp(w io.Writer) {
	fmt.Fprintf(w, "Usage: panedit [options] [command]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	for _, cmd := range a.commands {
		fmt.Fprintf(w, "  %-10s %s\n", cmd.Name, cmd.Summary)
	}
	fmt.Fprintf(w, "  %-10s %s\n", "(none)", "Launch interactive TUI")

	if len(a.groups) > 0 {
		fmt.Fprintf(w, "\nCommand Groups (requires running instance):\n")
		for _, g := range a.groups {
			fmt.Fprintf(w, "  %-10s %s\n", g.Name, g.Summary)
		}
		fmt.Fprintf(w, "\nUse \"panedit <group> help\" for group details.\n")
	}
	fmt.Fprintf(w, "\nOptions:\n")
}

// PrintHelp prints help for a group.
func (g *Group) PrintHelp(w io.Writer) {
	fmt.Fprintf(w, "Usage: panedit %s <command>\n\n", g.Name)
	fmt.Fprintf(w, "Commands:\n")
	for _, cmd := range g.commands {
		fmt.Fprintf(w, "  %-10s %s\n", cmd.Name, cmd.Summary)
	}
	fmt.Fprintf(w, "\nUse \"panedit %s <command> --help\" for command details.\n", g.Name)
}
