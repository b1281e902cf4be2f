// pattern: Imperative Shell
package cli

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"panedit/internal/instance"
	"panedit/internal/layout"
)

const openUsage = "Usage: panedit layout open <note|board|graph|calendar> <id> [-g/--group <pane-id>]"

// RegisterLayoutCommands registers the layout command group. Every command
// talks to the running instance; mutations are queued on its event loop and
// show up in "layout show" once applied.
func RegisterLayoutCommands(group *Group, configDir string) {
	d := Delegate{ConfigDir: configDir}

	group.AddCommand(&Command{
		Name:             "show",
		Summary:          "Print the current panes and tabs as JSON",
		Usage:            "Usage: panedit layout show",
		RequiresInstance: true,
		Run: func(args []string) error {
			return d.Run(func(c *instance.Client) error {
				data, err := c.Layout()
				if err != nil {
					return err
				}
				return PrintJSON(stdout, data)
			})
		},
	})

	group.AddCommand(&Command{
		Name:             "open",
		Summary:          "Open a document in a pane",
		Usage:            openUsage,
		RequiresInstance: true,
		Run: func(args []string) error {
			fs := flag.NewFlagSet("layout open", flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			paneID := fs.StringP("group", "g", "", "pane to open the document in (default: active pane)")
			if err := fs.Parse(args); err != nil {
				return fmt.Errorf("%w: %v", ErrUsage, err)
			}
			if fs.NArg() < 2 {
				return fmt.Errorf("%w: need a kind and an id", ErrUsage)
			}
			kind, err := layout.ParseKind(fs.Arg(0))
			if err != nil {
				return fmt.Errorf("%w: %v", ErrUsage, err)
			}
			return d.Run(func(c *instance.Client) error {
				if _, err := c.OpenTab(kind.String(), fs.Arg(1), *paneID); err != nil {
					return err
				}
				fmt.Fprintln(stdout, "Open queued.")
				return nil
			})
		},
	})

	paneCommand := func(name, summary, done string, call func(*instance.Client, string) ([]byte, error)) *Command {
		return &Command{
			Name:             name,
			Summary:          summary,
			Usage:            fmt.Sprintf("Usage: panedit layout %s <pane-id>", name),
			RequiresInstance: true,
			Run: func(args []string) error {
				if len(args) != 1 {
					return fmt.Errorf("%w: need exactly one pane id", ErrUsage)
				}
				return d.Run(func(c *instance.Client) error {
					if _, err := call(c, args[0]); err != nil {
						return err
					}
					fmt.Fprintln(stdout, done)
					return nil
				})
			},
		}
	}
	group.AddCommand(paneCommand("focus", "Make a pane the active pane", "Focus queued.", (*instance.Client).FocusGroup))
	group.AddCommand(paneCommand("close", "Close a pane and its tabs", "Close queued.", (*instance.Client).CloseGroup))
}
