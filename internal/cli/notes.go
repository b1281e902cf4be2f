// pattern: Imperative Shell
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"

	"panedit/internal/config"
	"panedit/internal/docs"
	"panedit/internal/instance"
)

const newUsage = "Usage: panedit new <title> [-p/--parent <id>] [--open]"

// NoteEntry is one document in the output of "panedit list".
type NoteEntry struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Type    string    `json:"type"`
	Parent  string    `json:"parent,omitempty"`
	Created time.Time `json:"created"`
	Path    string    `json:"path"`
}

// RegisterNoteCommands registers the document commands. They work on the
// notes directory directly and need no running instance.
func RegisterNoteCommands(app *App, configDir string) {
	app.AddCommand(&Command{
		Name:    "new",
		Summary: "Create a note (optionally opening it in the running instance)",
		Usage:   newUsage,
		Run: func(args []string) error {
			fs := flag.NewFlagSet("new", flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			parent := fs.StringP("parent", "p", "", "id of the parent document")
			open := fs.Bool("open", false, "open the note in the running instance")
			if err := fs.Parse(args); err != nil {
				return fmt.Errorf("%w: %v", ErrUsage, err)
			}

			doc, err := notesStore(configDir, stderr).Create(fs.Arg(0), *parent)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, doc.ID)

			if !*open {
				return nil
			}
			d := Delegate{ConfigDir: configDir}
			return d.Run(func(c *instance.Client) error {
				_, err := c.OpenTab(doc.Tab().Kind.String(), doc.ID, "")
				return err
			})
		},
	})

	app.AddCommand(&Command{
		Name:    "list",
		Summary: "Output JSON data about all documents",
		Usage:   "Usage: panedit list",
		Run: func(args []string) error {
			data, err := listNotes(notesStore(configDir, stderr))
			if err != nil {
				return err
			}
			return PrintJSON(stdout, data)
		},
	})
}

// notesStore opens the document store named by the config in configDir.
// Config problems are reported to warn and the defaults are used.
func notesStore(configDir string, warn io.Writer) *docs.Store {
	var (
		cfg config.Config
		err error
	)
	if configDir != "" {
		cfg, err = config.LoadFromDir(configDir)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(warn, "warning: %v\n", err)
	}
	return docs.NewStore(cfg.ResolveNotesDir(), nil)
}

// listNotes encodes every document in store as a JSON array.
func listNotes(store *docs.Store) ([]byte, error) {
	list, err := store.List()
	if err != nil {
		return nil, err
	}
	entries := make([]NoteEntry, 0, len(list))
	for _, d := range list {
		entries = append(entries, NoteEntry{
			ID:      d.ID,
			Title:   d.Title,
			Type:    d.Tab().Kind.String(),
			Parent:  d.Parent,
			Created: d.Created,
			Path:    store.Path(d.ID),
		})
	}
	return json.Marshal(entries)
}
