// pattern: Imperative Shell
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"panedit/internal/instance"
)

// Command output. Tests replace these.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// ResolveDataDir returns the data directory for lock/port files and layout
// state. If configDir is specified, uses that; otherwise uses ~/.config/panedit.
func ResolveDataDir(configDir string) string {
	if configDir != "" {
		return configDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "panedit")
	}
	return filepath.Join(home, ".config", "panedit")
}

// BuildApp creates and configures the CLI application with all commands and groups.
func BuildApp(version string, configDir string) *App {
	app := NewApp(version)

	RegisterNoteCommands(app, configDir)

	app.AddCommand(&Command{
		Name:    "cleanup",
		Summary: "Remove stale lock/port files from a crashed instance",
		Usage:   "Usage: panedit cleanup",
		Run: func(args []string) error {
			return runCleanupCommand(configDir)
		},
	})

	app.AddCommand(&Command{
		Name:    "version",
		Summary: "Print version and exit",
		Usage:   "Usage: panedit version",
		Run: func(args []string) error {
			fmt.Fprintln(stdout, version)
			return nil
		},
	})

	layoutGroup := app.AddGroup("layout", "Inspect and drive the pane layout")
	RegisterLayoutCommands(layoutGroup, configDir)

	return app
}

// runCleanupCommand removes stale lock and port files from a crashed instance.
func runCleanupCommand(configDir string) error {
	dataDir := ResolveDataDir(configDir)

	// Holding the lock proves no instance is running.
	fl, err := instance.Lock(dataDir)
	if errors.Is(err, instance.ErrAlreadyRunning) {
		return errors.New("a panedit instance appears to be running, stop it first")
	}
	if err != nil {
		return err
	}
	instance.Cleanup(dataDir, fl)
	fmt.Fprintln(stdout, "Cleaned up stale lock and port files.")
	return nil
}
