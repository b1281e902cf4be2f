// pattern: Imperative Shell
package cli

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"panedit/internal/instance"
)

// Delegate runs a command against the panedit instance that owns the data
// directory of ConfigDir.
type Delegate struct {
	ConfigDir string
	// Timeout bounds each request. Defaults to instance.DefaultTimeout.
	Timeout time.Duration
}

// Run discovers the instance and calls fn with a client for it. A missing
// instance exits with code 2; error replies are reduced to the server's
// message.
func (d Delegate) Run(fn func(*instance.Client) error) error {
	baseURL, err := instance.Discover(ResolveDataDir(d.ConfigDir))
	if errors.Is(err, instance.ErrNoInstance) {
		return &ExitError{Code: 2, Err: err}
	}
	if err != nil {
		return err
	}

	err = fn(instance.NewClientWithTimeout(baseURL, d.Timeout))
	var se *instance.StatusError
	if errors.As(err, &se) {
		return errors.New(se.Message)
	}
	return err
}

// PrintJSON writes JSON to w, indented when w is a terminal.
func PrintJSON(w io.Writer, data []byte) error {
	f, ok := w.(*os.File)
	return writeJSON(w, data, ok && isatty.IsTerminal(f.Fd()))
}

func writeJSON(w io.Writer, data []byte, indent bool) error {
	if indent {
		var obj any
		if err := json.Unmarshal(data, &obj); err == nil {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(obj)
		}
	}
	_, err := w.Write(data)
	return err
}
