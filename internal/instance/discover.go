// pattern: Imperative Shell
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

const healthTimeout = 2 * time.Second

// ErrNoInstance means no panedit instance holds the lock in the data
// directory.
var ErrNoInstance = errors.New("no running panedit instance found")

// Discover returns the base URL (e.g. "http://127.0.0.1:12345") of the
// instance running on dataDir. The instance must hold the lock, have written
// its port file, and answer a health check.
func Discover(dataDir string) (string, error) {
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		return "", fmt.Errorf("%w (start panedit first)", ErrNoInstance)
	}

	// Taking the lock succeeds only when nobody else holds it.
	fl := flock.New(filepath.Join(dataDir, lockFileName))
	locked, err := fl.TryLock()
	if err != nil {
		return "", fmt.Errorf("failed to check lock: %w", err)
	}
	if locked {
		_ = fl.Unlock()
		return "", fmt.Errorf("%w (start panedit first)", ErrNoInstance)
	}

	data, err := os.ReadFile(filepath.Join(dataDir, portFileName))
	if err != nil {
		return "", fmt.Errorf("panedit instance detected but port file missing (try 'panedit cleanup'): %w", err)
	}
	addr := strings.TrimSpace(string(data))
	if addr == "" {
		return "", errors.New("panedit port file is empty (try 'panedit cleanup')")
	}

	baseURL := "http://" + addr
	if err := NewClientWithTimeout(baseURL, healthTimeout).Health(); err != nil {
		return "", fmt.Errorf("panedit instance not responding (try 'panedit cleanup'): %w", err)
	}
	return baseURL, nil
}
