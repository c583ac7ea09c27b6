// Package browser opens URLs in the host's default browser.
package browser

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

// ErrNoOpener is returned when no known launcher exists on the host.
var ErrNoOpener = errors.New("no browser launcher found")

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// Command returns the launcher command for url on the given GOOS.
func Command(goos, url string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", url), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url), nil
	}

	// linux, *bsd and friends
	for _, name := range []string{"xdg-open", "x-www-browser", "www-browser"} {
		if _, err := lookPath(name); err == nil {
			return exec.Command(name, url), nil
		}
	}
	return nil, ErrNoOpener
}

// Open starts the default browser on url. It does not wait for the browser
// to exit.
func Open(url string) error {
	cmd, err := Command(runtime.GOOS, url)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", cmd.Path, err)
	}
	// reap the launcher so it does not linger as a zombie
	go func() { _ = cmd.Wait() }()
	return nil
}
