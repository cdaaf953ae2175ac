// Package shell restarts the running process.
package shell

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const restartDelay = "0.5"

// shellQuote single-quotes s unless it is made only of safe characters.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("-_./:=@%+,", r)) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// bundlePath returns the enclosing .app directory of exe, if any.
func bundlePath(exe string) (string, bool) {
	dir := filepath.Dir(exe)
	for dir != "/" && dir != "." {
		if strings.HasSuffix(dir, ".app") {
			return dir, true
		}
		dir = filepath.Dir(dir)
	}
	return "", false
}

// RestartScript is the one-liner that relaunches exe after a short delay.
func RestartScript(goos, exe string) string {
	if goos == "darwin" {
		if bundle, ok := bundlePath(exe); ok {
			return fmt.Sprintf("sleep %s; open -n %s", restartDelay, shellQuote(bundle))
		}
	}
	return fmt.Sprintf("sleep %s; exec %s daemon", restartDelay, shellQuote(exe))
}

// Restart spawns a detached shell that relaunches the daemon. The caller
// must quit right after so the new instance can take the socket.
func Restart() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	cmd := exec.Command("/bin/sh", "-c", RestartScript(runtime.GOOS, exe))
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn restart shell: %w", err)
	}
	return cmd.Process.Release()
}

// OpenURL opens url with the desktop's default handler.
func OpenURL(url string) error {
	name := "xdg-open"
	if runtime.GOOS == "darwin" {
		name = "open"
	}
	if err := exec.Command(name, url).Start(); err != nil {
		return fmt.Errorf("%s %s: %w", name, url, err)
	}
	return nil
}
