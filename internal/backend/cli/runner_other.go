//go:build !windows

package cli

import "os/exec"

// setRawCommandLine is a no-op off Windows; the token vector is passed as
// argv and no command-line re-quoting happens.
func setRawCommandLine(cmd *exec.Cmd, path, line string) {}
