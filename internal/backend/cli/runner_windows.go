//go:build windows

package cli

import (
	"os/exec"
	"syscall"
)

// setRawCommandLine bypasses Go's argument re-quoting and hands the backend
// the exact command line produced by the builder. The backend's own parser
// only understands quote-iff-whitespace, so the rendered line must reach it
// bit-for-bit.
func setRawCommandLine(cmd *exec.Cmd, path, line string) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CmdLine:    syscall.EscapeArg(path) + " " + line,
		HideWindow: true,
	}
}
