//go:build windows

package platform

import (
	"os/exec"
	"syscall"
)

// CREATE_NO_WINDOW keeps spawned console processes from flashing a window
const createNoWindow = 0x08000000

func hideConsoleWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: createNoWindow,
	}
}
