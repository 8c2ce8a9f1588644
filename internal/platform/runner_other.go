//go:build !windows

package platform

import "os/exec"

// Only Windows opens a console window for spawned console processes
func hideConsoleWindow(cmd *exec.Cmd) {}
