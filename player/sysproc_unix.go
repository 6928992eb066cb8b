//go:build !windows

package player

import (
	"fmt"
	"net"
	"os/exec"
	"path/filepath"
	"syscall"
)

// ipcPath places the mpv socket for one widget instance under dir.
func ipcPath(dir, instance string) string {
	return filepath.Join(dir, fmt.Sprintf("mpv-%s.sock", instance))
}

// dialIPC connects to mpv's --input-ipc-server unix socket.
func dialIPC(path string) (net.Conn, error) {
	return net.Dial("unix", path)
}

// sysProcAttr starts mpv in its own process group, so Ctrl+C in the TUI does not reach it.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

// killProcess kills mpv together with any helper processes it spawned (ytdl hooks).
func killProcess(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	return cmd.Process.Kill()
}
