//go:build windows

package player

import (
	"net"
	"os/exec"
	"syscall"
	"time"

	"github.com/Microsoft/go-winio"
)

const pipeDialTimeout = time.Second

// ipcPath names the named pipe mpv serves for one widget instance.
// Windows pipes live in their own namespace, so dir is unused.
func ipcPath(_ string, instance string) string {
	return `\\.\pipe\clipview-mpv-` + instance
}

// dialIPC connects to mpv's --input-ipc-server named pipe.
func dialIPC(path string) (net.Conn, error) {
	timeout := pipeDialTimeout
	return winio.DialPipe(path, &timeout)
}

// createNoWindow keeps mpv from opening a console next to its video window.
const createNoWindow = 0x08000000

func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{CreationFlags: createNoWindow}
}

func killProcess(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
