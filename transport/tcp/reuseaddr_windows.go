//go:build windows
// +build windows

// File: transport/tcp/reuseaddr_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows SO_REUSEADDR wiring for the listening socket. Windows has no
// SO_REUSEPORT equivalent; ReusePort is accepted but ignored.

package tcp

import (
	"syscall"

	"github.com/momentics/hioload-ws/api"
	"golang.org/x/sys/windows"
)

func reuseAddrPortControl(opts api.SocketOptions) func(network, address string, c syscall.RawConn) error {
	if !opts.ReuseAddress {
		return nil
	}
	return func(_, _ string, c syscall.RawConn) error {
		var setErr error
		err := c.Control(func(fd uintptr) {
			setErr = windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, windows.SO_REUSEADDR, 1)
		})
		if err != nil {
			return err
		}
		return setErr
	}
}
