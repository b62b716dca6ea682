//go:build linux
// +build linux

// File: transport/tcp/reuseaddr_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux SO_REUSEADDR/SO_REUSEPORT wiring for the listening socket.

package tcp

import (
	"syscall"

	"github.com/momentics/hioload-ws/api"
	"golang.org/x/sys/unix"
)

func reuseAddrPortControl(opts api.SocketOptions) func(network, address string, c syscall.RawConn) error {
	if !opts.ReuseAddress && !opts.ReusePort {
		return nil
	}
	return func(_, _ string, c syscall.RawConn) error {
		var setErr error
		err := c.Control(func(fd uintptr) {
			if opts.ReuseAddress {
				if e := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); e != nil {
					setErr = e
				}
			}
			if opts.ReusePort {
				if e := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1); e != nil {
					setErr = e
				}
			}
		})
		if err != nil {
			return err
		}
		return setErr
	}
}
