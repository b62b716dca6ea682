//go:build !linux && !windows
// +build !linux,!windows

// File: transport/tcp/reuseaddr_other.go
// Author: momentics <momentics@gmail.com>
//
// Fallback for platforms without a wired SO_REUSEADDR/SO_REUSEPORT path:
// the options are accepted but have no effect.

package tcp

import (
	"syscall"

	"github.com/momentics/hioload-ws/api"
)

func reuseAddrPortControl(opts api.SocketOptions) func(network, address string, c syscall.RawConn) error {
	return nil
}
