// File: api/hooks.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Shared callback-hook shapes used by the TCP, HTTP, and WebSocket layers.
// The core has no logging framework of its own (see SPEC_FULL.md Ambient
// Stack): applications wire OnError into whatever logger they use.

package api

// ErrorCategory groups I/O errors for OnError reporting.
type ErrorCategory string

const (
	CategorySocket   ErrorCategory = "socket"
	CategoryProtocol ErrorCategory = "protocol"
	CategoryRuntime  ErrorCategory = "runtime"
)

// OnErrorFunc is the shape of every layer's on_error hook:
// code, category, human-readable message.
type OnErrorFunc func(code ErrorCode, category ErrorCategory, message string)
