// File: internal/session/doc.go
// Package session
// Author: momentics <momentics@gmail.com>
//
// Package session provides the sharded id -> session registry used by the
// TCP server to track accepted connections.
package session
