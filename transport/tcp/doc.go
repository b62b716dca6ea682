// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package tcp implements the TCP client and multi-session server: dual-
// buffer send coalescing, receive dispatch, reconnect, and multicast
// fan-out. The HTTP and WebSocket layers build on top of Client/Session.
package tcp
