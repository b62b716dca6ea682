// File: httpsession/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package httpsession layers HTTP/1.1 request/response semantics on top of
// a transport/tcp Client or Session: it drives an httpmsg.Message through
// its header and body phases as bytes arrive and raises message-level
// events in place of raw received bytes.
package httpsession
