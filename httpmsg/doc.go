// File: httpmsg/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package httpmsg implements an incremental HTTP/1.1 request/response
// parser and a matching builder. Both share one cache-backed design: a
// Message owns a contiguous byte cache plus offset/length slices into it,
// so the parser never copies header or body bytes out of the cache during
// scanning.
package httpmsg
