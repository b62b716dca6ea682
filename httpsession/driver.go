// File: httpsession/driver.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package httpsession

import "github.com/momentics/hioload-ws/httpmsg"

// Hooks are the HTTP-level events raised as the underlying TCP connection
// receives bytes. Names follow the role: a server sees requests, a client
// sees responses, but both flow through the same driver.
type Hooks struct {
	OnHeaderReceived  func(msg *httpmsg.Message)
	OnMessageReceived func(msg *httpmsg.Message)
	OnMessageError    func(msg *httpmsg.Message, reason string)
}

// driver feeds incoming bytes to one httpmsg.Message at a time, firing
// Hooks as the header phase and body phase complete, and starting a fresh
// Message after each one finishes.
type driver struct {
	isRequest bool
	hooks     Hooks
	msg       *httpmsg.Message
}

func newDriver(isRequest bool, hooks Hooks) *driver {
	d := &driver{isRequest: isRequest, hooks: hooks}
	d.reset()
	return d
}

func (d *driver) reset() {
	if d.isRequest {
		d.msg = httpmsg.NewRequest()
	} else {
		d.msg = httpmsg.NewResponse()
	}
}

// Feed drives buf through the current message's parser and fires hooks.
// It returns true if the connection should be torn down (a malformed
// message was observed).
func (d *driver) Feed(buf []byte) (shouldDisconnect bool) {
	if d.msg.Phase() == httpmsg.PendingHeader {
		if d.msg.ReceiveHeader(buf) {
			if d.hooks.OnHeaderReceived != nil {
				d.hooks.OnHeaderReceived(d.msg)
			}
			if d.msg.Phase() == httpmsg.Complete {
				d.deliver()
			}
			return false
		}
		if d.msg.Error() {
			return d.fail()
		}
		return false
	}

	if d.msg.ReceiveBody(buf) {
		d.deliver()
	}
	return false
}

func (d *driver) deliver() {
	msg := d.msg
	if d.hooks.OnMessageReceived != nil {
		d.hooks.OnMessageReceived(msg)
	}
	d.reset()
}

func (d *driver) fail() bool {
	if d.hooks.OnMessageError != nil {
		d.hooks.OnMessageError(d.msg, "Invalid HTTP request!")
	}
	d.reset()
	return true
}

// Disconnected accepts whatever body bytes accumulated as the final body
// (a message whose connection closed before its declared Content-Length
// arrived), then fires OnMessageReceived if a body was actually pending.
// A message with no Content-Length is already complete once its headers
// parse, so it never reaches this path.
func (d *driver) Disconnected() {
	if d.msg.Phase() == httpmsg.PendingBody {
		d.msg.FinishOnDisconnect()
		d.deliver()
	}
}
