// File: wsproto/decoder.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Streaming decode state machine: bytes arrive in arbitrary slices (one
// TCP read at a time) and are reassembled into logical frames, with data
// frame fragmentation handled transparently.

package wsproto

// Decoder reassembles a byte stream into dispatched frames. It is not
// safe for concurrent use; pair one Decoder with one session's single
// outstanding-read invariant.
type Decoder struct {
	pending []byte

	inFragment bool
	fragOpcode byte
	assembly   []byte

	OnData    func(opcode byte, payload []byte) // opcode is TEXT or BINARY; fin reassembly already applied
	OnControl func(opcode byte, payload []byte) // CLOSE, PING, or PONG
	OnError   func(err error)
}

// Feed appends buf to the pending buffer and dispatches every complete
// frame now available. It returns after the first protocol error or once
// no complete frame remains.
func (d *Decoder) Feed(buf []byte) {
	d.pending = append(d.pending, buf...)
	for {
		f, consumed, err := DecodeFrame(d.pending)
		if err == errNeedMoreBytes {
			return
		}
		if err != nil {
			if d.OnError != nil {
				d.OnError(err)
			}
			d.pending = nil
			return
		}
		d.pending = d.pending[consumed:]
		if !d.dispatch(f) {
			return
		}
	}
}

// dispatch delivers one decoded frame and reports whether decoding should
// continue.
func (d *Decoder) dispatch(f *Frame) bool {
	if isControlOpcode(f.Opcode) {
		if d.OnControl != nil {
			d.OnControl(f.Opcode, f.Payload)
		}
		return true
	}

	switch f.Opcode {
	case OpcodeContinuation:
		if !d.inFragment {
			if d.OnError != nil {
				d.OnError(errInterleavedCtn)
			}
			return false
		}
		d.assembly = append(d.assembly, f.Payload...)
		if f.Fin {
			opcode := d.fragOpcode
			payload := d.assembly
			d.inFragment = false
			d.assembly = nil
			if d.OnData != nil {
				d.OnData(opcode, payload)
			}
		}
		return true

	case OpcodeText, OpcodeBinary:
		if d.inFragment {
			if d.OnError != nil {
				d.OnError(errInterleavedCtn)
			}
			return false
		}
		if f.Fin {
			if d.OnData != nil {
				d.OnData(f.Opcode, f.Payload)
			}
			return true
		}
		d.inFragment = true
		d.fragOpcode = f.Opcode
		d.assembly = append([]byte(nil), f.Payload...)
		return true
	}
	return true
}
