package wsproto

import (
	"bytes"
	"testing"
)

func TestFrameRoundTripUnmasked(t *testing.T) {
	payload := []byte("hello")
	wire, err := EncodeFrame(OpcodeText, true, payload, false)
	if err != nil {
		t.Fatal(err)
	}
	f, consumed, err := DecodeFrame(wire)
	if err != nil {
		t.Fatal(err)
	}
	if consumed != len(wire) {
		t.Fatalf("consumed = %d, want %d", consumed, len(wire))
	}
	if !bytes.Equal(f.Payload, payload) || f.Opcode != OpcodeText || !f.Fin {
		t.Fatalf("decoded frame mismatch: %+v", f)
	}
}

func TestFrameRoundTripMasked(t *testing.T) {
	payload := []byte("test")
	wire, err := EncodeFrame(OpcodeText, true, payload, true)
	if err != nil {
		t.Fatal(err)
	}
	f, _, err := DecodeFrame(wire)
	if err != nil {
		t.Fatal(err)
	}
	if !f.Masked {
		t.Fatal("expected Masked = true")
	}
	if !bytes.Equal(f.Payload, payload) {
		t.Fatalf("Payload = %q, want %q", f.Payload, payload)
	}
}

func TestFrameLargePayloadUsesExtendedLength(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 70000)
	wire, err := EncodeFrame(OpcodeBinary, true, payload, false)
	if err != nil {
		t.Fatal(err)
	}
	f, consumed, err := DecodeFrame(wire)
	if err != nil {
		t.Fatal(err)
	}
	if consumed != len(wire) || !bytes.Equal(f.Payload, payload) {
		t.Fatal("large payload round trip failed")
	}
}

func TestDecodeFrameNeedsMoreBytes(t *testing.T) {
	wire, _ := EncodeFrame(OpcodeText, true, []byte("hello"), false)
	_, _, err := DecodeFrame(wire[:len(wire)-1])
	if err != errNeedMoreBytes {
		t.Fatalf("err = %v, want errNeedMoreBytes", err)
	}
}

func TestDecodeRejectsReservedBits(t *testing.T) {
	wire, _ := EncodeFrame(OpcodeText, true, []byte("x"), false)
	wire[0] |= 0x40 // set RSV1
	_, _, err := DecodeFrame(wire)
	if err != errReservedBits {
		t.Fatalf("err = %v, want errReservedBits", err)
	}
}

func TestDecodeRejectsOversizedControlFrame(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 126)
	if _, err := EncodeFrame(OpcodePing, true, payload, false); err != errControlTooBig {
		t.Fatalf("err = %v, want errControlTooBig", err)
	}
	// FIN+PING, 16-bit extended length 126, unmasked.
	wire := append([]byte{FinBit | OpcodePing, 126, 0x00, 126}, payload...)
	if _, _, err := DecodeFrame(wire); err != errControlTooBig {
		t.Fatalf("decode err = %v, want errControlTooBig", err)
	}
}

func TestCloseFrameStatus(t *testing.T) {
	wire, err := EncodeCloseFrame(CloseNormalClosure, nil, false)
	if err != nil {
		t.Fatal(err)
	}
	f, _, err := DecodeFrame(wire)
	if err != nil {
		t.Fatal(err)
	}
	status, ok := DecodeCloseStatus(f.Payload)
	if !ok || status != CloseNormalClosure {
		t.Fatalf("status = %d,%v want %d,true", status, ok, CloseNormalClosure)
	}
}
