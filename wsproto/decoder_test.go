package wsproto

import (
	"bytes"
	"testing"
)

func TestDecoderDispatchesDataFrame(t *testing.T) {
	var got []byte
	d := &Decoder{OnData: func(opcode byte, payload []byte) { got = payload }}
	wire, _ := EncodeFrame(OpcodeText, true, []byte("test"), true)
	d.Feed(wire)
	if !bytes.Equal(got, []byte("test")) {
		t.Fatalf("got %q, want test", got)
	}
}

func TestDecoderReassemblesFragments(t *testing.T) {
	var got []byte
	var gotOpcode byte
	d := &Decoder{OnData: func(opcode byte, payload []byte) { gotOpcode = opcode; got = payload }}

	f1, _ := EncodeFrame(OpcodeText, false, []byte("hel"), false)
	f2, _ := EncodeFrame(OpcodeContinuation, false, []byte("lo "), false)
	f3, _ := EncodeFrame(OpcodeContinuation, true, []byte("world"), false)

	d.Feed(f1)
	d.Feed(f2)
	d.Feed(f3)

	if gotOpcode != OpcodeText {
		t.Fatalf("opcode = %d, want %d", gotOpcode, OpcodeText)
	}
	if string(got) != "hello world" {
		t.Fatalf("got %q, want %q", got, "hello world")
	}
}

func TestDecoderSplitAcrossReads(t *testing.T) {
	var got []byte
	d := &Decoder{OnData: func(opcode byte, payload []byte) { got = payload }}
	wire, _ := EncodeFrame(OpcodeBinary, true, []byte("split-me"), false)
	d.Feed(wire[:3])
	d.Feed(wire[3:])
	if string(got) != "split-me" {
		t.Fatalf("got %q, want split-me", got)
	}
}

func TestDecoderDispatchesControlFrameImmediately(t *testing.T) {
	var gotOpcode byte
	d := &Decoder{OnControl: func(opcode byte, payload []byte) { gotOpcode = opcode }}
	wire, _ := EncodeFrame(OpcodePing, true, []byte("ping"), false)
	d.Feed(wire)
	if gotOpcode != OpcodePing {
		t.Fatalf("opcode = %d, want Ping", gotOpcode)
	}
}

func TestDecoderInterleavedContinuationIsError(t *testing.T) {
	var gotErr error
	d := &Decoder{OnError: func(err error) { gotErr = err }}
	wire, _ := EncodeFrame(OpcodeContinuation, true, []byte("oops"), false)
	d.Feed(wire)
	if gotErr != errInterleavedCtn {
		t.Fatalf("err = %v, want errInterleavedCtn", gotErr)
	}
}

func TestDecoderDecodesMultipleFramesInOneFeed(t *testing.T) {
	var results [][]byte
	d := &Decoder{OnData: func(opcode byte, payload []byte) {
		results = append(results, append([]byte(nil), payload...))
	}}
	f1, _ := EncodeFrame(OpcodeText, true, []byte("one"), false)
	f2, _ := EncodeFrame(OpcodeText, true, []byte("two"), false)
	d.Feed(append(f1, f2...))
	if len(results) != 2 || string(results[0]) != "one" || string(results[1]) != "two" {
		t.Fatalf("results = %v, want [one two]", results)
	}
}
