//
//  Copyright 2023 PayPal Inc.
//
//  Licensed to the Apache Software Foundation (ASF) under one or more
//  contributor license agreements.  See the NOTICE file distributed with
//  this work for additional information regarding copyright ownership.
//  The ASF licenses this file to You under the Apache License, Version 2.0
//  (the "License"); you may not use this file except in compliance with
//  the License.  You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.
//

package proto

import (
	"bytes"
	"testing"
)

func TestEncodeWireLayout(t *testing.T) {
	tests := []struct {
		name string
		got  []byte
		want []byte
	}{
		{"ack", EncodeAck(), []byte{0x00, 0x02}},
		{"nack", EncodeNack(), []byte{0x00, 0x03}},
		{"setaddr", EncodeSetAddress(0x1111),
			[]byte{0x08, 0x00, 0x11, 0x11, 0, 0, 0, 0, 0, 0}},
	}
	data, err := EncodeData(0x0102030405060708, []byte("hi"))
	if err != nil {
		t.Fatal(err)
	}
	tests = append(tests, struct {
		name string
		got  []byte
		want []byte
	}{"data", data, []byte{0x0a, 0x01, 8, 7, 6, 5, 4, 3, 2, 1, 'h', 'i'}})

	for _, tc := range tests {
		if !bytes.Equal(tc.got, tc.want) {
			t.Errorf("%s: got % x, want % x", tc.name, tc.got, tc.want)
		}
	}
}

func TestEncodeLimits(t *testing.T) {
	if _, err := Encode(FrameTypeData, make([]byte, KMaxBodySize)); err != nil {
		t.Errorf("255 byte body rejected: %s", err)
	}
	if _, err := Encode(FrameTypeData, make([]byte, KMaxBodySize+1)); err != ErrFrameTooLarge {
		t.Errorf("expected ErrFrameTooLarge, got %v", err)
	}
	if _, err := EncodeData(1, make([]byte, KMaxPayloadSize)); err != nil {
		t.Errorf("247 byte payload rejected: %s", err)
	}
	if _, err := EncodeData(1, make([]byte, KMaxPayloadSize+1)); err != ErrPayloadTooLarge {
		t.Errorf("expected ErrPayloadTooLarge, got %v", err)
	}
}

func TestAckBuffersAreIndependent(t *testing.T) {
	a := EncodeAck()
	a[1] = 0xff
	if b := EncodeAck(); b[1] != byte(FrameTypeAck) {
		t.Errorf("EncodeAck returned shared storage")
	}
}

func TestDecoderPartialFrames(t *testing.T) {
	data, _ := EncodeData(0x3333, []byte("payload"))
	var stream []byte
	stream = append(stream, EncodeSetAddress(0x3333)...)
	stream = append(stream, data...)
	stream = append(stream, EncodeAck()...)

	// feed one byte at a time, frames must come out exactly once, in order
	d := NewDecoder(0)
	var frames []Frame
	for i := range stream {
		d.Feed(stream[i : i+1])
		for {
			f, ok := d.Next()
			if !ok {
				break
			}
			frames = append(frames, Frame{Type: f.Type, Body: append([]byte(nil), f.Body...)})
		}
	}
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	if frames[0].Type != FrameTypeSetAddress || frames[1].Type != FrameTypeData || frames[2].Type != FrameTypeAck {
		t.Errorf("unexpected frame types %s %s %s", frames[0].Type, frames[1].Type, frames[2].Type)
	}
	if addr, err := frames[0].Address(); err != nil || addr != 0x3333 {
		t.Errorf("SetAddress address = %s (%v)", addr, err)
	}
	if p, err := frames[1].Payload(); err != nil || string(p) != "payload" {
		t.Errorf("Data payload = %q (%v)", p, err)
	}
	if d.Buffered() != 0 {
		t.Errorf("%d bytes left in decoder", d.Buffered())
	}
}

func TestDecoderCompaction(t *testing.T) {
	d := NewDecoder(KMaxFrameSize)
	frame, _ := Encode(FrameTypeData, bytes.Repeat([]byte{0xab}, 200))

	// leave a partial frame behind so the next Feed has to compact
	for round := 0; round < 10; round++ {
		d.Feed(append(append([]byte(nil), frame...), frame[:50]...))
		if f, ok := d.Next(); !ok || f.Size() != len(frame) {
			t.Fatalf("round %d: first frame not returned", round)
		}
		if _, ok := d.Next(); ok {
			t.Fatalf("round %d: incomplete frame returned", round)
		}
		d.Feed(frame[50:])
		f, ok := d.Next()
		if !ok {
			t.Fatalf("round %d: frame not returned", round)
		}
		if f.Size() != len(frame) || f.Body[199] != 0xab {
			t.Fatalf("round %d: corrupted frame %s", round, f.String())
		}
		if d.Buffered() != 0 {
			t.Fatalf("round %d: %d bytes left", round, d.Buffered())
		}
	}
}

func TestEmptyBodyAccessors(t *testing.T) {
	f := Frame{Type: FrameTypeData, Body: []byte{1, 2, 3}}
	if _, err := f.Address(); err != ErrShortFrame {
		t.Errorf("expected ErrShortFrame, got %v", err)
	}
	if _, err := f.Payload(); err != ErrShortFrame {
		t.Errorf("expected ErrShortFrame, got %v", err)
	}
	if s := FrameType(9).String(); s != "FrameType(0x09)" {
		t.Errorf("unexpected name %s", s)
	}
	if FrameType(4).IsValid() || !FrameTypeNack.IsValid() {
		t.Errorf("IsValid is wrong")
	}
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		str  string
		addr Address
		ok   bool
	}{
		{"0", 0, true},
		{"1234", 0x1234, true},
		{"0x00000000deadbeef", 0xdeadbeef, true},
		{"FFFFFFFFFFFFFFFF", Address(^uint64(0)), true},
		{"10000000000000000", 0, false},
		{"xyz", 0, false},
		{"", 0, false},
	}
	for _, test := range tests {
		addr, err := ParseAddress(test.str)
		if (err == nil) != test.ok {
			t.Errorf("ParseAddress(%q): unexpected error state %v", test.str, err)
			continue
		}
		if test.ok && addr != test.addr {
			t.Errorf("ParseAddress(%q): expected %s, got %s", test.str, test.addr, addr)
		}
		if test.ok {
			if back, _ := ParseAddress(addr.String()); back != addr {
				t.Errorf("%s does not round trip", addr)
			}
		}
	}
}
