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
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	KHeaderSize     = 2
	KAddressSize    = 8
	KMaxBodySize    = 255
	KMaxPayloadSize = KMaxBodySize - KAddressSize
	KMaxFrameSize   = KHeaderSize + KMaxBodySize
)

const (
	FrameTypeSetAddress FrameType = iota
	FrameTypeData
	FrameTypeAck
	FrameTypeNack
)

var (
	ErrFrameTooLarge   = errors.New("frame body exceeds 255 bytes")
	ErrPayloadTooLarge = fmt.Errorf("payload exceeds %d bytes", KMaxPayloadSize)
	ErrShortFrame      = errors.New("frame body too short")
)

type (
	FrameType uint8

	// Address is an opaque routing key. The hub never interprets it.
	Address uint64

	Frame struct {
		Type FrameType
		Body []byte
	}
)

var frameTypeNames = [...]string{
	FrameTypeSetAddress: "SetAddress",
	FrameTypeData:       "Data",
	FrameTypeAck:        "Ack",
	FrameTypeNack:       "Nack",
}

func (t FrameType) String() string {
	if int(t) < len(frameTypeNames) {
		return frameTypeNames[t]
	}
	return fmt.Sprintf("FrameType(0x%02x)", uint8(t))
}

func (t FrameType) IsValid() bool {
	return t <= FrameTypeNack
}

func (a Address) String() string {
	return fmt.Sprintf("%016x", uint64(a))
}

// ParseAddress reads an address in the hexadecimal form String produces. A
// "0x" prefix is accepted.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return Address(v), nil
}

// Size returns the number of bytes the frame occupies on the wire.
func (f *Frame) Size() int {
	return KHeaderSize + len(f.Body)
}

// Address returns the address carried in the first eight body bytes of a
// SetAddress or Data frame.
func (f *Frame) Address() (Address, error) {
	if len(f.Body) < KAddressSize {
		return 0, ErrShortFrame
	}
	return Address(binary.LittleEndian.Uint64(f.Body)), nil
}

// Payload returns the bytes following the address of a Data frame. The
// returned slice aliases the frame body.
func (f *Frame) Payload() ([]byte, error) {
	if len(f.Body) < KAddressSize {
		return nil, ErrShortFrame
	}
	return f.Body[KAddressSize:], nil
}

func (f *Frame) String() string {
	return fmt.Sprintf("%s(len=%d)", f.Type, len(f.Body))
}
