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
)

var (
	ackFrame  = [KHeaderSize]byte{0, byte(FrameTypeAck)}
	nackFrame = [KHeaderSize]byte{0, byte(FrameTypeNack)}
)

// AppendFrame appends the encoded frame to dst and returns the extended
// buffer.
func AppendFrame(dst []byte, t FrameType, body []byte) ([]byte, error) {
	if len(body) > KMaxBodySize {
		return dst, ErrFrameTooLarge
	}
	dst = append(dst, byte(len(body)), byte(t))
	return append(dst, body...), nil
}

func Encode(t FrameType, body []byte) ([]byte, error) {
	return AppendFrame(make([]byte, 0, KHeaderSize+len(body)), t, body)
}

func EncodeSetAddress(addr Address) []byte {
	b := make([]byte, KHeaderSize+KAddressSize)
	b[0] = KAddressSize
	b[1] = byte(FrameTypeSetAddress)
	binary.LittleEndian.PutUint64(b[KHeaderSize:], uint64(addr))
	return b
}

// EncodeData builds a Data frame. Clients pass the destination address, the
// hub passes the source address when forwarding.
func EncodeData(addr Address, payload []byte) ([]byte, error) {
	if len(payload) > KMaxPayloadSize {
		return nil, ErrPayloadTooLarge
	}
	b := make([]byte, KHeaderSize+KAddressSize+len(payload))
	b[0] = byte(KAddressSize + len(payload))
	b[1] = byte(FrameTypeData)
	binary.LittleEndian.PutUint64(b[KHeaderSize:], uint64(addr))
	copy(b[KHeaderSize+KAddressSize:], payload)
	return b, nil
}

func EncodeAck() []byte {
	b := ackFrame
	return b[:]
}

func EncodeNack() []byte {
	b := nackFrame
	return b[:]
}
