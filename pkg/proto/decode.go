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

const (
	kDefaultDecoderBufSize = 4 * KMaxFrameSize
)

// Decoder splits a byte stream into frames. It keeps the partial trailing
// frame between Feed calls, so one Decoder serves exactly one connection.
//
// Bytes are kept in a single arena that is compacted in place when a Feed
// would not fit behind the unread data. The arena only grows if the unread
// data plus the new bytes exceed its capacity.
//
// Not goroutine safe.
type Decoder struct {
	buf  []byte
	head int
}

func NewDecoder(size int) *Decoder {
	if size < KMaxFrameSize {
		size = kDefaultDecoderBufSize
	}
	return &Decoder{buf: make([]byte, 0, size)}
}

// Feed appends b to the receive buffer. Frames previously returned by Next
// must not be used after Feed is called.
func (d *Decoder) Feed(b []byte) {
	if len(b) == 0 {
		return
	}
	if d.buf == nil {
		d.buf = make([]byte, 0, kDefaultDecoderBufSize)
	}
	if len(d.buf)+len(b) > cap(d.buf) && d.head != 0 {
		n := copy(d.buf, d.buf[d.head:])
		d.buf = d.buf[:n]
		d.head = 0
	}
	d.buf = append(d.buf, b...)
}

// Next returns the next complete frame. ok is false when the buffer holds no
// complete frame; calling Next again after another Feed resumes where the
// previous call stopped. The frame body aliases the receive buffer.
func (d *Decoder) Next() (f Frame, ok bool) {
	avail := d.buf[d.head:]
	if len(avail) < KHeaderSize {
		return
	}
	szFrame := KHeaderSize + int(avail[0])
	if len(avail) < szFrame {
		return
	}
	f.Type = FrameType(avail[1])
	f.Body = avail[KHeaderSize:szFrame:szFrame]
	d.head += szFrame
	if d.head == len(d.buf) {
		d.buf = d.buf[:0]
		d.head = 0
	}
	ok = true
	return
}

// Buffered returns the number of bytes received but not yet returned as a
// frame.
func (d *Decoder) Buffered() int {
	return len(d.buf) - d.head
}

func (d *Decoder) Reset() {
	d.buf = d.buf[:0]
	d.head = 0
}
