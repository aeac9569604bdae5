// Copyright 2023 PayPal Inc.
//
// Licensed to the Apache Software Foundation (ASF) under one or more
// contributor license agreements.  See the NOTICE file distributed with
// this work for additional information regarding copyright ownership.
// The ASF licenses this file to You under the Apache License, Version 2.0
// (the "License"); you may not use this file except in compliance with
// the License.  You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package hub

import (
	"sync"
	"testing"

	"nethub/pkg/proto"
)

func TestEphemeralAddress(t *testing.T) {
	a := EphemeralAddress("127.0.0.1:40000")
	if a != EphemeralAddress("127.0.0.1:40000") {
		t.Error("not deterministic")
	}
	if a == EphemeralAddress("127.0.0.1:40001") {
		t.Error("distinct peers collide")
	}
}

func TestHubAttachDetach(t *testing.T) {
	h := New(Config{})
	ta, tc := newFakeTransport(), newFakeTransport()
	a := h.Attach(ta, "a")
	c := h.Attach(tc, "c")

	if addr, found := h.AddressOf(a); !found || addr != EphemeralAddress("a") {
		t.Errorf("AddressOf = %s %v", addr, found)
	}
	if h.NumConnections() != 2 || h.NumAddresses() != 2 {
		t.Errorf("NumConnections=%d NumAddresses=%d", h.NumConnections(), h.NumAddresses())
	}

	b, _ := proto.EncodeData(EphemeralAddress("a"), []byte("x"))
	if !h.Feed(c, b) || !h.WantsInput(c) {
		t.Error("source should be idle")
	}
	if len(ta.take()) != 1 {
		t.Error("destination did not receive")
	}

	h.Detach(a)
	h.Detach(a)
	if h.NumConnections() != 1 {
		t.Errorf("NumConnections = %d, want 1", h.NumConnections())
	}
	if h.WantsInput(a) {
		t.Error("detached conn wants input")
	}
	if s := h.Snapshot(); s.Counters.Closed != 1 || s.MaxTxDepth != DefaultConfig.MaxTxDepth {
		t.Errorf("unexpected snapshot %+v", s)
	}
}

// lockedTransport guards the fake against concurrent writers.
type lockedTransport struct {
	mtx sync.Mutex
	n   int
}

func (t *lockedTransport) WriteFrame(b []byte) {
	t.mtx.Lock()
	t.n++
	t.mtx.Unlock()
}

func (t *lockedTransport) Resume() {}

func TestHubConcurrentFeed(t *testing.T) {
	h := New(Config{MaxTxDepth: 255})
	sink := &lockedTransport{}
	d := h.Attach(sink, "sink")
	h.Feed(d, proto.EncodeSetAddress(0xD))

	const numSources = 8
	const numFrames = 20
	var wg sync.WaitGroup
	for i := 0; i < numSources; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := h.Attach(&lockedTransport{}, string(rune('a'+i)))
			b, _ := proto.EncodeData(0xD, []byte{byte(i)})
			for j := 0; j < numFrames; j++ {
				h.Feed(c, b)
				// sink acks everything it got so far
				h.Feed(d, proto.EncodeAck())
			}
			h.Detach(c)
		}(i)
	}
	wg.Wait()

	s := h.Snapshot()
	if s.Counters.Submitted != numSources*numFrames {
		t.Errorf("submitted = %d", s.Counters.Submitted)
	}
	if h.NumConnections() != 1 {
		t.Errorf("NumConnections = %d, want 1", h.NumConnections())
	}
}
