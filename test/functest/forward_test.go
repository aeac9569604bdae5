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

package functest

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"
	"time"

	"nethub/pkg/client"
	"nethub/pkg/glog"
	"nethub/pkg/proto"
	"nethub/pkg/util"
)

func TestUnicastDelivered(t *testing.T) {
	rcv := newReceived()
	dialAt(t, 0x1001, client.WithHandler(rcv.handler))
	src := dialAt(t, 0x1002)

	payload := []byte{0xde, 0xad, 0xbe, 0xef}
	if !transmit(t, src, 0x1001, payload) {
		t.Fatal("expected delivery")
	}
	p := rcv.waitFor(t, 1)
	glog.Debugf("received %s", util.ToPrintableAndHexString(p[0].payload))
	if p[0].src != 0x1002 || !bytes.Equal(p[0].payload, payload) {
		t.Errorf("unexpected packet %+v", p[0])
	}
}

func TestNobodyListening(t *testing.T) {
	src := dial(t)
	if transmit(t, src, 0xdeadbeef00, []byte{1}) {
		t.Error("expected nack for an unregistered address")
	}
}

func TestMulticast(t *testing.T) {
	const addr = proto.Address(0x2000)
	var rcvs [3]*received
	for i := range rcvs {
		rcvs[i] = newReceived()
		c := dial(t, client.WithHandler(rcvs[i].handler))
		if err := c.SetAddress(addr); err != nil {
			t.Fatal(err)
		}
	}
	waitForAddress(t, addr, len(rcvs))

	src := dial(t)
	if !transmit(t, src, addr, []byte("all")) {
		t.Fatal("expected delivery")
	}
	for _, r := range rcvs {
		if p := r.waitFor(t, 1); string(p[0].payload) != "all" {
			t.Errorf("unexpected payload %q", p[0].payload)
		}
	}
}

func TestPerSourceOrdering(t *testing.T) {
	const n = 50
	rcv := newReceived()
	dialAt(t, 0x3001, client.WithHandler(rcv.handler))
	src := dial(t)

	var payload [4]byte
	for i := uint32(0); i < n; i++ {
		binary.LittleEndian.PutUint32(payload[:], i)
		if !transmit(t, src, 0x3001, payload[:]) {
			t.Fatalf("packet %d not delivered", i)
		}
	}
	for i, p := range rcv.waitFor(t, n) {
		if seq := binary.LittleEndian.Uint32(p.payload); seq != uint32(i) {
			t.Fatalf("packet %d arrived with sequence %d", i, seq)
		}
	}
}

func TestMaxPayload(t *testing.T) {
	rcv := newReceived()
	dialAt(t, 0x4001, client.WithHandler(rcv.handler))
	src := dial(t)

	payload := bytes.Repeat([]byte{0x5a}, proto.KMaxPayloadSize)
	if !transmit(t, src, 0x4001, payload) {
		t.Fatal("expected delivery")
	}
	if p := rcv.waitFor(t, 1); !bytes.Equal(p[0].payload, payload) {
		t.Error("payload altered")
	}
	if _, err := src.Transmit(context.Background(), 0x4001, append(payload, 0)); err == nil {
		t.Error("expected error for oversized payload")
	}
}

func TestSelfAddressedDelivery(t *testing.T) {
	rcv := newReceived()
	c := dialAt(t, 0x5001, client.WithHandler(rcv.handler))
	if !transmit(t, c, 0x5001, []byte("me")) {
		t.Fatal("expected delivery")
	}
	if p := rcv.waitFor(t, 1); p[0].src != 0x5001 {
		t.Errorf("unexpected source %s", p[0].src)
	}
}

func TestDestinationCloseCompletesDelivery(t *testing.T) {
	const addr = proto.Address(0x6001)
	// the destination never acknowledges
	dest := dialAt(t, addr, client.WithManualAck())
	src := dial(t)

	for i := 0; i < kMaxTxDepth; i++ {
		if !transmit(t, src, addr, []byte{byte(i)}) {
			t.Fatalf("packet %d not delivered", i)
		}
	}

	done := make(chan bool, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), kTimeout)
		defer cancel()
		delivered, _ := src.Transmit(ctx, addr, []byte{0xff})
		done <- delivered
	}()
	select {
	case <-done:
		t.Fatal("transmit completed while the destination had no credit")
	case <-time.After(100 * time.Millisecond):
	}
	dest.Close()
	select {
	case delivered := <-done:
		if !delivered {
			t.Error("a closed destination counts as delivered")
		}
	case <-time.After(kTimeout):
		t.Fatal("transmit still blocked after the destination closed")
	}
}
