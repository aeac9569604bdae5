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
	"testing"
	"time"
)

func newTestConn(peer string) *Conn {
	return newConn(newFakeTransport(), peer, 0, time.Now())
}

func TestRegistryMulticast(t *testing.T) {
	reg := NewRegistry()
	a, b, c := newTestConn("a"), newTestConn("b"), newTestConn("c")

	reg.Register(a, 1)
	reg.Register(b, 1)
	reg.Register(c, 2)

	got := reg.Lookup(1)
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("Lookup(1) = %v", got)
	}
	if reg.Len() != 3 || reg.NumAddresses() != 2 {
		t.Errorf("Len=%d NumAddresses=%d", reg.Len(), reg.NumAddresses())
	}
}

func TestRegistryAddresses(t *testing.T) {
	reg := NewRegistry()
	a, b, c := newTestConn("a"), newTestConn("b"), newTestConn("c")
	reg.Register(a, 9)
	reg.Register(b, 3)
	reg.Register(c, 9)

	got := reg.Addresses()
	if len(got) != 2 || got[0] != 3 || got[1] != 9 {
		t.Fatalf("Addresses = %v", got)
	}
	reg.Unregister(b)
	if got = reg.Addresses(); len(got) != 1 || got[0] != 9 {
		t.Errorf("Addresses after unregister = %v", got)
	}
}

func TestRegistryReRegister(t *testing.T) {
	reg := NewRegistry()
	a := newTestConn("a")

	reg.Register(a, 1)
	reg.Register(a, 2)
	if conns := reg.Lookup(1); len(conns) != 0 {
		t.Errorf("still registered at old address: %v", conns)
	}
	if addr, found := reg.AddressOf(a); !found || addr != 2 {
		t.Errorf("AddressOf = %v %v", addr, found)
	}

	// same address again keeps a single membership
	reg.Register(a, 2)
	if conns := reg.Lookup(2); len(conns) != 1 {
		t.Errorf("Lookup(2) has %d entries", len(conns))
	}
	if reg.NumAddresses() != 1 {
		t.Errorf("empty address set not removed")
	}
}

func TestRegistryUnregister(t *testing.T) {
	reg := NewRegistry()
	a, b := newTestConn("a"), newTestConn("b")
	reg.Register(a, 1)
	reg.Register(b, 1)

	reg.Unregister(a)
	reg.Unregister(a)
	if got := reg.Lookup(1); len(got) != 1 || got[0] != b {
		t.Errorf("Lookup(1) = %v", got)
	}
	if _, found := reg.AddressOf(a); found {
		t.Error("unregistered conn still has an address")
	}
	reg.Unregister(b)
	if reg.Len() != 0 || reg.NumAddresses() != 0 {
		t.Error("registry not empty")
	}
}

func TestRegistryLookupIsSnapshot(t *testing.T) {
	reg := NewRegistry()
	a, b := newTestConn("a"), newTestConn("b")
	reg.Register(a, 1)

	snap := reg.Lookup(1)
	reg.Register(b, 1)
	reg.Unregister(a)
	if len(snap) != 1 || snap[0] != a {
		t.Errorf("snapshot changed: %v", snap)
	}

	b.closed = true
	if got := reg.Lookup(1); len(got) != 0 {
		t.Errorf("closed conn returned: %v", got)
	}
}
