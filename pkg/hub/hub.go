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

package hub

import (
	"sync"

	"github.com/spaolacci/murmur3"

	"nethub/pkg/proto"
)

// Hub is the goroutine safe front of a Router. Connections run on their own
// reader and writer goroutines; every registry mutation and every credit
// update goes through the single hub lock, so the router itself never needs
// to synchronize.
type Hub struct {
	mtx    sync.Mutex
	router *Router
}

func New(cfg Config) *Hub {
	return &Hub{router: NewRouter(cfg)}
}

// EphemeralAddress derives the address a connection holds until it sends
// SetAddress.
func EphemeralAddress(peer string) proto.Address {
	return proto.Address(murmur3.Sum64([]byte(peer)))
}

// Attach is called once per accepted connection.
func (h *Hub) Attach(t Transport, peer string) (c *Conn) {
	h.mtx.Lock()
	c = h.router.Attach(t, peer, EphemeralAddress(peer))
	h.mtx.Unlock()
	return
}

// Feed processes bytes read from c and reports whether the transport should
// keep reading.
func (h *Hub) Feed(c *Conn, b []byte) (wantsInput bool) {
	h.mtx.Lock()
	wantsInput = h.router.Feed(c, b)
	h.mtx.Unlock()
	return
}

func (h *Hub) WantsInput(c *Conn) (wantsInput bool) {
	h.mtx.Lock()
	wantsInput = c.WantsInput()
	h.mtx.Unlock()
	return
}

// Detach is called once the transport of c is gone. It is idempotent.
func (h *Hub) Detach(c *Conn) {
	h.mtx.Lock()
	h.router.Close(c)
	h.mtx.Unlock()
}

func (h *Hub) AddressOf(c *Conn) (addr proto.Address, found bool) {
	h.mtx.Lock()
	addr, found = h.router.AddressOf(c)
	h.mtx.Unlock()
	return
}

func (h *Hub) NumConnections() (n int) {
	h.mtx.Lock()
	n = h.router.NumConnections()
	h.mtx.Unlock()
	return
}

func (h *Hub) NumAddresses() (n int) {
	h.mtx.Lock()
	n = h.router.NumAddresses()
	h.mtx.Unlock()
	return
}

func (h *Hub) Snapshot() (s Snapshot) {
	h.mtx.Lock()
	s = h.router.Snapshot()
	h.mtx.Unlock()
	return
}
