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
	"sort"

	"nethub/pkg/proto"
)

// Registry maps an address to the connections claiming it. A connection
// belongs to at most one address; several connections may share one.
//
// Registry holds the only address-to-connection references. It is not
// goroutine safe.
type Registry struct {
	byAddr map[proto.Address][]*Conn
	byConn map[*Conn]proto.Address
}

func NewRegistry() *Registry {
	return &Registry{
		byAddr: make(map[proto.Address][]*Conn),
		byConn: make(map[*Conn]proto.Address),
	}
}

// Register moves c to addr, dropping any previous membership first.
func (r *Registry) Register(c *Conn, addr proto.Address) {
	r.Unregister(c)
	r.byConn[c] = addr
	r.byAddr[addr] = append(r.byAddr[addr], c)
}

func (r *Registry) Unregister(c *Conn) {
	addr, found := r.byConn[c]
	if !found {
		return
	}
	delete(r.byConn, c)

	conns := r.byAddr[addr]
	for i, v := range conns {
		if v == c {
			copy(conns[i:], conns[i+1:])
			conns[len(conns)-1] = nil
			conns = conns[:len(conns)-1]
			break
		}
	}
	if len(conns) == 0 {
		delete(r.byAddr, addr)
	} else {
		r.byAddr[addr] = conns
	}
}

// Lookup returns a copy of the open connections at addr, in registration
// order. Later registry changes do not affect the returned slice.
func (r *Registry) Lookup(addr proto.Address) (conns []*Conn) {
	for _, c := range r.byAddr[addr] {
		if !c.closed {
			conns = append(conns, c)
		}
	}
	return
}

func (r *Registry) AddressOf(c *Conn) (addr proto.Address, found bool) {
	addr, found = r.byConn[c]
	return
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	return len(r.byConn)
}

func (r *Registry) NumAddresses() int {
	return len(r.byAddr)
}

// Addresses lists the registered addresses in ascending order.
func (r *Registry) Addresses() []proto.Address {
	addrs := make([]proto.Address, 0, len(r.byAddr))
	for a := range r.byAddr {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}
