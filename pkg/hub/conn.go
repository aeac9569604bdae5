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
	"fmt"
	"time"

	uuid "github.com/satori/go.uuid"

	"nethub/pkg/proto"
)

type (
	// Transport is the write side of a connection as seen by the router.
	// Neither method may block: both are called with the hub lock held.
	Transport interface {
		// WriteFrame queues an encoded frame. b may be shared between
		// several transports and must not be modified.
		WriteFrame(b []byte)
		// Resume tells a transport that stopped reading because the
		// connection was dispatching that it may read again.
		Resume()
	}

	// Conn is the per-connection protocol state. All fields are owned by
	// the Router.
	Conn struct {
		id        uuid.UUID
		peer      string
		transport Transport
		decoder   *proto.Decoder
		tmAccept  time.Time

		// forwarded frames this connection has not acknowledged yet
		credit  int
		backlog requestQueue
		pending *pendingDelivery
		// sources whose pending delivery waits for credit on this connection
		blocked []*Conn

		inputPaused bool
		closed      bool

		numFramesIn  uint64
		numFramesOut uint64
	}

	request struct {
		dest     proto.Address
		payload  []byte
		tmQueued time.Time
	}

	// requestQueue is the FIFO backlog of routing requests.
	requestQueue struct {
		items []request
		head  int
	}

	pendingDelivery struct {
		dest      proto.Address
		payload   []byte
		remaining []*Conn
		fanout    int
		tmStart   time.Time
	}
)

func newConn(t Transport, peer string, bufSize int, now time.Time) *Conn {
	return &Conn{
		id:        uuid.NewV1(),
		peer:      peer,
		transport: t,
		decoder:   proto.NewDecoder(bufSize),
		tmAccept:  now,
	}
}

func (c *Conn) ID() uuid.UUID {
	return c.id
}

func (c *Conn) Peer() string {
	return c.peer
}

// IsDispatching is true while the connection has a delivery in flight.
func (c *Conn) IsDispatching() bool {
	return c.pending != nil
}

// WantsInput reports whether the transport should keep reading. It is false
// while dispatching, which pushes flow control down to the transport.
func (c *Conn) WantsInput() bool {
	return !c.closed && c.pending == nil
}

func (c *Conn) IsClosed() bool {
	return c.closed
}

func (c *Conn) String() string {
	return fmt.Sprintf("conn(%s)", c.peer)
}

func (c *Conn) send(b []byte) {
	c.numFramesOut++
	c.transport.WriteFrame(b)
}

func (c *Conn) addBlocked(src *Conn) {
	for _, s := range c.blocked {
		if s == src {
			return
		}
	}
	c.blocked = append(c.blocked, src)
}

func (c *Conn) removeBlocked(src *Conn) {
	for i, s := range c.blocked {
		if s == src {
			copy(c.blocked[i:], c.blocked[i+1:])
			c.blocked[len(c.blocked)-1] = nil
			c.blocked = c.blocked[:len(c.blocked)-1]
			return
		}
	}
}

func (q *requestQueue) push(r request) {
	q.items = append(q.items, r)
}

func (q *requestQueue) pop() (r request) {
	r = q.items[q.head]
	q.items[q.head] = request{}
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return
}

func (q *requestQueue) len() int {
	return len(q.items) - q.head
}

func (q *requestQueue) reset() {
	q.items = nil
	q.head = 0
}

func (p *pendingDelivery) waitsFor(c *Conn) bool {
	for _, d := range p.remaining {
		if d == c {
			return true
		}
	}
	return false
}
