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
	"time"

	"nethub/pkg/glog"
	"nethub/pkg/logging/otel"
	"nethub/pkg/proto"
	"nethub/pkg/util"
)

// Router is the routing and flow control engine: the address registry, the
// per-connection state machines and the delivery scheduler. Every method
// runs to completion without blocking. Router is not goroutine safe; Hub
// serializes access to it.
type Router struct {
	config   Config
	registry *Registry
	conns    map[*Conn]struct{}
	stats    *stats
	now      func() time.Time
}

func NewRouter(cfg Config) *Router {
	cfg.SetDefaultIfNotDefined()
	return &Router{
		config:   cfg,
		registry: NewRegistry(),
		conns:    make(map[*Conn]struct{}),
		stats:    newStats(),
		now:      time.Now,
	}
}

// Attach creates the state for a newly accepted connection and registers it
// at its ephemeral address.
func (r *Router) Attach(t Transport, peer string, addr proto.Address) *Conn {
	c := newConn(t, peer, r.config.RecvBufSize, r.now())
	r.conns[c] = struct{}{}
	r.registry.Register(c, addr)
	r.stats.Accepted++
	if glog.LOG_DEBUG {
		glog.Debugf("%s new connection, id=%s", r.name(c), c.id)
	}
	return c
}

// Feed hands bytes read from the transport to the connection and processes
// every complete frame. The return value tells the transport whether to keep
// reading.
func (r *Router) Feed(c *Conn, b []byte) (wantsInput bool) {
	if c.closed {
		return false
	}
	c.decoder.Feed(b)
	for {
		f, ok := c.decoder.Next()
		if !ok {
			break
		}
		r.onFrame(c, &f)
	}
	wantsInput = c.WantsInput()
	c.inputPaused = !wantsInput
	return
}

func (r *Router) onFrame(c *Conn, f *proto.Frame) {
	c.numFramesIn++
	r.stats.FramesIn++
	if glog.LOG_VERBOSE {
		glog.Verbosef("%s recv %s %s", r.name(c), f.Type, util.ToPrintableAndHexString(f.Body))
	}

	switch f.Type {
	case proto.FrameTypeSetAddress:
		r.onSetAddress(c, f)
	case proto.FrameTypeData:
		r.onData(c, f)
	case proto.FrameTypeAck:
		r.onAck(c, f)
	case proto.FrameTypeNack:
		// only ever sent by the hub
		glog.Debugf("%s ignoring nack", r.name(c))
	default:
		r.malformed(c, f, "unhandled frame type")
	}
}

func (r *Router) onSetAddress(c *Conn, f *proto.Frame) {
	if len(f.Body) != proto.KAddressSize {
		r.malformed(c, f, "incorrect length for address frame")
		return
	}
	addr, _ := f.Address()
	glog.Debugf("%s setting address to %s", r.name(c), addr)
	r.registry.Register(c, addr)
}

func (r *Router) onData(c *Conn, f *proto.Frame) {
	dest, err := f.Address()
	if err != nil {
		r.malformed(c, f, "incorrect length for data frame")
		return
	}
	payload, _ := f.Payload()
	r.stats.Submitted++
	if otel.IsEnabled() {
		otel.RecordCount(otel.Submit, nil)
	}

	c.backlog.push(request{
		dest:     dest,
		payload:  append([]byte(nil), payload...),
		tmQueued: r.now(),
	})
	if c.pending == nil {
		r.advance(c)
	}
}

func (r *Router) onAck(c *Conn, f *proto.Frame) {
	if len(f.Body) != 0 {
		r.malformed(c, f, "incorrect length for ack")
	}
	if c.credit > 0 {
		c.credit--
	} else {
		r.stats.UnsolicitedAcks++
		glog.Infof("%s received unsolicited ack", r.name(c))
		if otel.IsEnabled() {
			otel.RecordCount(otel.UnsolicitedAck, nil)
		}
	}
	r.releaseCredit(c)
}

func (r *Router) malformed(c *Conn, f *proto.Frame, what string) {
	r.stats.Malformed++
	glog.Warningf("%s %s: type=%s body=%s", r.name(c), what, f.Type, util.ToPrintableAndHexString(f.Body))
	if otel.IsEnabled() {
		otel.RecordCount(otel.Malformed, []otel.Tags{{TagName: otel.FrameType, TagValue: f.Type.String()}})
	}
}

// Close tears down a connection. Its own backlog and pending delivery are
// dropped without a response, and every delivery waiting on it treats it as
// delivered.
func (r *Router) Close(c *Conn) {
	if c.closed {
		return
	}
	glog.Debugf("%s closed connection", r.name(c))
	c.closed = true
	r.registry.Unregister(c)
	delete(r.conns, c)
	r.stats.Closed++

	if c.pending != nil {
		for _, d := range c.pending.remaining {
			d.removeBlocked(c)
		}
		c.pending = nil
	}
	c.backlog.reset()
	c.credit = 0
	c.decoder.Reset()

	waiters := c.blocked
	c.blocked = nil
	for _, src := range waiters {
		if !src.closed && src.pending != nil {
			r.advance(src)
		}
	}
}

// Lookup exposes the registry for diagnostics and tests.
func (r *Router) Lookup(addr proto.Address) []*Conn {
	return r.registry.Lookup(addr)
}

func (r *Router) AddressOf(c *Conn) (proto.Address, bool) {
	return r.registry.AddressOf(c)
}

func (r *Router) NumConnections() int {
	return len(r.conns)
}

func (r *Router) NumAddresses() int {
	return r.registry.NumAddresses()
}

func (r *Router) Snapshot() (s Snapshot) {
	s.MaxTxDepth = r.config.MaxTxDepth
	s.NumAddresses = r.registry.NumAddresses()
	s.Counters = r.stats.Counters
	s.Latency = r.stats.latencyStats()
	for _, addr := range r.registry.Addresses() {
		s.Addresses = append(s.Addresses, AddressInfo{Address: addr, Members: len(r.registry.Lookup(addr))})
	}
	s.Conns = make([]ConnInfo, 0, len(r.conns))
	for c := range r.conns {
		addr, _ := r.registry.AddressOf(c)
		info := ConnInfo{
			ID:          c.id.String(),
			Peer:        c.peer,
			Address:     addr,
			Credit:      c.credit,
			Backlog:     c.backlog.len(),
			Dispatching: c.pending != nil,
			Blocked:     len(c.blocked),
			Accepted:    c.tmAccept,
			FramesIn:    c.numFramesIn,
			FramesOut:   c.numFramesOut,
		}
		if c.pending != nil {
			info.Remaining = len(c.pending.remaining)
		}
		s.Conns = append(s.Conns, info)
	}
	return
}

func (r *Router) name(c *Conn) string {
	if addr, ok := r.registry.AddressOf(c); ok {
		return "client(" + addr.String() + ")"
	}
	return c.String()
}
