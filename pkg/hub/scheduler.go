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
	"nethub/pkg/glog"
	"nethub/pkg/logging/otel"
	"nethub/pkg/proto"
)

// advance drives src until its pending delivery blocks on credit or its
// backlog is empty. A connection left idle whose transport had stopped
// reading is told to resume.
func (r *Router) advance(src *Conn) {
	for {
		if src.pending == nil {
			if src.backlog.len() == 0 {
				break
			}
			r.dispatchNext(src)
			continue
		}
		if !r.attemptForward(src) {
			return
		}
	}
	if src.inputPaused {
		src.inputPaused = false
		src.transport.Resume()
	}
}

// dispatchNext pops the oldest backlog entry. It either answers with a Nack
// because nobody is listening or installs a pending delivery to the
// dispatch-time snapshot of the destination address.
func (r *Router) dispatchNext(src *Conn) {
	req := src.backlog.pop()
	dests := r.registry.Lookup(req.dest)

	if len(dests) == 0 {
		glog.Debugf("%s NAK, nobody is listening at %s", r.name(src), req.dest)
		r.stats.Nacked++
		if otel.IsEnabled() {
			otel.RecordCount(otel.Nack, nil)
		}
		src.send(proto.EncodeNack())
		return
	}
	src.pending = &pendingDelivery{
		dest:      req.dest,
		payload:   req.payload,
		remaining: dests,
		fanout:    len(dests),
		tmStart:   r.now(),
	}
}

// attemptForward sends the pending payload to every remaining destination
// that has credit left. Closed destinations count as delivered. It returns
// true once nothing remains, after the Ack went out to src. Calling it again
// while blocked is harmless.
func (r *Router) attemptForward(src *Conn) (done bool) {
	p := src.pending
	var frame []byte

	still := p.remaining[:0]
	for _, dest := range p.remaining {
		switch {
		case dest.closed:
		case dest.credit >= r.config.MaxTxDepth:
			still = append(still, dest)
			dest.addBlocked(src)
		default:
			if frame == nil {
				srcAddr, _ := r.registry.AddressOf(src)
				// the payload was bounded by the inbound frame, so this cannot fail
				frame, _ = proto.EncodeData(srcAddr, p.payload)
			}
			if glog.LOG_VERBOSE {
				glog.Verbosef("%s send to %s", r.name(src), r.name(dest))
			}
			dest.credit++
			dest.send(frame)
			r.stats.Forwarded++
			if otel.IsEnabled() {
				otel.RecordCount(otel.Forward, nil)
			}
		}
	}
	for i := len(still); i < len(p.remaining); i++ {
		p.remaining[i] = nil
	}
	p.remaining = still
	if len(still) != 0 {
		return false
	}

	// fully delivered
	src.pending = nil
	src.send(proto.EncodeAck())
	elapsed := r.now().Sub(p.tmStart)
	r.stats.Acked++
	r.stats.recordDelivery(elapsed)
	if otel.IsEnabled() {
		otel.RecordCount(otel.Ack, nil)
		otel.RecordDelivery(p.fanout, elapsed)
	}
	return true
}

// releaseCredit wakes the deliveries blocked on dest, oldest first, for as
// long as dest has credit to give. Sources that block again are queued
// behind the ones not served yet.
func (r *Router) releaseCredit(dest *Conn) {
	for len(dest.blocked) != 0 && dest.credit < r.config.MaxTxDepth && !dest.closed {
		src := dest.blocked[0]
		dest.blocked[0] = nil
		dest.blocked = dest.blocked[1:]

		if src.closed || src.pending == nil || !src.pending.waitsFor(dest) {
			continue
		}
		r.advance(src)
	}
	if len(dest.blocked) == 0 {
		dest.blocked = nil
	}
}
