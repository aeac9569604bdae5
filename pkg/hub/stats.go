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

	"github.com/HdrHistogram/hdrhistogram-go"

	"nethub/pkg/proto"
)

const (
	kMaxTrackedLatency = int64(time.Hour / time.Microsecond)
)

type (
	Counters struct {
		Accepted        uint64
		Closed          uint64
		FramesIn        uint64
		Malformed       uint64
		Submitted       uint64
		Forwarded       uint64
		Acked           uint64
		Nacked          uint64
		UnsolicitedAcks uint64
	}

	// LatencyStats summarizes the time from the start of a dispatch to the
	// Ack sent back to its source.
	LatencyStats struct {
		Count int64
		Mean  time.Duration
		Min   time.Duration
		Max   time.Duration
		P50   time.Duration
		P95   time.Duration
		P99   time.Duration
	}

	ConnInfo struct {
		ID          string
		Peer        string
		Address     proto.Address
		Credit      int
		Backlog     int
		Dispatching bool
		Remaining   int
		Blocked     int
		Accepted    time.Time
		FramesIn    uint64
		FramesOut   uint64
	}

	// AddressInfo counts the open connections sharing one address.
	AddressInfo struct {
		Address proto.Address
		Members int
	}

	Snapshot struct {
		MaxTxDepth   int
		NumAddresses int
		Counters     Counters
		Latency      LatencyStats
		Addresses    []AddressInfo
		Conns        []ConnInfo
	}

	stats struct {
		Counters
		latency *hdrhistogram.Histogram
	}
)

func newStats() *stats {
	return &stats{
		latency: hdrhistogram.New(1, kMaxTrackedLatency, 3),
	}
}

func (s *stats) recordDelivery(d time.Duration) {
	us := int64(d / time.Microsecond)
	if us < 1 {
		us = 1
	} else if us > kMaxTrackedLatency {
		us = kMaxTrackedLatency
	}
	s.latency.RecordValue(us)
}

func (s *stats) latencyStats() (l LatencyStats) {
	h := s.latency
	if l.Count = h.TotalCount(); l.Count == 0 {
		return
	}
	us := func(v int64) time.Duration { return time.Duration(v) * time.Microsecond }
	l.Mean = time.Duration(h.Mean() * float64(time.Microsecond))
	l.Min = us(h.Min())
	l.Max = us(h.Max())
	l.P50 = us(h.ValueAtQuantile(50))
	l.P95 = us(h.ValueAtQuantile(95))
	l.P99 = us(h.ValueAtQuantile(99))
	return
}
