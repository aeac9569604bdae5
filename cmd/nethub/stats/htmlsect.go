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

package stats

import (
	"fmt"
	"html/template"

	"nethub/pkg/hub"
	"nethub/pkg/stats"
	"nethub/pkg/version"
)

type (
	htmlSectRoutingT struct {
		snapshot *hub.Snapshot
	}
	htmlSectLatencyT struct {
		snapshot *hub.Snapshot
	}
	htmlSectAddressesT struct {
		snapshot *hub.Snapshot
	}
	htmlSectConnectionsT struct {
		snapshot *hub.Snapshot
	}
)

func newStatsPage(s hub.Snapshot) *stats.HtmlStats {
	page := &stats.HtmlStats{
		Title:    "nethub Statistics",
		Version:  version.OnelineVersionString(),
		Subtitle: fmt.Sprintf("%d connections, %d addresses", len(s.Conns), s.NumAddresses),
	}
	page.AddSection(&stats.ServerInfo{
		StartTime:  server.startTime,
		Listeners:  server.listeners,
		MaxTxDepth: s.MaxTxDepth,
	})
	page.AddSection(&htmlSectRoutingT{&s})
	page.AddSection(&htmlSectLatencyT{&s})
	page.AddSection(&htmlSectAddressesT{&s})
	page.AddSection(&htmlSectConnectionsT{&s})
	return page
}

func (s *htmlSectRoutingT) Title() template.HTML {
	return "Routing"
}

func (s *htmlSectRoutingT) Body() template.HTML {
	c := &s.snapshot.Counters
	var t stats.Table
	t.Begin("routing")
	t.Header("Accepted", "Closed", "Frames In", "Malformed", "Submitted", "Forwarded", "Acked", "Nacked", "Unsolicited Acks")
	t.Row(c.Accepted, c.Closed, c.FramesIn, c.Malformed, c.Submitted, c.Forwarded, c.Acked, c.Nacked, c.UnsolicitedAcks)
	return t.End()
}

func (s *htmlSectLatencyT) Title() template.HTML {
	return "Delivery Latency"
}

func (s *htmlSectLatencyT) Body() template.HTML {
	l := &s.snapshot.Latency
	var t stats.Table
	t.Begin("latency")
	t.Header("Deliveries", "Mean", "Min", "P50", "P95", "P99", "Max")
	t.Row(l.Count,
		stats.HtmlDurationEscapeString(l.Mean),
		stats.HtmlDurationEscapeString(l.Min),
		stats.HtmlDurationEscapeString(l.P50),
		stats.HtmlDurationEscapeString(l.P95),
		stats.HtmlDurationEscapeString(l.P99),
		stats.HtmlDurationEscapeString(l.Max))
	return t.End()
}

func (s *htmlSectAddressesT) Title() template.HTML {
	return "Addresses"
}

func (s *htmlSectAddressesT) Body() template.HTML {
	var t stats.Table
	t.Begin("addresses")
	t.Header("Address", "Connections")
	for _, a := range s.snapshot.Addresses {
		t.Row(a.Address.String(), a.Members)
	}
	return t.End()
}

func (s *htmlSectConnectionsT) Title() template.HTML {
	return "Connections"
}

func (s *htmlSectConnectionsT) Body() template.HTML {
	var t stats.Table
	t.Begin("connections")
	t.Header("ID", "Peer", "Address", "Credit", "Backlog", "State", "Remaining", "Blocked", "Accepted", "Frames In", "Frames Out")
	for _, c := range s.snapshot.Conns {
		state := "idle"
		if c.Dispatching {
			state = "dispatching"
		}
		t.Row(c.ID, c.Peer, c.Address.String(),
			fmt.Sprintf("%d/%d", c.Credit, s.snapshot.MaxTxDepth),
			c.Backlog, state, c.Remaining, c.Blocked,
			c.Accepted.Format("2006-01-02 15:04:05"), c.FramesIn, c.FramesOut)
	}
	return t.End()
}
