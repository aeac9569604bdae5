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

package io

import (
	"sync"
	"time"

	"nethub/pkg/glog"
)

// InboundConnManager tracks the connectors of one listener. Once Shutdown is
// called it stops every tracked connector and refuses new ones. The zero
// value is ready to use.
type InboundConnManager struct {
	mtx      sync.Mutex
	conns    map[*Connector]struct{}
	accepted uint64
	draining bool
	// closed when draining and the last connector is released
	chDrained chan struct{}
}

// Admit starts tracking c. It returns false after Shutdown, in which case
// the caller closes the connection without attaching it to the hub.
func (m *InboundConnManager) Admit(c *Connector) bool {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if m.draining {
		return false
	}
	if m.conns == nil {
		m.conns = make(map[*Connector]struct{})
	}
	m.conns[c] = struct{}{}
	m.accepted++
	if glog.LOG_VERBOSE {
		glog.Verbosef("admitted connector, %d active", len(m.conns))
	}
	return true
}

// Release stops tracking c. It is safe to call for a connector that was
// never admitted.
func (m *InboundConnManager) Release(c *Connector) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if _, found := m.conns[c]; !found {
		return
	}
	delete(m.conns, c)
	if glog.LOG_VERBOSE {
		glog.Verbosef("released connector, %d active", len(m.conns))
	}
	if m.draining && len(m.conns) == 0 {
		close(m.chDrained)
	}
}

func (m *InboundConnManager) Shutdown() {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if m.draining {
		return
	}
	m.draining = true
	m.chDrained = make(chan struct{})
	if len(m.conns) == 0 {
		close(m.chDrained)
		return
	}
	for c := range m.conns {
		c.Stop()
	}
}

// WaitForShutdownToComplete reports whether every connector was released
// within timeout. It returns false immediately if Shutdown was not called.
func (m *InboundConnManager) WaitForShutdownToComplete(timeout time.Duration) bool {
	m.mtx.Lock()
	ch := m.chDrained
	m.mtx.Unlock()
	if ch == nil {
		return false
	}
	select {
	case <-ch:
		return true
	case <-time.After(timeout):
		glog.Warningf("%d connections still open after %s", m.GetNumActiveConnections(), timeout)
		return false
	}
}

func (m *InboundConnManager) GetNumActiveConnections() uint32 {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return uint32(len(m.conns))
}

// GetNumAcceptedConnections counts every connector admitted so far.
func (m *InboundConnManager) GetNumAcceptedConnections() uint64 {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.accepted
}
