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
	"bufio"
	"net"
	"sync"
	"time"

	"nethub/pkg/glog"
	"nethub/pkg/hub"
	"nethub/pkg/io/ioutil"
	"nethub/pkg/logging/otel"
	"nethub/pkg/util"
)

// Connector serves one accepted connection. The reader goroutine feeds the
// hub and parks while the hub does not want input. The writer goroutine
// drains the outbound frame queue, so the hub never blocks on a peer.
type Connector struct {
	conn    net.Conn
	hub     *hub.Hub
	hconn   *hub.Conn
	config  InboundConfig
	connMgr *InboundConnManager

	chStop   chan struct{}
	chResume chan struct{}
	chWrite  chan struct{}

	mtx         sync.Mutex
	queue       [][]byte
	spare       [][]byte
	queuedBytes int

	stopOnce  sync.Once
	closeOnce sync.Once
}

func newConnector(conn net.Conn, h *hub.Hub, connMgr *InboundConnManager, config InboundConfig) *Connector {
	return &Connector{
		conn:     conn,
		hub:      h,
		config:   config,
		connMgr:  connMgr,
		chStop:   make(chan struct{}),
		chResume: make(chan struct{}, 1),
		chWrite:  make(chan struct{}, 1),
	}
}

func (c *Connector) Start() {
	glog.Verbosef("start connector...")
	if !c.connMgr.Admit(c) {
		glog.Debugf("shutting down, refusing %s", c.conn.RemoteAddr())
		c.conn.Close()
		return
	}
	c.hconn = c.hub.Attach(c, c.conn.RemoteAddr().String())
	go c.doRead()
	go c.doWrite()
}

func (c *Connector) Stop() {
	c.stopOnce.Do(func() {
		close(c.chStop)
	})
}

func (c *Connector) Close() {
	c.closeOnce.Do(func() {
		raddr := c.conn.RemoteAddr().String()
		glog.Debugf("close: raddr=%s&laddr=%s", raddr, c.conn.LocalAddr().String())

		c.Stop()
		c.conn.Close()
		c.hub.Detach(c.hconn)
		c.connMgr.Release(c)
		if otel.IsEnabled() {
			otel.RecordCount(otel.Close, []otel.Tags{{TagName: otel.Endpoint, TagValue: raddr}})
		}
	})
}

// WriteFrame implements hub.Transport. Called with the hub lock held.
func (c *Connector) WriteFrame(b []byte) {
	c.mtx.Lock()
	c.queue = append(c.queue, b)
	c.queuedBytes += len(b)
	queued := c.queuedBytes
	c.mtx.Unlock()

	if queued > c.config.MaxBufferedWriteSize {
		glog.Warningf("%s not reading, %d bytes queued, closing", c.conn.RemoteAddr(), queued)
		c.Stop()
		return
	}
	select {
	case c.chWrite <- struct{}{}:
	default:
	}
}

// Resume implements hub.Transport. Called with the hub lock held.
func (c *Connector) Resume() {
	select {
	case c.chResume <- struct{}{}:
	default:
	}
}

func (c *Connector) doRead() {
	glog.Verbosef("start reader")
	buf := make([]byte, c.config.IOBufSize)

	defer func() {
		// note, reader does not close the tcp connection; writer will
		glog.Verboseln("reader exit")
		c.Stop()
	}()

	wantsInput := true
	for {
		// a resume signal may be stale, so always ask the hub again
		for !wantsInput {
			select {
			case <-c.chResume:
			case <-c.chStop:
				glog.Verbosef("chStop")
				return
			}
			wantsInput = c.hub.WantsInput(c.hconn)
		}

		if d := c.config.IdleTimeout.Duration; d > 0 {
			c.conn.SetReadDeadline(time.Now().Add(d))
		}
		n, err := c.conn.Read(buf)
		if n > 0 {
			wantsInput = c.hub.Feed(c.hconn, buf[:n])
		}
		if err != nil {
			if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
				glog.Debugf("%s idle timeout", c.conn.RemoteAddr())
			} else {
				ioutil.LogError(err)
			}
			return
		}
	}
}

func (c *Connector) doWrite() {
	w := util.NewBufioWriter(c.conn, c.config.IOBufSize)

	defer func() {
		util.PutBufioWriter(w)
		c.Close()
		glog.Verboseln("writer exit")
	}()

	for {
		select {
		case <-c.chStop:
			// best effort: hand out what was already routed
			if err := c.flush(w); err != nil {
				ioutil.LogError(err)
			}
			return
		case <-c.chWrite:
			if err := c.flush(w); err != nil {
				ioutil.LogError(err)
				return
			}
		}
	}
}

func (c *Connector) flush(w *bufio.Writer) error {
	for {
		c.mtx.Lock()
		frames := c.queue
		c.queue = c.spare[:0]
		c.queuedBytes = 0
		c.mtx.Unlock()

		if len(frames) == 0 {
			return nil
		}
		c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout.Duration))
		for i, f := range frames {
			if _, err := w.Write(f); err != nil {
				return err
			}
			frames[i] = nil
		}
		if err := w.Flush(); err != nil {
			return err
		}
		c.mtx.Lock()
		c.spare = frames[:0]
		c.mtx.Unlock()
	}
}
