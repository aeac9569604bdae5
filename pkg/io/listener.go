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
	"net"
	"time"

	"golang.org/x/net/netutil"

	"nethub/pkg/glog"
	"nethub/pkg/hub"
	"nethub/pkg/logging/otel"
)

type (
	IListener interface {
		GetName() string
		AcceptAndServe() error
		Close() error
		Shutdown()
		WaitForShutdownToComplete(time.Duration) bool
		GetConnString() string
		GetNumActiveConnections() uint32
		GetNumAcceptedConnections() uint64
	}

	// Listener accepts hub clients and runs a Connector for each of them.
	Listener struct {
		config      ListenerConfig
		ioConfig    InboundConfig
		netListener net.Listener
		hub         *hub.Hub
		connMgr     *InboundConnManager
	}
)

func NewListener(cfg ListenerConfig, iocfg InboundConfig, h *hub.Hub) (lsnr IListener, err error) {
	ln := &Listener{
		config:   cfg,
		ioConfig: iocfg,
		hub:      h,
		connMgr:  &InboundConnManager{},
	}
	ln.config.SetDefaultIfNotDefined()
	ln.ioConfig.SetDefaultIfNotDefined()

	if ln.netListener, err = net.Listen(ln.config.Network, ln.config.GetConnString()); err != nil {
		return
	}
	if n := ln.ioConfig.MaxConnections; n > 0 {
		ln.netListener = netutil.LimitListener(ln.netListener, n)
	}
	glog.Infof("listening on %s", ln.netListener.Addr())
	lsnr = ln
	return
}

func (l *Listener) Close() error {
	return l.netListener.Close()
}

func (l *Listener) Shutdown() {
	l.netListener.Close()
	l.connMgr.Shutdown()
}

func (l *Listener) WaitForShutdownToComplete(timeout time.Duration) bool {
	return l.connMgr.WaitForShutdownToComplete(timeout)
}

// AcceptAndServe accepts one connection and hands it to a new Connector.
// Accept errors go back to the caller, which decides whether to retry.
func (l *Listener) AcceptAndServe() error {
	conn, err := l.netListener.Accept()
	if otel.IsEnabled() {
		status := otel.Success
		if err != nil {
			status = otel.Error
		}
		otel.RecordCount(otel.Accept, []otel.Tags{{TagName: otel.Status, TagValue: status}})
	}
	if err != nil {
		return err
	}
	l.startNewConnector(conn)
	return nil
}

func (l *Listener) startNewConnector(conn net.Conn) {
	setNoDelay(conn)
	connector := newConnector(conn, l.hub, l.connMgr, l.ioConfig)
	connector.Start()
}

func (l *Listener) GetName() string {
	if len(l.config.Name) != 0 {
		return l.config.Name
	}
	return l.config.GetConnString()
}

// GetConnString returns the bound address, which differs from the
// configured one when listening on port 0.
func (l *Listener) GetConnString() string {
	if l.netListener != nil {
		return l.netListener.Addr().String()
	}
	return l.config.GetConnString()
}

// Addr is the bound address, useful when listening on port 0.
func (l *Listener) Addr() net.Addr {
	return l.netListener.Addr()
}

func (l *Listener) GetNumActiveConnections() uint32 {
	return l.connMgr.GetNumActiveConnections()
}

func (l *Listener) GetNumAcceptedConnections() uint64 {
	return l.connMgr.GetNumAcceptedConnections()
}
