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
	"context"
	"net"
	"time"

	"nethub/pkg/glog"
)

// Dial opens a connection to a hub endpoint. Frames are tiny, so Nagle is
// turned off on both ends.
func Dial(ctx context.Context, ep *ServiceEndpoint) (net.Conn, error) {
	network := ep.Network
	if len(network) == 0 {
		network = "tcp"
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, network, ep.GetConnString())
	if err != nil {
		glog.Warningf("dial %s: %s", ep.GetConnString(), err)
		return nil, err
	}
	setNoDelay(conn)
	glog.Debugf("connected %s -> %s", conn.LocalAddr(), conn.RemoteAddr())
	return conn, nil
}

// DialTimeout is Dial bounded by timeout. A zero timeout waits for the OS.
func DialTimeout(ep *ServiceEndpoint, timeout time.Duration) (net.Conn, error) {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return Dial(ctx, ep)
}

func setNoDelay(conn net.Conn) {
	if tcp, ok := conn.(*net.TCPConn); ok {
		if err := tcp.SetNoDelay(true); err != nil {
			glog.Debugf("set nodelay on %s: %s", conn.RemoteAddr(), err)
		}
	}
}
