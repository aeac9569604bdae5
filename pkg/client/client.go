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

/*
Package client is the Go client of the nethub protocol.

	c, err := client.Dial("127.0.0.1:2405", time.Second,
		client.WithHandler(func(src proto.Address, payload []byte) {
			fmt.Printf("%s: %x\n", src, payload)
		}))
	if err != nil {
		return err
	}
	defer c.Close()
	c.SetAddress(0x1111)
	delivered, err := c.Transmit(ctx, 0x2222, []byte("hello"))

Transmit returns true when the hub forwarded the packet to every connection
registered at the destination, false when nobody was registered.

A Client has at most one Transmit in flight. A second concurrent call does
not queue; it fails at once with errors.ErrBusy. This relies on
sync.Mutex.TryLock and so needs Go 1.18 or later.
*/
package client

import (
	"context"
	"net"
	"sync"
	"time"

	"nethub/pkg/errors"
	"nethub/pkg/glog"
	"nethub/pkg/io"
	"nethub/pkg/io/ioutil"
	"nethub/pkg/proto"
)

const (
	kReadBufSize = 4096
)

type Client struct {
	conn         net.Conn
	handler      Handler
	manualAck    bool
	writeTimeout time.Duration

	wmtx sync.Mutex
	// held for the duration of a Transmit
	txMtx sync.Mutex

	mtx sync.Mutex
	// replies still due for Transmits that gave up waiting
	abandoned int
	chReply   chan proto.FrameType

	chDone    chan struct{}
	err       error
	closeOnce sync.Once
}

// Dial connects to a hub at addr ("host:port", ":port" or a bare port).
func Dial(addr string, timeout time.Duration, opts ...IOption) (c *Client, err error) {
	var ep io.ServiceEndpoint
	if err = ep.SetFromConnString(addr); err != nil {
		return
	}
	var conn net.Conn
	if conn, err = io.DialTimeout(&ep, timeout); err != nil {
		err = errors.ErrNoConnection.Wrap(err)
		return
	}
	c = newClient(conn, opts...)
	return
}

func newClient(conn net.Conn, opts ...IOption) *Client {
	data := newOptionData(opts...)
	c := &Client{
		conn:         conn,
		handler:      data.handler,
		manualAck:    data.manualAck,
		writeTimeout: data.writeTimeout,
		chReply:      make(chan proto.FrameType, 1),
		chDone:       make(chan struct{}),
	}
	go c.doRead()
	return c
}

// SetAddress registers the connection at addr, replacing the previous one.
// The hub does not answer it.
func (c *Client) SetAddress(addr proto.Address) error {
	return c.write(proto.EncodeSetAddress(addr))
}

// Transmit sends payload to dest and waits for the hub's verdict. Only one
// Transmit may be outstanding; a concurrent call fails with ErrBusy.
func (c *Client) Transmit(ctx context.Context, dest proto.Address, payload []byte) (delivered bool, err error) {
	var b []byte
	if b, err = proto.EncodeData(dest, payload); err != nil {
		err = errors.ErrPayloadTooLarge.Wrap(err)
		return
	}
	if !c.txMtx.TryLock() {
		err = errors.ErrBusy
		return
	}
	defer c.txMtx.Unlock()

	if err = c.write(b); err != nil {
		return
	}

	select {
	case t := <-c.chReply:
		delivered = t == proto.FrameTypeAck
	case <-ctx.Done():
		c.mtx.Lock()
		select {
		case t := <-c.chReply:
			delivered = t == proto.FrameTypeAck
		default:
			c.abandoned++
			err = ctx.Err()
		}
		c.mtx.Unlock()
	case <-c.chDone:
		err = c.closeErr()
	}
	return
}

// Ack acknowledges one received Data frame. Only needed with WithManualAck.
func (c *Client) Ack() error {
	return c.write(proto.EncodeAck())
}

func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.conn.Close()
	})
	<-c.chDone
	return nil
}

// Done is closed once the connection is gone.
func (c *Client) Done() <-chan struct{} {
	return c.chDone
}

func (c *Client) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

func (c *Client) closeErr() error {
	<-c.chDone
	return c.err
}

func (c *Client) write(b []byte) (err error) {
	select {
	case <-c.chDone:
		return c.err
	default:
	}
	c.wmtx.Lock()
	if c.writeTimeout > 0 {
		c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	_, err = c.conn.Write(b)
	c.wmtx.Unlock()
	return
}

func (c *Client) doRead() {
	dec := proto.NewDecoder(0)
	buf := make([]byte, kReadBufSize)

	defer func() {
		c.conn.Close()
		close(c.chDone)
	}()

	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			dec.Feed(buf[:n])
			for {
				f, ok := dec.Next()
				if !ok {
					break
				}
				c.onFrame(&f)
			}
		}
		if err != nil {
			ioutil.LogError(err)
			c.err = errors.ErrClosed.Wrap(err)
			return
		}
	}
}

func (c *Client) onFrame(f *proto.Frame) {
	switch f.Type {
	case proto.FrameTypeData:
		src, err := f.Address()
		if err != nil {
			glog.Warningf("short data frame from hub: %s", f)
			return
		}
		payload, _ := f.Payload()
		if c.handler != nil {
			c.handler(src, payload)
		}
		if !c.manualAck {
			if err := c.write(proto.EncodeAck()); err != nil {
				glog.Debugf("ack: %s", err)
			}
		}
	case proto.FrameTypeAck, proto.FrameTypeNack:
		c.mtx.Lock()
		if c.abandoned > 0 {
			c.abandoned--
		} else {
			select {
			case c.chReply <- f.Type:
			default:
				glog.Warningf("unexpected %s from hub", f.Type)
			}
		}
		c.mtx.Unlock()
	default:
		glog.Warningf("unexpected frame from hub: %s", f)
	}
}
