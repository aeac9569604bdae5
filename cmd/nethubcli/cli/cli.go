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

// Package cli implements the nethubcli commands.
package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nethub/pkg/client"
	"nethub/pkg/cmd"
	"nethub/pkg/glog"
	"nethub/pkg/proto"
)

const (
	kDefaultServerAddress = "127.0.0.1:2405"
	kDefaultLogLevel      = "warning"
	kAppName              = " [nethubcli] "
)

type (
	clientCommandT struct {
		cmd.Command
		optServerAddr     string
		optLogLevel       string
		optConnectTimeout time.Duration
		optSelf           string

		addr proto.Address
		self *proto.Address
	}
)

func (c *clientCommandT) Init(name string, desc string) {
	c.Command.Init(name, desc)
	c.StringOption(&c.optServerAddr, "s|server", kDefaultServerAddress, "specify hub address")
	c.StringOption(&c.optLogLevel, "log-level", kDefaultLogLevel, "specify log level")
	c.DurationOption(&c.optConnectTimeout, "connect-timeout", time.Second, "specify connect timeout")
	c.StringOption(&c.optSelf, "a|address", "", "hex address to register this client at. the hub assigns an ephemeral one if not given")
	c.SetSynopsis("[options] <hex address>")
}

func (c *clientCommandT) Parse(args []string) (err error) {
	if err = c.Command.Parse(args); err != nil {
		return
	}
	glog.InitLogging(c.optLogLevel, kAppName)
	if c.NArg() < 1 {
		err = fmt.Errorf("missing address")
		return
	}
	if c.addr, err = proto.ParseAddress(c.Arg(0)); err != nil {
		return
	}
	if c.optSelf != "" {
		var self proto.Address
		if self, err = proto.ParseAddress(c.optSelf); err != nil {
			return
		}
		c.self = &self
	}
	return
}

// connect dials the hub and registers the client at addr, or at -address
// when addr is nil.
func (c *clientCommandT) connect(addr *proto.Address, opts ...client.IOption) (cli *client.Client, err error) {
	if cli, err = client.Dial(c.optServerAddr, c.optConnectTimeout, opts...); err != nil {
		return
	}
	if addr == nil {
		addr = c.self
	}
	if addr != nil {
		if err = cli.SetAddress(*addr); err != nil {
			cli.Close()
			cli = nil
		}
	}
	return
}

// waitForSignal returns on SIGINT/SIGTERM or when done is closed.
func waitForSignal(done <-chan struct{}) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(ch)
	select {
	case <-ch:
	case <-done:
	}
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func init() {
	produce := &cmdProduceT{}
	produce.Init("produce", "send sequence numbered packets to an address")

	consume := &cmdConsumeT{}
	consume.Init("consume", "print and acknowledge the packets sent to an address")

	pipe := &cmdPipeT{}
	pipe.Init("pipe", "send hex encoded stdin lines to an address and print what comes back")

	load := &cmdLoadT{}
	load.Init("load", "run concurrent producers against an address and report latency")

	cmd.Register(produce)
	cmd.Register(consume)
	cmd.Register(pipe)
	cmd.Register(load)
}
