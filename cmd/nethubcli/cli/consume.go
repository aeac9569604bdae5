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

package cli

import (
	"encoding/hex"
	"fmt"
	"time"

	"nethub/pkg/client"
	"nethub/pkg/proto"
)

type cmdConsumeT struct {
	clientCommandT
	optDelay time.Duration
}

func (c *cmdConsumeT) Init(name string, desc string) {
	c.clientCommandT.Init(name, desc)
	c.DurationOption(&c.optDelay, "d|delay", 0, "wait before acknowledging each packet")
	c.AddExample("nethubcli consume -delay 1s 1234", "receive at 0x1234, one packet per second")
}

func (c *cmdConsumeT) Exec() {
	handler := func(src proto.Address, payload []byte) {
		fmt.Printf("%s %s\n", src, hex.EncodeToString(payload))
		if c.optDelay > 0 {
			time.Sleep(c.optDelay)
		}
	}
	cli, err := c.connect(&c.addr, client.WithHandler(handler))
	exitOnError(err)
	defer cli.Close()

	fmt.Printf("listening at %s\n", c.addr)
	waitForSignal(cli.Done())
}
