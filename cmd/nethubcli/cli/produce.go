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
	"context"
	"encoding/binary"
	"fmt"
	"time"
)

type cmdProduceT struct {
	clientCommandT
	optCount    uint
	optInterval time.Duration
}

func (c *cmdProduceT) Init(name string, desc string) {
	c.clientCommandT.Init(name, desc)
	c.UintOption(&c.optCount, "n|count", 0, "number of packets to send. 0 sends until interrupted")
	c.DurationOption(&c.optInterval, "i|interval", 0, "pause between packets")
	c.AddDetails(`  Every packet carries a little endian uint32 sequence number. A Nack
  (nobody registered at the address) does not stop the producer.
`)
	c.AddExample("nethubcli produce -n 10 1234", "send ten packets to address 0x1234")
}

func (c *cmdProduceT) Exec() {
	cli, err := c.connect(nil)
	exitOnError(err)
	defer cli.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		waitForSignal(cli.Done())
		cancel()
	}()

	var payload [4]byte
	for seq := uint32(1); c.optCount == 0 || uint(seq) <= c.optCount; seq++ {
		binary.LittleEndian.PutUint32(payload[:], seq)
		fmt.Printf("Sending %d\n", seq)
		delivered, err := cli.Transmit(ctx, c.addr, payload[:])
		if err != nil {
			if ctx.Err() == nil {
				exitOnError(err)
			}
			return
		}
		if delivered {
			fmt.Printf("%d acked\n", seq)
		} else {
			fmt.Printf("%d nacked\n", seq)
		}
		if c.optInterval > 0 {
			select {
			case <-time.After(c.optInterval):
			case <-ctx.Done():
				return
			}
		}
	}
}
