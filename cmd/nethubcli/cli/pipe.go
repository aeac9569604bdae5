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
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync"

	"nethub/pkg/client"
	"nethub/pkg/proto"
)

type cmdPipeT struct {
	clientCommandT
}

func (c *cmdPipeT) Init(name string, desc string) {
	c.clientCommandT.Init(name, desc)
	c.AddDetails(`  Each stdin line is one packet, hex encoded. The verdict of each packet
  ("ack" or "nack") and every packet received are written to stdout.
`)
	c.AddExample("echo 0102ff | nethubcli pipe -a 1 2", "send 01 02 ff from address 1 to address 2")
}

func (c *cmdPipeT) Exec() {
	var mtx sync.Mutex
	out := bufio.NewWriter(os.Stdout)
	emit := func(format string, args ...interface{}) {
		mtx.Lock()
		fmt.Fprintf(out, format+"\n", args...)
		out.Flush()
		mtx.Unlock()
	}
	handler := func(src proto.Address, payload []byte) {
		emit("recv %s %s", src, hex.EncodeToString(payload))
	}
	cli, err := c.connect(nil, client.WithHandler(handler))
	exitOnError(err)
	defer cli.Close()

	in := bufio.NewScanner(os.Stdin)
	for in.Scan() {
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		payload, err := hex.DecodeString(strings.ReplaceAll(line, " ", ""))
		if err != nil {
			emit("error %s", err)
			continue
		}
		delivered, err := cli.Transmit(context.Background(), c.addr, payload)
		if err != nil {
			emit("error %s", err)
			select {
			case <-cli.Done():
				return
			default:
			}
			continue
		}
		if delivered {
			emit("ack")
		} else {
			emit("nack")
		}
	}
}
