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
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"nethub/pkg/hub"
	"nethub/pkg/proto"
	"nethub/test/testutil/server"
)

func startHub(t *testing.T) string {
	t.Helper()
	srv, err := server.NewInProcessServer(hub.Config{})
	if err != nil {
		t.Fatal(err)
	}
	srv.Start()
	t.Cleanup(func() { srv.Stop() })
	return srv.Addr()
}

func TestClientCommandParse(t *testing.T) {
	var c cmdProduceT
	c.Init("produce", "")
	if err := c.Parse([]string{"-a", "0x10", "-n", "3", "abcd"}); err != nil {
		t.Fatal(err)
	}
	if c.addr != 0xabcd || c.self == nil || *c.self != 0x10 || c.optCount != 3 {
		t.Errorf("unexpected command state %+v", c)
	}

	var missing cmdProduceT
	missing.Init("produce", "")
	if err := missing.Parse(nil); err == nil {
		t.Error("expected error for missing address")
	}
	var bad cmdConsumeT
	bad.Init("consume", "")
	if err := bad.Parse([]string{"nothex"}); err == nil {
		t.Error("expected error for invalid address")
	}
	var load cmdLoadT
	load.Init("load", "")
	if err := load.Parse([]string{"-size", "300", "1"}); err == nil {
		t.Error("expected error for oversized payload")
	}
}

func TestLoad(t *testing.T) {
	server := startHub(t)

	var c cmdLoadT
	c.Init("load", "")
	if err := c.Parse([]string{"-s", server, "-n", "2", "-d", "300ms", "beef"}); err != nil {
		t.Fatal(err)
	}
	result, err := c.run()
	if err != nil {
		t.Fatal(err)
	}
	if result.acked == 0 {
		t.Errorf("no packet delivered: %+v", result)
	}
	if result.failed != 0 {
		t.Errorf("%d transmits failed", result.failed)
	}
	if n := result.latency.TotalCount(); n != result.acked+result.nacked {
		t.Errorf("histogram count %d, expected %d", n, result.acked+result.nacked)
	}

	var buf bytes.Buffer
	result.write(&buf)
	for _, s := range []string{"throughput", "p99"} {
		if !strings.Contains(buf.String(), s) {
			t.Errorf("report missing %q:\n%s", s, buf.String())
		}
	}
}

func TestConnectRegistersAddress(t *testing.T) {
	server := startHub(t)

	var c cmdProduceT
	c.Init("produce", "")
	if err := c.Parse([]string{"-s", server, "-a", "77", "1"}); err != nil {
		t.Fatal(err)
	}
	cli, err := c.connect(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer cli.Close()

	var other cmdProduceT
	other.Init("produce", "")
	if err := other.Parse([]string{"-s", server, "77"}); err != nil {
		t.Fatal(err)
	}
	sender, err := other.connect(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer sender.Close()

	deadline := time.Now().Add(2 * time.Second)
	for {
		delivered, err := sender.Transmit(testContext(t), proto.Address(0x77), []byte{1})
		if err != nil {
			t.Fatal(err)
		}
		if delivered {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("address 0x77 never became reachable")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}
