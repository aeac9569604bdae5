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

package app

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"nethub/pkg/hub"
)

func TestListenAddresses(t *testing.T) {
	tests := []struct {
		args     []string
		expected []string
	}{
		{nil, nil},
		{[]string{"-port", "3000"}, []string{":3000"}},
		{[]string{"-bind", "127.0.0.1"}, []string{"127.0.0.1:2405"}},
		{[]string{"-bind", "::1", "-p", "3000"}, []string{"[::1]:3000"}},
		{[]string{"-listen", ":1", "-listen", ":2"}, []string{":1", ":2"}},
	}
	for _, test := range tests {
		var c Server
		c.Init("serve", "")
		if err := c.Parse(test.args); err != nil {
			t.Fatal(err)
		}
		addrs := c.listenAddresses()
		if len(addrs) != len(test.expected) {
			t.Errorf("%v: expected %v, got %v", test.args, test.expected, addrs)
			continue
		}
		for i := range addrs {
			if addrs[i] != test.expected[i] {
				t.Errorf("%v: expected %v, got %v", test.args, test.expected, addrs)
			}
		}
	}
}

func TestServerOptions(t *testing.T) {
	var c Server
	c.Init("serve", "")
	if err := c.Parse([]string{"-q", "-c", "x.toml", "-set", "Hub.MaxTxDepth=8", "-set", "LogLevel=debug", "-mon-addr", ":8080"}); err != nil {
		t.Fatal(err)
	}
	if !c.optQuiet || c.optConfigFile != "x.toml" || c.optHttpMonAddr != ":8080" {
		t.Errorf("unexpected options %+v", c)
	}
	if len(c.optSettings) != 2 || c.optSettings[1] != "LogLevel=debug" {
		t.Errorf("unexpected settings %v", c.optSettings)
	}
}

func TestWritePidFile(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "nethub.pid")
	if err := writePidFile(pidFile); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(pidFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != strconv.Itoa(os.Getpid()) {
		t.Errorf("unexpected pid file content %q", data)
	}
	// rewriting our own pid is allowed
	if err := writePidFile(pidFile); err != nil {
		t.Error(err)
	}
}

func TestNewHubRegistersGauges(t *testing.T) {
	for i := 0; i < 2; i++ {
		h := newHub(hub.Config{MaxTxDepth: 7})
		if s := h.Snapshot(); s.MaxTxDepth != 7 {
			t.Errorf("MaxTxDepth = %d, want 7", s.MaxTxDepth)
		}
	}
}
