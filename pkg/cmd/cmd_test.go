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

package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

type testCmd struct {
	Command
	optAddr  string
	optCount int
	optDelay time.Duration
	optQuiet bool
	executed bool
}

func (c *testCmd) Init(name string, desc string) {
	c.Command.Init(name, desc)
	c.StringOption(&c.optAddr, "a|addr", "", "target address")
	c.IntOption(&c.optCount, "n|count", 1, "number of packets")
	c.DurationOption(&c.optDelay, "delay", 0, "delay between packets")
	c.BoolOption(&c.optQuiet, "q|quiet", false, "quiet")
}

func (c *testCmd) Exec() {
	c.executed = true
}

func TestOptionAliases(t *testing.T) {
	var c testCmd
	c.Init("test", "test command")
	if err := c.Parse([]string{"-a", "0a", "-count", "3", "-delay", "20ms", "-q", "extra"}); err != nil {
		t.Fatal(err)
	}
	if c.optAddr != "0a" || c.optCount != 3 || c.optDelay != 20*time.Millisecond || !c.optQuiet {
		t.Errorf("unexpected options %+v", c)
	}
	if c.NArg() != 1 || c.Arg(0) != "extra" {
		t.Errorf("unexpected args %v", c.Args())
	}
	desc := c.GetOptionDesc()
	for _, s := range []string{"-a, -addr string", "-n, -count int", "-delay duration", "-q, -quiet"} {
		if !strings.Contains(desc, s) {
			t.Errorf("option description missing %q:\n%s", s, desc)
		}
	}
}

func TestParseArgs(t *testing.T) {
	var c testCmd
	c.Init("parse-args-test", "")
	if !Register(&c) {
		t.Fatal("register failed")
	}
	if Register(&c) {
		t.Error("duplicate register succeeded")
	}
	cmd, args := parseArgs([]string{"-v", "parse-args-test", "-n", "2", "x"})
	if cmd != &c {
		t.Fatalf("command not found")
	}
	want := []string{"-v", "-n", "2", "x"}
	if strings.Join(args, " ") != strings.Join(want, " ") {
		t.Errorf("expected %v, got %v", want, args)
	}
	if cmd, _ = parseArgs([]string{"unknown"}); cmd != nil {
		t.Error("unexpected command")
	}

	var buf bytes.Buffer
	WriteCommand(&buf)
	if !strings.Contains(buf.String(), "parse-args-test") {
		t.Errorf("command list missing entry:\n%s", buf.String())
	}
}

func TestUsage(t *testing.T) {
	var c testCmd
	c.Init("usage", "print usage")
	c.SetSynopsis("[-n <count>] <addr>")
	c.AddDetails("  details\n")
	c.AddExample("usage -n 2 0a", "send two packets")
	var buf bytes.Buffer
	c.Write(&buf)
	out := buf.String()
	for _, s := range []string{"usage - print usage", "[-n <count>] <addr>", "OPTIONS", "DESCRIPTION", "send two packets"} {
		if !strings.Contains(out, s) {
			t.Errorf("usage missing %q:\n%s", s, out)
		}
	}
}
