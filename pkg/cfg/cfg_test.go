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

package cfg

import (
	"strings"
	"testing"
)

type testHubConfig struct {
	MaxTxDepth int
}

type testConfig struct {
	LogLevel    string
	HttpMonAddr string
	Hub         testHubConfig
}

func TestMergeCaseInsensitive(t *testing.T) {
	var base Config
	if err := base.ReadFrom(testConfig{LogLevel: "info", Hub: testHubConfig{MaxTxDepth: 4}}); err != nil {
		t.Fatal(err)
	}
	var file Config
	if err := file.ReadFromToml(strings.NewReader("loglevel = \"debug\"\n[hub]\nmaxtxdepth = 8\n")); err != nil {
		t.Fatal(err)
	}
	base.Merge(&file)

	var out testConfig
	if err := base.WriteTo(&out); err != nil {
		t.Fatal(err)
	}
	if out.LogLevel != "debug" || out.Hub.MaxTxDepth != 8 {
		t.Errorf("unexpected result %+v", out)
	}
}

func TestSetFromKeyValueString(t *testing.T) {
	var c Config
	c.ReadFrom(testConfig{LogLevel: "info", Hub: testHubConfig{MaxTxDepth: 4}})

	for _, kv := range []string{"Hub.MaxTxDepth=16", "httpmonaddr = 127.0.0.1:8080"} {
		if err := c.SetFromKeyValueString(kv); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.SetFromKeyValueString("novalue"); err == nil {
		t.Error("expected error")
	}

	var out testConfig
	if err := c.WriteTo(&out); err != nil {
		t.Fatal(err)
	}
	if out.Hub.MaxTxDepth != 16 || out.HttpMonAddr != "127.0.0.1:8080" || out.LogLevel != "info" {
		t.Errorf("unexpected result %+v", out)
	}
	if v := c.GetValue("HUB.maxtxdepth"); v != int64(16) {
		t.Errorf("GetValue = %v (%T)", v, v)
	}
}
