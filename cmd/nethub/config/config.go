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

// Package config holds the nethub server configuration.
package config

import (
	"bytes"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"nethub/pkg/cfg"
	"nethub/pkg/glog"
	"nethub/pkg/hub"
	"nethub/pkg/initmgr"
	nhio "nethub/pkg/io"
	otelCfg "nethub/pkg/logging/otel/config"
	"nethub/pkg/service"
)

var (
	Initializer initmgr.IInitializer = initmgr.NewInitializer(initialize, nil)

	Conf = DefaultConfig()
)

type Config struct {
	service.Config

	LogLevel    string
	HttpMonAddr string
	PidFileName string

	Hub  hub.Config
	OTEL otelCfg.Config
}

func DefaultConfig() Config {
	c := Config{
		Config:      service.DefaultConfig,
		LogLevel:    "info",
		PidFileName: "nethub.pid",
		Hub:         hub.DefaultConfig,
		OTEL: otelCfg.Config{
			ServiceName: "nethub",
		},
	}
	c.Config.IO = make(nhio.InboundConfigMap, len(service.DefaultConfig.IO))
	for k, v := range service.DefaultConfig.IO {
		c.Config.IO[k] = v
	}
	c.Listener = append(c.Listener[:0:0], service.DefaultConfig.Listener...)
	return c
}

func (c *Config) Dump() {
	var buf bytes.Buffer
	c.WriteToml(&buf)
	glog.Info(buf.String())
}

func (c *Config) WriteToml(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

func (c *Config) Validate() (err error) {
	c.Config.SetDefaultIfNotDefined()
	c.Hub.SetDefaultIfNotDefined()
	c.OTEL.SetDefaultIfNotDefined()
	if err = c.Config.Validate(); err != nil {
		return
	}
	if err = c.Hub.Validate(); err != nil {
		return
	}
	err = c.OTEL.Validate()
	return
}

// Load builds the configuration from the defaults, the TOML file (if any)
// and a list of "key=value" overrides, in that order.
func Load(file string, overrides []string) (c Config, err error) {
	c = DefaultConfig()
	var props cfg.Config
	if err = props.ReadFrom(&c); err != nil {
		return
	}
	if file != "" {
		var fromFile cfg.Config
		if err = fromFile.ReadFromTomlFile(file); err != nil {
			err = fmt.Errorf("config file %s: %w", file, err)
			return
		}
		props.Merge(&fromFile)
	}
	for _, kv := range overrides {
		if err = props.SetFromKeyValueString(kv); err != nil {
			return
		}
	}
	if err = props.WriteTo(&c); err != nil {
		return
	}
	err = c.Validate()
	return
}

// initialize expects the config file name and optionally a []string of
// key=value overrides.
func initialize(args ...interface{}) (err error) {
	if len(args) < 1 {
		return fmt.Errorf("a string config file name argument expected")
	}
	filename, ok := args[0].(string)
	if !ok {
		return fmt.Errorf("wrong argument type. a string config file name expected")
	}
	var overrides []string
	if len(args) > 1 {
		if overrides, ok = args[1].([]string); !ok {
			return fmt.Errorf("wrong argument type. a []string of key=value expected")
		}
	}
	var c Config
	if c, err = Load(filename, overrides); err != nil {
		glog.Errorf("config error: %s", err)
		return
	}
	Conf = c
	return
}
