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

package service

import (
	"fmt"
	"strings"
	"time"

	"nethub/pkg/glog"
	"nethub/pkg/io"
	"nethub/pkg/util"
)

const (
	kDefaultShutdownWaitTime = 5 * time.Second
)

var (
	DefaultListenerName = "default"
	DefaultConfig       = Config{
		Listener: []io.ListenerConfig{
			{ServiceEndpoint: io.ServiceEndpoint{Addr: fmt.Sprintf(":%d", io.DefaultPort)}},
		},
		ShutdownWaitTime: util.NewDuration(kDefaultShutdownWaitTime),
		IO: io.InboundConfigMap{
			DefaultListenerName: io.DefaultInboundConfig,
		},
	}
)

type Config struct {
	Listener         []io.ListenerConfig
	ShutdownWaitTime util.Duration
	IO               io.InboundConfigMap
}

func (cfg *Config) SetDefaultIfNotDefined() {
	if len(cfg.Listener) == 0 {
		cfg.Listener = append(cfg.Listener, DefaultConfig.Listener...)
	}
	for i := range cfg.Listener {
		cfg.Listener[i].SetDefaultIfNotDefined()
	}
	if cfg.ShutdownWaitTime.Duration == 0 {
		cfg.ShutdownWaitTime.Duration = kDefaultShutdownWaitTime
	}
	if cfg.IO == nil {
		cfg.IO = io.InboundConfigMap{}
	}
	if _, found := cfg.IO[DefaultListenerName]; !found {
		cfg.IO[DefaultListenerName] = io.DefaultInboundConfig
	}
	cfg.IO.SetDefaultIfNotDefined()
}

// SetListeners replaces the listeners with one per "host:port", ":port" or
// bare port string.
func (cfg *Config) SetListeners(values []string) {
	cfg.Listener = make([]io.ListenerConfig, 0, len(values))
	for _, str := range values {
		var lncfg io.ListenerConfig
		if err := lncfg.SetFromConnString(strings.ToLower(str)); err != nil {
			glog.Warningf("ignoring listener %q: %s", str, err)
			continue
		}
		cfg.Listener = append(cfg.Listener, lncfg)
	}
}

func (cfg *Config) GetIoConfig(lsnr *io.ListenerConfig) io.InboundConfig {
	if lsnr != nil {
		if c, ok := cfg.IO[lsnr.Name]; ok {
			return c
		} else if c, ok = cfg.IO[DefaultListenerName]; ok {
			return c
		}
	}
	return io.DefaultInboundConfig
}

func (cfg *Config) Validate() (err error) {
	if len(cfg.Listener) == 0 {
		return fmt.Errorf("no listener defined")
	}
	for i := range cfg.Listener {
		if err = cfg.Listener[i].Validate(); err != nil {
			return
		}
	}
	for name, c := range cfg.IO {
		if err = c.Validate(); err != nil {
			return fmt.Errorf("IO.%s: %w", name, err)
		}
	}
	return
}

func (cfg *Config) Dump() {
	for _, l := range cfg.Listener {
		glog.Infof("Listener: %s", l.GetConnString())
	}
	glog.Infof("ShutdownWaitTime: %s", cfg.ShutdownWaitTime.Duration)
	for name, c := range cfg.IO {
		glog.Infof("IO[%s]:", name)
		c.Dump()
	}
}
