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

package io

import (
	"fmt"
	"time"

	"nethub/pkg/glog"
	"nethub/pkg/util"
)

var (
	DefaultInboundConfig = InboundConfig{
		WriteTimeout:         util.NewDuration(5 * time.Second),
		MaxBufferedWriteSize: 1024 * 1024,
		IOBufSize:            16 * 1024,
	}
)

type (
	InboundConfig struct {
		// IdleTimeout closes a connection that sent nothing for that long
		// while the hub was waiting for input. Zero disables it.
		IdleTimeout  util.Duration
		WriteTimeout util.Duration
		// MaxBufferedWriteSize bounds the bytes queued for a peer that does
		// not read. The connection is closed when it is exceeded.
		MaxBufferedWriteSize int
		IOBufSize            int
		// MaxConnections caps the number of accepted connections per
		// listener. Zero means no limit.
		MaxConnections int
	}
)

func (conf *InboundConfig) SetDefaultIfNotDefined() (set bool) {
	if conf.WriteTimeout.Duration == 0 {
		set = true
		conf.WriteTimeout = DefaultInboundConfig.WriteTimeout
	}
	if conf.MaxBufferedWriteSize == 0 {
		set = true
		conf.MaxBufferedWriteSize = DefaultInboundConfig.MaxBufferedWriteSize
	}
	if conf.IOBufSize == 0 {
		set = true
		conf.IOBufSize = DefaultInboundConfig.IOBufSize
	}
	return
}

func (conf *InboundConfig) Validate() (err error) {
	if conf.IOBufSize < 0 || conf.MaxBufferedWriteSize < 0 || conf.MaxConnections < 0 {
		err = fmt.Errorf("IO sizes must not be negative")
	}
	return
}

func (conf *InboundConfig) Dump() {
	glog.Infof("IO.IdleTimeout: %s", conf.IdleTimeout.Duration)
	glog.Infof("IO.WriteTimeout: %s", conf.WriteTimeout.Duration)
	glog.Infof("IO.MaxBufferedWriteSize: %d", conf.MaxBufferedWriteSize)
	glog.Infof("IO.IOBufSize: %d", conf.IOBufSize)
	glog.Infof("IO.MaxConnections: %d", conf.MaxConnections)
}

// InboundConfigMap holds IO settings per listener name.
type InboundConfigMap map[string]InboundConfig

func (m *InboundConfigMap) SetDefaultIfNotDefined() {
	for k, v := range *m {
		if v.SetDefaultIfNotDefined() {
			(*m)[k] = v
		}
	}
}
