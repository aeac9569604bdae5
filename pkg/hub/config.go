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

package hub

import (
	"fmt"

	"nethub/pkg/glog"
	"nethub/pkg/proto"
)

const (
	kDefaultMaxTxDepth  = 4
	kDefaultRecvBufSize = 4 * proto.KMaxFrameSize
)

var DefaultConfig = Config{
	MaxTxDepth:  kDefaultMaxTxDepth,
	RecvBufSize: kDefaultRecvBufSize,
}

type Config struct {
	// MaxTxDepth is the number of forwarded frames a destination may hold
	// without acknowledging them.
	MaxTxDepth int
	// RecvBufSize is the initial size of each connection's frame decoder.
	RecvBufSize int
}

func (c *Config) SetDefaultIfNotDefined() {
	if c.MaxTxDepth == 0 {
		c.MaxTxDepth = DefaultConfig.MaxTxDepth
	}
	if c.RecvBufSize == 0 {
		c.RecvBufSize = DefaultConfig.RecvBufSize
	}
}

func (c *Config) Validate() (err error) {
	if c.MaxTxDepth < 1 || c.MaxTxDepth > 255 {
		err = fmt.Errorf("Hub.MaxTxDepth %d out of range [1, 255]", c.MaxTxDepth)
	} else if c.RecvBufSize < proto.KMaxFrameSize {
		err = fmt.Errorf("Hub.RecvBufSize %d smaller than max frame size %d", c.RecvBufSize, proto.KMaxFrameSize)
	}
	return
}

func (c *Config) Dump() {
	glog.Infof("Hub.MaxTxDepth: %d", c.MaxTxDepth)
	glog.Infof("Hub.RecvBufSize: %d", c.RecvBufSize)
}
