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

package client

import (
	"time"

	"nethub/pkg/proto"
)

// Handler is called on the client's reader goroutine for every Data frame.
// payload is only valid during the call. A Handler must not wait for a
// Transmit of the same client to complete.
type Handler func(src proto.Address, payload []byte)

type IOption func(data *optionData)

type optionData struct {
	handler      Handler
	manualAck    bool
	writeTimeout time.Duration
}

// WithHandler installs the receiver of Data frames. Without one, received
// packets are acknowledged and discarded.
func WithHandler(h Handler) IOption {
	return func(data *optionData) {
		data.handler = h
	}
}

// WithManualAck turns off the automatic Ack after each Data frame; the
// caller acknowledges with Client.Ack.
func WithManualAck() IOption {
	return func(data *optionData) {
		data.manualAck = true
	}
}

func WithWriteTimeout(d time.Duration) IOption {
	return func(data *optionData) {
		data.writeTimeout = d
	}
}

func newOptionData(opts ...IOption) *optionData {
	data := &optionData{}
	for _, op := range opts {
		op(data)
	}
	return data
}
