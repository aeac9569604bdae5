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

// Package config holds the OTLP metrics exporter settings, the [OTEL]
// section of nethub.toml.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"nethub/pkg/glog"
	"nethub/pkg/util"
)

type HistBuckets struct {
	// delivery latency, milliseconds
	Delivery []float64
}

type Config struct {
	Enabled        bool
	Host           string
	Port           uint32
	UrlPath        string
	UseTls         bool
	ServiceName    string
	Environment    string
	ExportInterval util.Duration

	HistogramBuckets HistBuckets
}

var defaultDeliveryBuckets = []float64{1, 2, 5, 10, 20, 50, 100, 200, 500, 1000, 5000}

func (c *Config) SetDefaultIfNotDefined() {
	if len(c.Host) == 0 {
		c.Host = "127.0.0.1"
	}
	if c.Port == 0 {
		c.Port = 4318
	}
	c.UrlPath = strings.TrimPrefix(c.UrlPath, "/")
	if len(c.UrlPath) == 0 {
		c.UrlPath = "v1/metrics"
	}
	if len(c.ServiceName) == 0 {
		c.ServiceName = "nethub"
	}
	if len(c.Environment) == 0 {
		c.Environment = "dev"
	}
	if c.ExportInterval.Duration == 0 {
		c.ExportInterval = util.NewDuration(time.Minute)
	}
	if len(c.HistogramBuckets.Delivery) == 0 {
		c.HistogramBuckets.Delivery = append([]float64(nil), defaultDeliveryBuckets...)
	}
}

func (c *Config) Validate() error {
	if c.ExportInterval.Duration < time.Second {
		return fmt.Errorf("OTEL.ExportInterval %s shorter than 1s", c.ExportInterval.Duration)
	}
	b := c.HistogramBuckets.Delivery
	for i := 1; i < len(b); i++ {
		if b[i] <= b[i-1] {
			return fmt.Errorf("OTEL.HistogramBuckets.Delivery not increasing at %v", b[i])
		}
	}
	return nil
}

// Endpoint is the collector host:port.
func (c *Config) Endpoint() string {
	return net.JoinHostPort(c.Host, strconv.FormatUint(uint64(c.Port), 10))
}

func (c *Config) Dump() {
	glog.Infof("otel: enabled=%t endpoint=%s/%s tls=%t service=%s env=%s interval=%s",
		c.Enabled, c.Endpoint(), c.UrlPath, c.UseTls, c.ServiceName, c.Environment, c.ExportInterval.Duration)
	glog.Info("otel: delivery buckets (ms) ", c.HistogramBuckets.Delivery)
}
