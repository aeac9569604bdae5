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

package config

import (
	"testing"
	"time"
)

func TestSetDefaultIfNotDefined(t *testing.T) {
	c := Config{Port: 9000, UrlPath: "/custom/path"}
	c.SetDefaultIfNotDefined()

	if c.Endpoint() != "127.0.0.1:9000" {
		t.Errorf("Endpoint = %q", c.Endpoint())
	}
	if c.UrlPath != "custom/path" {
		t.Errorf("UrlPath = %q", c.UrlPath)
	}
	if c.ExportInterval.Duration != time.Minute || c.ServiceName != "nethub" {
		t.Errorf("unexpected defaults %+v", c)
	}
	if len(c.HistogramBuckets.Delivery) == 0 {
		t.Error("delivery buckets not set")
	}
	if err := c.Validate(); err != nil {
		t.Error(err)
	}
}

func TestValidate(t *testing.T) {
	c := Config{}
	c.SetDefaultIfNotDefined()
	c.HistogramBuckets.Delivery = []float64{1, 5, 2}
	if err := c.Validate(); err == nil {
		t.Error("expected error for unsorted buckets")
	}

	c = Config{}
	c.SetDefaultIfNotDefined()
	c.ExportInterval.Duration = 10 * time.Millisecond
	if err := c.Validate(); err == nil {
		t.Error("expected error for short interval")
	}
}
