// Copyright 2023 PayPal Inc.
//
// Licensed to the Apache Software Foundation (ASF) under one or more
// contributor license agreements.  See the NOTICE file distributed with
// this work for additional information regarding copyright ownership.
// The ASF licenses this file to You under the Apache License, Version 2.0
// (the "License"); you may not use this file except in compliance with
// the License.  You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package otel

import (
	"context"
	"testing"
	"time"

	otelCfg "nethub/pkg/logging/otel/config"

	"go.opentelemetry.io/otel/metric/global"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type fakeGauges struct{}

func (fakeGauges) NumConnections() int { return 3 }
func (fakeGauges) NumAddresses() int   { return 2 }

func TestRecordWithManualReader(t *testing.T) {
	cfg := otelCfg.Config{}
	cfg.SetDefaultIfNotDefined()

	reader := metric.NewManualReader()
	provider := NewMeterProvider(reader, cfg)
	global.SetMeterProvider(provider)
	defer func() {
		provider.Shutdown(context.Background())
		meterProvider = nil
	}()

	if !IsEnabled() {
		t.Fatal("expected metrics to be enabled")
	}
	if err := RegisterGauges(fakeGauges{}); err != nil {
		t.Fatal(err)
	}

	RecordCount(Accept, nil)
	RecordCount(Forward, nil)
	RecordCount(Forward, nil)
	RecordCount(Malformed, []Tags{{FrameType, "Data"}})
	RecordDelivery(2, 3*time.Millisecond)

	rm, err := reader.Collect(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	found := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			found[m.Name] = m.Data
		}
	}
	for _, name := range []string{"accept", "forward", "malformed", "delivery", "conns_count", "address_count"} {
		if _, ok := found[PopulateMetricNamePrefix(name)]; !ok {
			t.Errorf("metric %s not collected", name)
		}
	}
	if sum, ok := found[PopulateMetricNamePrefix("forward")].(metricdata.Sum[int64]); ok {
		var total int64
		for _, dp := range sum.DataPoints {
			total += dp.Value
		}
		if total != 2 {
			t.Errorf("forward = %d, want 2", total)
		}
	} else {
		t.Error("forward is not an int64 sum")
	}
}

func TestInitializeArgs(t *testing.T) {
	if err := Initialize(); err == nil {
		t.Error("expected error for missing config")
	}
	if err := Initialize("bogus"); err == nil {
		t.Error("expected error for wrong argument type")
	}
	if err := Initialize(&otelCfg.Config{}); err != nil {
		t.Errorf("disabled config: %s", err)
	}
}
