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
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"nethub/pkg/glog"
	otelCfg "nethub/pkg/logging/otel/config"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric/global"
	"go.opentelemetry.io/otel/metric/instrument"
	"go.opentelemetry.io/otel/metric/instrument/asyncint64"
	"go.opentelemetry.io/otel/metric/instrument/syncint64"
	"go.opentelemetry.io/otel/metric/unit"
	"go.opentelemetry.io/otel/sdk/instrumentation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/aggregation"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

type CMetric int

const (
	Accept CMetric = CMetric(iota)
	Close
	Submit
	Forward
	Ack
	Nack
	UnsolicitedAck
	Malformed
)

type Tags struct {
	TagName  string
	TagValue string
}

const (
	Endpoint  = string("endpoint")
	Status    = string("status")
	FrameType = string("frame_type")
	Fanout    = string("fanout")
	Error     = string("Error")
	Success   = string("Success")
)

const NETHUB_METRIC_PREFIX = "nethub.server."
const MeterName = "nethub-server-meter"

type countMetric struct {
	metricName    string
	metricDesc    string
	counter       syncint64.Counter
	createCounter *sync.Once
}

var countMetricMap = map[CMetric]*countMetric{
	Accept:         {"accept", "Accepting incoming connections", nil, &sync.Once{}},
	Close:          {"close", "Closing incoming connections", nil, &sync.Once{}},
	Submit:         {"submit", "Data frames queued for dispatch", nil, &sync.Once{}},
	Forward:        {"forward", "Data frames forwarded to a destination", nil, &sync.Once{}},
	Ack:            {"ack", "Deliveries completed with an Ack to the source", nil, &sync.Once{}},
	Nack:           {"nack", "Deliveries refused for lack of destinations", nil, &sync.Once{}},
	UnsolicitedAck: {"unsolicited_ack", "Acks received with no outstanding credit", nil, &sync.Once{}},
	Malformed:      {"malformed", "Frames ignored because of an invalid body", nil, &sync.Once{}},
}

var (
	deliveryHistogramOnce sync.Once
	deliveryHistogram     syncint64.Histogram
	gaugeOnce             sync.Once
)

var (
	meterProvider *metric.MeterProvider
)

// GaugeSource is polled on every collection cycle.
type GaugeSource interface {
	NumConnections() int
	NumAddresses() int
}

func Initialize(args ...interface{}) (err error) {
	sz := len(args)
	if sz == 0 {
		err = fmt.Errorf("otel config argument not as expected")
		glog.Error(err)
		return
	}
	var c *otelCfg.Config
	var ok bool
	if c, ok = args[0].(*otelCfg.Config); !ok {
		err = fmt.Errorf("wrong argument type")
		glog.Error(err)
		return
	}
	c.SetDefaultIfNotDefined()
	c.Dump()
	if c.Enabled {
		if err = InitMetricProvider(c); err != nil {
			glog.Error(err)
			return
		}
		glog.Info("otel metrics initialized")
	}
	return
}

func Finalize() {
	if meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := meterProvider.Shutdown(ctx); err != nil {
		glog.Warningf("otel shutdown: %s", err)
	}
}

func InitMetricProvider(config *otelCfg.Config) error {
	if meterProvider != nil {
		return nil
	}

	exp, err := NewHTTPExporter(context.Background(), config)
	if err != nil {
		return err
	}
	reader := metric.NewPeriodicReader(exp, metric.WithInterval(config.ExportInterval.Duration))
	provider := NewMeterProvider(reader, *config)
	global.SetMeterProvider(provider)
	return nil
}

// NewMeterProvider builds the provider with the delivery histogram view and
// makes it the one IsEnabled reports on.
func NewMeterProvider(reader metric.Reader, cfg otelCfg.Config) *metric.MeterProvider {
	deliveryView := metric.NewView(
		metric.Instrument{
			Name:  "*delivery*",
			Scope: instrumentation.Scope{Name: MeterName},
		},
		metric.Stream{
			Aggregation: aggregation.ExplicitBucketHistogram{
				Boundaries: cfg.HistogramBuckets.Delivery,
			},
		})

	meterProvider = metric.NewMeterProvider(
		metric.WithResource(getResourceInfo(cfg)),
		metric.WithReader(reader),
		metric.WithView(deliveryView),
	)
	return meterProvider
}

func NewHTTPExporter(ctx context.Context, cfg *otelCfg.Config) (metric.Exporter, error) {
	var deltaTemporalitySelector = func(metric.InstrumentKind) metricdata.Temporality { return metricdata.DeltaTemporality }
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint()),
		otlpmetrichttp.WithURLPath("/" + cfg.UrlPath),
		otlpmetrichttp.WithTimeout(7 * time.Second),
		otlpmetrichttp.WithCompression(otlpmetrichttp.NoCompression),
		otlpmetrichttp.WithTemporalitySelector(deltaTemporalitySelector),
		otlpmetrichttp.WithRetry(otlpmetrichttp.RetryConfig{
			Enabled:         true,
			InitialInterval: 1 * time.Second,
			MaxInterval:     10 * time.Second,
			MaxElapsedTime:  240 * time.Second,
		}),
	}
	if !cfg.UseTls {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	return otlpmetrichttp.New(ctx, opts...)
}

func IsEnabled() bool {
	return meterProvider != nil
}

func GetHistogramForDelivery() (syncint64.Histogram, error) {
	var err error
	deliveryHistogramOnce.Do(func() {
		meter := global.Meter(MeterName)
		deliveryHistogram, err = meter.SyncInt64().Histogram(
			PopulateMetricNamePrefix("delivery"),
			instrument.WithDescription("Dispatch to source Ack latency"),
			instrument.WithUnit(unit.Milliseconds),
		)
	})
	if deliveryHistogram == nil {
		if err == nil {
			err = errors.New("histogram not ready")
		}
		return nil, err
	}
	return deliveryHistogram, nil
}

func GetCounter(counterName CMetric) (syncint64.Counter, error) {
	counterMetric, ok := countMetricMap[counterName]
	if !ok {
		return nil, errors.New("no such counter exists")
	}
	counterMetric.createCounter.Do(func() {
		meter := global.Meter(MeterName)
		counterMetric.counter, _ = meter.SyncInt64().Counter(
			PopulateMetricNamePrefix(counterMetric.metricName),
			instrument.WithDescription(counterMetric.metricDesc),
		)
	})
	if counterMetric.counter == nil {
		return nil, errors.New("counter object not ready")
	}
	return counterMetric.counter, nil
}

// RecordCount adds one to the counter, tagged with tags.
func RecordCount(counterName CMetric, tags []Tags) {
	counter, err := GetCounter(counterName)
	if err != nil {
		glog.Error(err)
		return
	}
	counter.Add(context.Background(), 1, toAttributes(tags)...)
}

// RecordDelivery records one completed delivery, tagged with its fan-out width.
func RecordDelivery(fanout int, latency time.Duration) {
	if h, err := GetHistogramForDelivery(); err == nil {
		h.Record(context.Background(), latency.Milliseconds(),
			attribute.Int(Fanout, fanout))
	}
}

// RegisterGauges exports the connection and address counts of src. Only the
// first call has effect.
func RegisterGauges(src GaugeSource) (err error) {
	gaugeOnce.Do(func() {
		meter := global.Meter(MeterName)
		var conns, addrs asyncint64.Gauge
		if conns, err = meter.AsyncInt64().Gauge(
			PopulateMetricNamePrefix("conns_count"),
			instrument.WithDescription("number of current connections"),
		); err != nil {
			return
		}
		if addrs, err = meter.AsyncInt64().Gauge(
			PopulateMetricNamePrefix("address_count"),
			instrument.WithDescription("number of registered addresses"),
		); err != nil {
			return
		}
		err = meter.RegisterCallback(
			[]instrument.Asynchronous{conns, addrs},
			func(ctx context.Context) {
				conns.Observe(ctx, int64(src.NumConnections()))
				addrs.Observe(ctx, int64(src.NumAddresses()))
			},
		)
	})
	return
}

func toAttributes(tags []Tags) []attribute.KeyValue {
	if len(tags) == 0 {
		return nil
	}
	attrs := make([]attribute.KeyValue, 0, len(tags))
	for _, t := range tags {
		attrs = append(attrs, attribute.String(t.TagName, t.TagValue))
	}
	return attrs
}

func PopulateMetricNamePrefix(metricName string) string {
	return NETHUB_METRIC_PREFIX + metricName
}

func getResourceInfo(cfg otelCfg.Config) *resource.Resource {
	hostname, _ := os.Hostname()

	return resource.NewWithAttributes(semconv.SchemaURL,
		semconv.HostNameKey.String(hostname),
		semconv.ServiceNameKey.String(cfg.ServiceName),
		attribute.String("environment", cfg.Environment),
		attribute.String("application", cfg.ServiceName),
	)
}
