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

package cli

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"nethub/pkg/client"
	"nethub/pkg/glog"
	"nethub/pkg/proto"
)

const (
	kMaxTrackedLatencyUs = int64(time.Minute / time.Microsecond)
)

type (
	cmdLoadT struct {
		clientCommandT
		optNumProducers uint
		optNumConsumers uint
		optDuration     time.Duration
		optPayloadSize  uint
	}

	loadResult struct {
		latency  *hdrhistogram.Histogram
		acked    int64
		nacked   int64
		failed   int64
		elapsed  time.Duration
		received int64
	}
)

func (c *cmdLoadT) Init(name string, desc string) {
	c.clientCommandT.Init(name, desc)
	c.UintOption(&c.optNumProducers, "n|num-producers", 4, "number of concurrent producers")
	c.UintOption(&c.optNumConsumers, "num-consumers", 1, "number of consumers registered at the address by this command")
	c.DurationOption(&c.optDuration, "d|duration", 10*time.Second, "how long to run")
	c.UintOption(&c.optPayloadSize, "size", 8, fmt.Sprintf("payload size in bytes, at most %d", proto.KMaxPayloadSize))
	c.AddExample("nethubcli load -n 8 -d 30s 1234", "eight producers and one consumer at 0x1234 for 30 seconds")
}

func (c *cmdLoadT) Parse(args []string) (err error) {
	if err = c.clientCommandT.Parse(args); err != nil {
		return
	}
	if c.optNumProducers == 0 {
		err = fmt.Errorf("at least one producer required")
	} else if c.optPayloadSize < 4 || c.optPayloadSize > proto.KMaxPayloadSize {
		err = fmt.Errorf("payload size must be in [4, %d]", proto.KMaxPayloadSize)
	}
	return
}

func (c *cmdLoadT) Exec() {
	result, err := c.run()
	exitOnError(err)
	result.write(os.Stdout)
}

func (c *cmdLoadT) run() (result loadResult, err error) {
	var mtx sync.Mutex
	var received int64
	onData := func(src proto.Address, payload []byte) {
		atomic.AddInt64(&received, 1)
	}
	for i := uint(0); i < c.optNumConsumers; i++ {
		var consumer *client.Client
		if consumer, err = c.connect(&c.addr, client.WithHandler(onData)); err != nil {
			return
		}
		defer consumer.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.optDuration)
	defer cancel()
	go func() {
		waitForSignal(ctx.Done())
		cancel()
	}()

	producers := make([]*client.Client, c.optNumProducers)
	for i := range producers {
		if producers[i], err = c.connect(nil); err != nil {
			return
		}
		defer producers[i].Close()
	}

	result.latency = hdrhistogram.New(1, kMaxTrackedLatencyUs, 3)
	var wg sync.WaitGroup
	start := time.Now()
	for i, p := range producers {
		wg.Add(1)
		go func(id int, p *client.Client) {
			defer wg.Done()
			r := c.produce(ctx, id, p)
			mtx.Lock()
			result.latency.Merge(r.latency)
			result.acked += r.acked
			result.nacked += r.nacked
			result.failed += r.failed
			mtx.Unlock()
		}(i, p)
	}
	wg.Wait()
	result.elapsed = time.Since(start)
	result.received = atomic.LoadInt64(&received)
	return
}

func (c *cmdLoadT) produce(ctx context.Context, id int, p *client.Client) (r loadResult) {
	r.latency = hdrhistogram.New(1, kMaxTrackedLatencyUs, 3)
	payload := make([]byte, c.optPayloadSize)
	for seq := uint32(1); ctx.Err() == nil; seq++ {
		binary.LittleEndian.PutUint32(payload, seq)
		tmStart := time.Now()
		delivered, err := p.Transmit(ctx, c.addr, payload)
		if err != nil {
			if ctx.Err() == nil {
				glog.Warningf("producer %d: %s", id, err)
				r.failed++
			}
			return
		}
		us := int64(time.Since(tmStart) / time.Microsecond)
		if us > kMaxTrackedLatencyUs {
			us = kMaxTrackedLatencyUs
		}
		r.latency.RecordValue(us)
		if delivered {
			r.acked++
		} else {
			r.nacked++
		}
	}
	return
}

func (r *loadResult) write(w io.Writer) {
	total := r.acked + r.nacked
	fmt.Fprintf(w, "elapsed:    %s\n", r.elapsed.Truncate(time.Millisecond))
	fmt.Fprintf(w, "packets:    %d (acked %d, nacked %d, failed %d)\n", total, r.acked, r.nacked, r.failed)
	fmt.Fprintf(w, "received:   %d\n", r.received)
	if r.elapsed > 0 {
		fmt.Fprintf(w, "throughput: %.1f/s\n", float64(total)/r.elapsed.Seconds())
	}
	if r.latency == nil || r.latency.TotalCount() == 0 {
		return
	}
	us := func(v int64) time.Duration { return time.Duration(v) * time.Microsecond }
	fmt.Fprintf(w, "latency:    mean %s, p50 %s, p95 %s, p99 %s, max %s\n",
		time.Duration(r.latency.Mean()*float64(time.Microsecond)).Truncate(time.Microsecond),
		us(r.latency.ValueAtQuantile(50)),
		us(r.latency.ValueAtQuantile(95)),
		us(r.latency.ValueAtQuantile(99)),
		us(r.latency.Max()))
}
