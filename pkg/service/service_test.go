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
	"context"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"nethub/pkg/hub"
	"nethub/pkg/io"
)

func TestSetListeners(t *testing.T) {
	var cfg Config
	cfg.SetListeners([]string{"2405", "127.0.0.1:7000", ""})
	if len(cfg.Listener) != 2 {
		t.Fatalf("got %d listeners", len(cfg.Listener))
	}
	if cfg.Listener[0].Addr != ":2405" || cfg.Listener[1].Addr != "127.0.0.1:7000" {
		t.Errorf("unexpected listeners %+v", cfg.Listener)
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.SetDefaultIfNotDefined()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Listener[0].Addr != ":2405" {
		t.Errorf("default listener %q", cfg.Listener[0].Addr)
	}
	if cfg.ShutdownWaitTime.Duration != kDefaultShutdownWaitTime {
		t.Errorf("ShutdownWaitTime %s", cfg.ShutdownWaitTime.Duration)
	}
	named := io.ListenerConfig{Name: "other"}
	if c := cfg.GetIoConfig(&named); c.IOBufSize != io.DefaultInboundConfig.IOBufSize {
		t.Errorf("fallback IO config not used: %+v", c)
	}
}

func TestRunAndShutdown(t *testing.T) {
	cfg := Config{ShutdownWaitTime: DefaultConfig.ShutdownWaitTime}
	cfg.SetListeners([]string{"127.0.0.1:0"})
	svc, err := NewService(cfg, hub.New(hub.Config{}))
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		svc.Run(context.Background())
		close(done)
	}()
	svc.Shutdown()
	svc.Shutdown()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Shutdown")
	}
}

func TestRunStopsOnContext(t *testing.T) {
	cfg := Config{ShutdownWaitTime: DefaultConfig.ShutdownWaitTime}
	cfg.SetListeners([]string{"127.0.0.1:0"})
	svc, err := NewService(cfg, hub.New(hub.Config{}))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewServiceNoListener(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer taken.Close()

	cfg := Config{}
	cfg.SetListeners([]string{taken.Addr().String()})
	if _, err := NewService(cfg, hub.New(hub.Config{})); err == nil {
		t.Error("expected error when no listener binds")
	}
}

// flakyListener fails its first accept with EMFILE, then blocks until shut
// down.
type flakyListener struct {
	calls    int32
	chClosed chan struct{}
	once     sync.Once
}

func (l *flakyListener) GetName() string { return "flaky" }

func (l *flakyListener) AcceptAndServe() error {
	if atomic.AddInt32(&l.calls, 1) == 1 {
		return &net.OpError{Op: "accept", Net: "tcp", Err: os.NewSyscallError("accept", syscall.EMFILE)}
	}
	<-l.chClosed
	return net.ErrClosed
}

func (l *flakyListener) Close() error {
	l.once.Do(func() { close(l.chClosed) })
	return nil
}

func (l *flakyListener) Shutdown()                                    { l.Close() }
func (l *flakyListener) WaitForShutdownToComplete(time.Duration) bool { return true }
func (l *flakyListener) GetConnString() string                        { return "flaky" }
func (l *flakyListener) GetNumActiveConnections() uint32              { return 0 }
func (l *flakyListener) GetNumAcceptedConnections() uint64            { return 0 }

func TestAcceptRetriesTemporaryError(t *testing.T) {
	ln := &flakyListener{chClosed: make(chan struct{})}
	svc := New(DefaultConfig, hub.New(hub.Config{}), ln)

	done := make(chan struct{})
	go func() {
		svc.Run(context.Background())
		close(done)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for atomic.LoadInt32(&ln.calls) < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("accept loop stopped after EMFILE; %d accept calls", atomic.LoadInt32(&ln.calls))
		}
		time.Sleep(5 * time.Millisecond)
	}

	svc.Shutdown()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Shutdown")
	}
}

func TestNextAcceptBackoff(t *testing.T) {
	d := nextAcceptBackoff(0)
	if d != kMinAcceptBackoff {
		t.Errorf("first backoff %s", d)
	}
	for i := 0; i < 20; i++ {
		d = nextAcceptBackoff(d)
	}
	if d != kMaxAcceptBackoff {
		t.Errorf("backoff not capped: %s", d)
	}
}
