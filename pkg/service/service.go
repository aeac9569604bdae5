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
	"errors"
	"net"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"nethub/pkg/glog"
	"nethub/pkg/hub"
	"nethub/pkg/io"
)

const (
	kMinAcceptBackoff = 5 * time.Millisecond
	kMaxAcceptBackoff = time.Second
)

// Service runs the hub listeners. It stops when Shutdown is called, the
// context passed to Run is done, or the process gets SIGINT or SIGTERM.
type Service struct {
	listeners []io.IListener
	hub       *hub.Hub
	config    Config

	wg       sync.WaitGroup
	chStop   chan struct{}
	stopOnce sync.Once
}

func New(config Config, h *hub.Hub, listeners ...io.IListener) *Service {
	return &Service{
		listeners: listeners,
		hub:       h,
		config:    config,
		chStop:    make(chan struct{}),
	}
}

// NewService binds one listener per configured endpoint. An endpoint that
// fails to bind is logged and skipped; no listener at all is an error.
func NewService(cfg Config, h *hub.Hub) (*Service, error) {
	cfg.SetDefaultIfNotDefined()

	listeners := make([]io.IListener, 0, len(cfg.Listener))
	for _, lc := range cfg.Listener {
		ln, err := io.NewListener(lc, cfg.GetIoConfig(&lc), h)
		if err != nil {
			glog.Warningf("cannot listen on %s: %s", lc.GetConnString(), err)
			continue
		}
		listeners = append(listeners, ln)
	}
	if len(listeners) == 0 {
		return nil, errors.New("no listener created")
	}
	return New(cfg, h, listeners...), nil
}

// Run blocks until the service is told to stop and every listener has
// drained, or ShutdownWaitTime has passed.
func (s *Service) Run(ctx context.Context) {
	signal.Ignore(syscall.SIGPIPE)
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	for _, ln := range s.listeners {
		s.wg.Add(1)
		go s.acceptLoop(ln)
	}

	select {
	case <-ctx.Done():
		glog.Infof("stopping: %s", ctx.Err())
		s.Shutdown()
	case <-s.chStop:
	}
	for _, ln := range s.listeners {
		ln.Shutdown()
	}
	s.wg.Wait()
	glog.Infof("service stopped, %d connections left in hub", s.hub.NumConnections())
}

func (s *Service) acceptLoop(ln io.IListener) {
	defer s.wg.Done()
	var backoff time.Duration
	for {
		err := ln.AcceptAndServe()
		if err == nil {
			backoff = 0
			continue
		}
		if isTemporary(err) && !s.stopping() {
			backoff = nextAcceptBackoff(backoff)
			glog.Warningf("%s: temporary accept error: %s; retrying in %s", ln.GetName(), err, backoff)
			select {
			case <-time.After(backoff):
			case <-s.chStop:
			}
			continue
		}
		if s.stopping() {
			if !ln.WaitForShutdownToComplete(s.config.ShutdownWaitTime.Duration) {
				glog.Warningf("%s: gave up waiting for %d connections", ln.GetName(), ln.GetNumActiveConnections())
			}
		} else {
			glog.Errorf("%s: accept error: %s", ln.GetName(), err)
		}
		glog.Debugf("%s: listener stopped", ln.GetName())
		return
	}
}

// EMFILE and the like report Temporary but not Timeout.
func isTemporary(err error) bool {
	nerr, ok := err.(net.Error)
	return ok && (nerr.Timeout() || nerr.Temporary())
}

func nextAcceptBackoff(d time.Duration) time.Duration {
	if d == 0 {
		return kMinAcceptBackoff
	}
	if d *= 2; d > kMaxAcceptBackoff {
		d = kMaxAcceptBackoff
	}
	return d
}

func (s *Service) stopping() bool {
	select {
	case <-s.chStop:
		return true
	default:
		return false
	}
}

func (s *Service) Shutdown() {
	s.stopOnce.Do(func() { close(s.chStop) })
}

func (s *Service) GetListeners() []io.IListener {
	return s.listeners
}

func (s *Service) Hub() *hub.Hub {
	return s.hub
}
