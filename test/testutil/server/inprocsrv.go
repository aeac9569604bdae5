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

// Package server runs a nethub service inside the test process.
package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"nethub/pkg/glog"
	"nethub/pkg/hub"
	"nethub/pkg/io"
	"nethub/pkg/service"
	"nethub/pkg/util"
)

type InProcessServer struct {
	service      *service.Service
	listener     *io.Listener
	wg           sync.WaitGroup
	stopWaitTime time.Duration
	mtx          sync.Mutex
	up           bool
}

// NewInProcessServer listens on a free loopback port. The hub is created
// with cfg, defaults filled in.
func NewInProcessServer(cfg hub.Config) (s *InProcessServer, err error) {
	cfg.SetDefaultIfNotDefined()
	if err = cfg.Validate(); err != nil {
		return
	}
	svcConfig := service.Config{
		Listener:         []io.ListenerConfig{{ServiceEndpoint: io.ServiceEndpoint{Addr: "127.0.0.1:0"}}},
		ShutdownWaitTime: util.NewDuration(2 * time.Second),
	}
	svcConfig.SetDefaultIfNotDefined()

	h := hub.New(cfg)
	var lsnr io.IListener
	if lsnr, err = io.NewListener(svcConfig.Listener[0], svcConfig.GetIoConfig(&svcConfig.Listener[0]), h); err != nil {
		return
	}
	s = &InProcessServer{
		service:      service.New(svcConfig, h, lsnr),
		listener:     lsnr.(*io.Listener),
		stopWaitTime: svcConfig.ShutdownWaitTime.Duration,
	}
	return
}

func (s *InProcessServer) String() string {
	return fmt.Sprintf("nethub@%s", s.Addr())
}

// Addr is the "host:port" clients dial.
func (s *InProcessServer) Addr() string {
	return s.listener.Addr().String()
}

func (s *InProcessServer) Hub() *hub.Hub {
	return s.service.Hub()
}

func (s *InProcessServer) Start() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.up {
		return
	}
	s.up = true
	s.wg.Add(1)
	go func() {
		glog.Debugf("starting %s", s)
		s.service.Run(context.Background())
		glog.Debugf("%s stopped", s)
		s.wg.Done()
	}()
}

// Stop shuts the service down and waits for it to return.
func (s *InProcessServer) Stop() (err error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if !s.up {
		return
	}
	s.service.Shutdown()
	ch := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(ch)
	}()
	select {
	case <-ch:
		s.up = false
	case <-time.After(2 * s.stopWaitTime):
		err = fmt.Errorf("%s failed to shut down in %s", s, 2*s.stopWaitTime)
		glog.Error(err)
	}
	return
}

func (s *InProcessServer) IsUp() bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.up
}
