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

// Package initmgr runs process initializers in weight order and finalizes
// the ones that ran in reverse order. Init may be called more than once;
// each initializer runs at most once.
package initmgr

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"reflect"
	"runtime"
	"sort"
	"strings"
	"sync"
	"syscall"
)

type IInitializer interface {
	Name() string
	Initialize(args ...interface{}) error
	Finalize()
}

type entryT struct {
	initializer IInitializer
	weight      int
	args        []interface{}
	initialized bool
	finalized   bool
}

var (
	mtx          sync.Mutex
	initializers []*entryT

	// replaced in tests
	exit             = os.Exit
	report io.Writer = os.Stderr
)

func Register(rc IInitializer, args ...interface{}) {
	mtx.Lock()
	weight := len(initializers)
	mtx.Unlock()
	RegisterWithWeight(rc, weight, args...)
}

func RegisterWithFuncs(initializeFunc func(args ...interface{}) error, finalizeFunc func(), args ...interface{}) {
	Register(NewInitializer(initializeFunc, finalizeFunc), args...)
}

// RegisterWithWeight adds rc; lower weights initialize first and ties keep
// registration order.
func RegisterWithWeight(rc IInitializer, weight int, args ...interface{}) {
	mtx.Lock()
	defer mtx.Unlock()
	initializers = append(initializers, &entryT{initializer: rc, weight: weight, args: args})
}

// Init runs every initializer not yet run. On the first failure it
// finalizes what already ran and exits with status 255. SIGINT or SIGTERM
// during initialization exits right away.
func Init() {
	stop := exitOnSignal()
	defer stop()

	mtx.Lock()
	sort.SliceStable(initializers, func(i, j int) bool {
		return initializers[i].weight < initializers[j].weight
	})
	pending := append([]*entryT(nil), initializers...)
	mtx.Unlock()

	for _, e := range pending {
		if e.initialized {
			continue
		}
		name := e.initializer.Name()
		if err := e.initializer.Initialize(e.args...); err != nil {
			fmt.Fprintf(report, "... [fail] initmgr.initialize %s\t (error: %s)\n", name, err)
			fmt.Fprintf(report, "\n... Initialization FAILURE. Exit ...\n\n")
			Finalize()
			exit(255)
			return
		}
		e.initialized = true
		fmt.Fprintf(report, "... [ok]   initmgr.initialize %s\n", name)
	}
}

// Finalize runs Finalize of every initialized entry, latest first.
func Finalize() {
	mtx.Lock()
	entries := append([]*entryT(nil), initializers...)
	mtx.Unlock()

	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if !e.initialized || e.finalized {
			continue
		}
		e.finalized = true
		fmt.Fprintf(report, "... initmgr.finalize %s\n", e.initializer.Name())
		e.initializer.Finalize()
	}
}

func exitOnSignal() (stop func()) {
	signal.Ignore(syscall.SIGPIPE)
	chSig := make(chan os.Signal, 1)
	chDone := make(chan struct{})
	signal.Notify(chSig, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-chSig:
			fmt.Fprintf(report, "... signal %d (%s) received during initialization\n", sig, sig)
			exit(0)
		case <-chDone:
		}
	}()
	return func() {
		signal.Stop(chSig)
		close(chDone)
	}
}

// Initializer adapts a pair of functions to IInitializer.
type Initializer struct {
	name           string
	InitializeFunc func(args ...interface{}) error
	FinalizeFunc   func()
}

func (i *Initializer) Name() string {
	return i.name
}

func (i *Initializer) Initialize(args ...interface{}) error {
	if i.InitializeFunc == nil {
		return nil
	}
	return i.InitializeFunc(args...)
}

func (i *Initializer) Finalize() {
	if i.FinalizeFunc != nil {
		i.FinalizeFunc()
	}
}

// NewInitializer names the initializer after the package that defines
// initializeFunc, e.g. "nethub/pkg/glog".
func NewInitializer(initializeFunc func(args ...interface{}) error, finalizeFunc func()) IInitializer {
	name := "unknown package"
	if fn := runtime.FuncForPC(reflect.ValueOf(initializeFunc).Pointer()); fn != nil {
		full := fn.Name()
		if i := strings.LastIndex(full, "."); i > 0 {
			name = full[:i]
		}
	}
	return &Initializer{name: name, InitializeFunc: initializeFunc, FinalizeFunc: finalizeFunc}
}
