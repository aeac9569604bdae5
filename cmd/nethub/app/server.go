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

package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"nethub/cmd/nethub/config"
	"nethub/cmd/nethub/stats"
	"nethub/pkg/glog"
	"nethub/pkg/hub"
	"nethub/pkg/initmgr"
	"nethub/pkg/logging/otel"
	"nethub/pkg/service"
	"nethub/pkg/version"
)

func (c *Server) Init(name string, desc string) {
	c.cmdCommon.Init(name, desc)
	c.StringOption(&c.optLogLevel, "log-level", kDefaultLogLevel, "specify log level. overrides LogLevel in config")
	c.BoolOption(&c.optQuiet, "q|quiet", false, "log warnings and errors only")
	c.StringOption(&c.optHttpMonAddr, "mon-addr|monitoring-address", "", "specify the http monitoring address. overrides HttpMonAddr in config")
	c.BoolOption(&c.optVersion, "version", false, "display version info")
	c.SetSynopsis("[-c <config file>] [-bind <addr>] [-port <port>] [options]")
	c.AddExample("nethub -port 2405", "listen on all interfaces, port 2405")
	c.AddExample("nethub -c nethub.toml -set Hub.MaxTxDepth=8 -mon-addr :8080", "run with a config file and the monitoring pages enabled")
}

func (c *Server) Exec() {
	if c.optVersion {
		version.PrintVersionInfo()
		return
	}
	c.loadConfig()

	cfg := &config.Conf
	if c.optLogLevel != "" {
		cfg.LogLevel = c.optLogLevel
	}
	if c.optQuiet {
		cfg.LogLevel = "warning"
	}
	if c.optHttpMonAddr != "" {
		cfg.HttpMonAddr = c.optHttpMonAddr
	}
	appName := "[" + filepath.Base(os.Args[0]) + "] "

	initmgr.RegisterWithFuncs(glog.Initialize, glog.Finalize, cfg.LogLevel, appName)
	initmgr.RegisterWithFuncs(otel.Initialize, otel.Finalize, &cfg.OTEL)
	initmgr.Init()

	if glog.LOG_DEBUG {
		cfg.Dump()
	}
	glog.Infof("%s", version.OnelineVersionString())

	h := newHub(cfg.Hub)

	svc, err := service.NewService(cfg.Config, h)
	if err != nil {
		glog.Exitf("%s", err)
	}
	var listeners []string
	for _, l := range svc.GetListeners() {
		listeners = append(listeners, l.GetConnString())
	}

	if cfg.PidFileName != "" {
		if err = writePidFile(cfg.PidFileName); err != nil {
			glog.Exitf("%s", err)
		}
		defer os.Remove(cfg.PidFileName)
	}

	if cfg.HttpMonAddr != "" {
		initmgr.RegisterWithFuncs(stats.Initialize, nil, h, listeners)
		initmgr.Init()
		go func() {
			glog.Infof("http monitoring on %s", cfg.HttpMonAddr)
			if err := http.ListenAndServe(cfg.HttpMonAddr, &stats.HttpServerMux); err != nil {
				glog.Errorf("http monitoring: %s", err)
			}
		}()
	}

	svc.Run(context.Background())
}

// newHub creates the hub and exports its gauges. A metrics failure is
// logged and does not stop the server.
func newHub(cfg hub.Config) *hub.Hub {
	h := hub.New(cfg)
	if err := otel.RegisterGauges(h); err != nil {
		glog.Warningf("otel gauges not registered: %s", err)
	}
	return h
}

// writePidFile refuses to overwrite the pid file of a running process.
func writePidFile(pidFile string) error {
	if data, err := os.ReadFile(pidFile); err == nil {
		if pid, err := strconv.Atoi(strings.TrimSpace(string(data))); err == nil && pid != os.Getpid() {
			if process, err := os.FindProcess(pid); err == nil {
				if err := process.Signal(syscall.Signal(0)); err == nil {
					return fmt.Errorf("process pid: %d in %s is still running", pid, pidFile)
				}
			}
		}
	}
	return os.WriteFile(pidFile, []byte(strconv.Itoa(os.Getpid())), 0644)
}
