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

// Package stats serves the nethub monitoring pages.
package stats

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/pprof"
	"time"

	"nethub/cmd/nethub/config"
	"nethub/pkg/glog"
	"nethub/pkg/hub"
	"nethub/pkg/stats"
	"nethub/pkg/version"
)

var (
	HttpServerMux http.ServeMux

	indexPage = stats.IndexPage{Title: "nethub"}
	server    struct {
		hub       *hub.Hub
		listeners []string
		startTime time.Time
	}
)

const (
	kQueryElemKey       = "elem"
	kQueryElemValueMain = "main"
)

// Initialize is the initmgr entry: args are the *hub.Hub and the listener
// addresses as a []string.
func Initialize(args ...interface{}) (err error) {
	if len(args) < 1 {
		err = fmt.Errorf("a *hub.Hub argument expected")
		glog.Error(err)
		return
	}
	var ok bool
	if server.hub, ok = args[0].(*hub.Hub); !ok || server.hub == nil {
		err = fmt.Errorf("wrong argument type. a *hub.Hub expected")
		glog.Error(err)
		return
	}
	if len(args) > 1 {
		if server.listeners, ok = args[1].([]string); !ok {
			err = fmt.Errorf("wrong argument type. a []string expected")
			glog.Error(err)
			return
		}
	}
	server.startTime = time.Now()

	HttpServerMux.HandleFunc("/", indexHandler)
	addPage("/stats", httpStatsHandler)
	addPage("/stats/json", jsonStatsHandler)
	addPage("/debug/config", debugConfigHandler)
	addPage("/version", version.HttpHandler)
	addPage("/debug/pprof/", pprof.Index)
	HttpServerMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	HttpServerMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	HttpServerMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	HttpServerMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return
}

func addPage(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	HttpServerMux.HandleFunc(path, handler)
	indexPage.AddLink(path, path)
}

func indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if err := stats.IndexPageTmpl.Execute(w, &indexPage); err != nil {
		fmt.Fprint(w, err)
	}
}

func httpStatsHandler(w http.ResponseWriter, r *http.Request) {
	page := newStatsPage(server.hub.Snapshot())
	if err := page.Write(w, r.URL.Query().Get(kQueryElemKey) == kQueryElemValueMain); err != nil {
		fmt.Fprint(w, err)
	}
}

func jsonStatsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(server.hub.Snapshot()); err != nil {
		glog.Warningf("encode stats: %s", err)
	}
}

func debugConfigHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := config.Conf.WriteToml(w); err != nil {
		fmt.Fprint(w, err)
	}
}
