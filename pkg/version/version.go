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

// Package version reports the build identity of the nethub binaries.
package version

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"text/tabwriter"
)

// Set at link time, e.g.
//
//	go build -ldflags "-X nethub/pkg/version.Revision=$(git rev-parse --short HEAD)"
//
// Revision and BuildTime fall back to the VCS stamp of the module build.
var (
	Version   string = "1.0"
	Revision  string = ""
	BuildId   string = ""
	BuildTime string = ""
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if len(Revision) == 0 && len(s.Value) >= 7 {
				Revision = s.Value[:7]
			}
		case "vcs.time":
			if len(BuildTime) == 0 {
				BuildTime = s.Value
			}
		}
	}
}

// OnelineVersionString joins the non-empty parts with dots, e.g. "1.0.3f2a1c9".
func OnelineVersionString() string {
	parts := []string{Version}
	for _, p := range []string{Revision, BuildId} {
		if len(p) != 0 {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ".")
}

func WriteVersionInfo(w io.Writer) {
	fmt.Fprintf(w, "\nnethub %s %s\n\n", filepath.Base(os.Args[0]), Version)
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	field := func(name, value string) {
		if len(value) != 0 {
			fmt.Fprintf(tw, "  %s\t: %s\n", name, value)
		}
	}
	field("Build No.", BuildId)
	field("Git Commit", Revision)
	field("Go Version", runtime.Version())
	field("OS/Arch", runtime.GOOS+"/"+runtime.GOARCH)
	field("Built", BuildTime)
	tw.Flush()
	fmt.Fprintln(w)
}

func PrintVersionInfo() {
	WriteVersionInfo(os.Stdout)
}

func HttpHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	WriteVersionInfo(w)
}
