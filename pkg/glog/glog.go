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

// Package glog is a leveled facade over github.com/golang/glog.
//
// Every call checks the LOG_* gate first, so disabled levels cost a single
// boolean test. Levels map onto glog verbosity: error=1, warning=2, info=3,
// debug=4, verbose=5.
package glog

import (
	"flag"
	"fmt"
	"strings"
	"sync"

	upstream "github.com/golang/glog"
)

// default is LOG_INFO
var (
	LOG_ERROR   bool = true
	LOG_WARN    bool = true
	LOG_INFO    bool = true
	LOG_DEBUG   bool = false
	LOG_VERBOSE bool = false

	appName     string
	cleanupOnce sync.Once
)

// Initialize is the initmgr entry: args are the log level and the app name.
func Initialize(args ...interface{}) (err error) {
	if len(args) < 2 {
		err = fmt.Errorf("two arguments expected")
		return
	}
	var level, name string
	var ok bool
	if level, ok = args[0].(string); !ok {
		err = fmt.Errorf("a string log level expected")
		return
	}
	if name, ok = args[1].(string); !ok {
		err = fmt.Errorf("a string appname expected")
		return
	}
	InitLogging(level, name)
	return
}

func Finalize() {
	cleanupOnce.Do(upstream.Flush)
}

func InitLogging(level string, name string) {
	setFlag("logtostderr", "true")
	appName = name

	var v int
	switch strings.ToLower(level) {
	case "error":
		v = 1
	case "warning", "warn":
		v = 2
	case "debug":
		v = 4
	case "verbose":
		v = 5
	default:
		v = 3
	}
	setFlag("v", fmt.Sprint(v))

	LOG_ERROR = v >= 1
	LOG_WARN = v >= 2
	LOG_INFO = v >= 3
	LOG_DEBUG = v >= 4
	LOG_VERBOSE = v >= 5
}

func SetVModule(value string) {
	setFlag("vmodule", value)
}

func setFlag(name string, value string) {
	if f := flag.Lookup(name); f != nil {
		f.Value.Set(value)
	}
}

func prefixed(args []interface{}) string {
	return appName + fmt.Sprint(args...)
}

func prefixedln(args []interface{}) string {
	s := fmt.Sprintln(args...)
	return appName + s[:len(s)-1]
}

func prefixedf(format string, args []interface{}) string {
	return appName + fmt.Sprintf(format, args...)
}

func Info(args ...interface{}) {
	if LOG_INFO {
		upstream.InfoDepth(1, prefixed(args))
	}
}

func InfoDepth(depth int, args ...interface{}) {
	if LOG_INFO {
		upstream.InfoDepth(depth+1, prefixed(args))
	}
}

func Infoln(args ...interface{}) {
	if LOG_INFO {
		upstream.InfoDepth(1, prefixedln(args))
	}
}

func Infof(format string, args ...interface{}) {
	if LOG_INFO {
		upstream.InfoDepth(1, prefixedf(format, args))
	}
}

func Warning(args ...interface{}) {
	if LOG_WARN {
		upstream.WarningDepth(1, prefixed(args))
	}
}

func WarningDepth(depth int, args ...interface{}) {
	if LOG_WARN {
		upstream.WarningDepth(depth+1, prefixed(args))
	}
}

func Warningln(args ...interface{}) {
	if LOG_WARN {
		upstream.WarningDepth(1, prefixedln(args))
	}
}

func Warningf(format string, args ...interface{}) {
	if LOG_WARN {
		upstream.WarningDepth(1, prefixedf(format, args))
	}
}

func Error(args ...interface{}) {
	if LOG_ERROR {
		upstream.ErrorDepth(1, prefixed(args))
	}
}

func ErrorDepth(depth int, args ...interface{}) {
	if LOG_ERROR {
		upstream.ErrorDepth(depth+1, prefixed(args))
	}
}

func Errorln(args ...interface{}) {
	if LOG_ERROR {
		upstream.ErrorDepth(1, prefixedln(args))
	}
}

func Errorf(format string, args ...interface{}) {
	if LOG_ERROR {
		upstream.ErrorDepth(1, prefixedf(format, args))
	}
}

// debug and verbose output goes through the info severity
func Debug(args ...interface{}) {
	if LOG_DEBUG {
		upstream.InfoDepth(1, prefixed(args))
	}
}

func DebugDepth(depth int, args ...interface{}) {
	if LOG_DEBUG {
		upstream.InfoDepth(depth+1, prefixed(args))
	}
}

func Debugln(args ...interface{}) {
	if LOG_DEBUG {
		upstream.InfoDepth(1, prefixedln(args))
	}
}

func Debugf(format string, args ...interface{}) {
	if LOG_DEBUG {
		upstream.InfoDepth(1, prefixedf(format, args))
	}
}

func Verboseln(args ...interface{}) {
	if LOG_VERBOSE {
		upstream.InfoDepth(1, prefixedln(args))
	}
}

func Verbosef(format string, args ...interface{}) {
	if LOG_VERBOSE {
		upstream.InfoDepth(1, prefixedf(format, args))
	}
}

func Fatal(args ...interface{}) {
	upstream.FatalDepth(1, prefixed(args))
}

func Exitf(format string, args ...interface{}) {
	upstream.ExitDepth(1, prefixedf(format, args))
}

func Exit(args ...interface{}) {
	upstream.ExitDepth(1, prefixed(args))
}
