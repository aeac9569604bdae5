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

package cmd

import (
	"flag"
	"fmt"
	"strings"
	"time"
)

// Option is a flag.FlagSet whose options may carry aliases, e.g. "c|config".
type Option struct {
	flag.FlagSet
	optsDesc string
}

func splitNames(name string) (names []string) {
	for _, n := range strings.Split(name, "|") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return
}

func (o *Option) describe(names []string, kind string, def string, usage string) {
	opts := make([]string, len(names))
	for i, n := range names {
		opts[i] = "-" + n
	}
	line := "  " + strings.Join(opts, ", ")
	if kind != "" {
		line += " " + kind
	}
	o.optsDesc += line + "\n"
	if def != "" {
		o.optsDesc += fmt.Sprintf("    \t(default %s)\n", def)
	}
	o.optsDesc += fmt.Sprintf("    \t%s\n\n", usage)
}

func (o *Option) ValueOption(value flag.Value, name string, usage string) {
	names := splitNames(name)
	for _, n := range names {
		o.Var(value, n, usage)
	}
	if len(names) != 0 {
		o.describe(names, "value", "", usage)
	}
}

func (o *Option) StringOption(p *string, name string, value string, usage string) {
	names := splitNames(name)
	for _, n := range names {
		o.StringVar(p, n, value, usage)
	}
	if len(names) != 0 {
		o.describe(names, "string", fmt.Sprintf("%q", value), usage)
	}
}

func (o *Option) BoolOption(p *bool, name string, value bool, usage string) {
	names := splitNames(name)
	for _, n := range names {
		o.BoolVar(p, n, value, usage)
	}
	if len(names) != 0 {
		o.describe(names, "", fmt.Sprint(value), usage)
	}
}

func (o *Option) UintOption(p *uint, name string, value uint, usage string) {
	names := splitNames(name)
	for _, n := range names {
		o.UintVar(p, n, value, usage)
	}
	if len(names) != 0 {
		o.describe(names, "uint", fmt.Sprint(value), usage)
	}
}

func (o *Option) IntOption(p *int, name string, value int, usage string) {
	names := splitNames(name)
	for _, n := range names {
		o.IntVar(p, n, value, usage)
	}
	if len(names) != 0 {
		o.describe(names, "int", fmt.Sprint(value), usage)
	}
}

func (o *Option) DurationOption(p *time.Duration, name string, value time.Duration, usage string) {
	names := splitNames(name)
	for _, n := range names {
		o.DurationVar(p, n, value, usage)
	}
	if len(names) != 0 {
		o.describe(names, "duration", value.String(), usage)
	}
}

func (o *Option) GetOptionDesc() string {
	return o.optsDesc
}
