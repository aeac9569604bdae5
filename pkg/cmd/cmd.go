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

// Package cmd provides sub-command registration and option parsing shared
// by the nethub binaries.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"nethub/pkg/glog"
	"nethub/pkg/version"
)

type ICommand interface {
	Init(name string, desc string)
	GetName() string
	GetDesc() string
	Parse(args []string) error
	Exec()
	PrintUsage()
}

type example struct {
	Desc    string
	Command string
}

// Command is embedded by every sub-command. It owns the flag set and the
// text of the usage page.
type Command struct {
	Option
	name     string
	desc     string
	synopsis string
	details  string
	examples []example

	optVModule string
}

var (
	registry           = map[string]ICommand{}
	output   io.Writer = os.Stdout
)

func (c *Command) Init(name string, desc string) {
	c.name, c.desc = name, desc
	c.Option.Init(name, flag.ExitOnError)
	c.StringOption(&c.optVModule, "vmodule", "", "comma-separated list of pattern=N settings for file-filtered logging")
	c.Option.Usage = c.PrintUsage
}

func (c *Command) GetName() string { return c.name }
func (c *Command) GetDesc() string { return c.desc }

func (c *Command) SetSynopsis(str string) {
	c.synopsis = str
}

func (c *Command) AddDetails(txt string) {
	c.details += txt
}

func (c *Command) AddExample(cmdline string, desc string) {
	c.examples = append(c.examples, example{Desc: desc, Command: cmdline})
}

func (c *Command) Parse(arguments []string) error {
	if err := c.Option.Parse(arguments); err != nil {
		return err
	}
	if len(c.optVModule) != 0 {
		glog.SetVModule(c.optVModule)
	}
	return nil
}

// Write renders the usage page of c.
func (c *Command) Write(w io.Writer) {
	synopsis := c.synopsis
	if len(synopsis) == 0 {
		synopsis = "[<options>]"
	}
	page := usagePage{
		Name:     c.name,
		Desc:     c.desc,
		Synopsis: synopsis,
		Options:  c.GetOptionDesc(),
		Details:  c.details,
		Examples: c.examples,
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := usageTemplate.Execute(tw, page); err != nil {
		fmt.Fprintln(w, err)
	}
	tw.Flush()
}

func (c *Command) PrintUsage() {
	c.Write(output)
}

// Register adds c to the command table. A name can be registered once.
func Register(c ICommand) bool {
	name := c.GetName()
	if _, dup := registry[name]; dup {
		fmt.Fprintf(os.Stderr, "command %s has been registered\n", name)
		return false
	}
	registry[name] = c
	return true
}

func GetCommand(name string) ICommand {
	return registry[name]
}

// ParseCommandLine finds the first argument naming a registered command and
// returns it with the other arguments in their original order.
func ParseCommandLine() (ICommand, []string) {
	return parseArgs(os.Args[1:])
}

func parseArgs(arguments []string) (ICommand, []string) {
	for i, arg := range arguments {
		if c := GetCommand(arg); c != nil {
			rest := make([]string, 0, len(arguments)-1)
			rest = append(rest, arguments[:i]...)
			return c, append(rest, arguments[i+1:]...)
		}
	}
	return nil, arguments
}

func Write(w io.Writer) {
	fmt.Fprintf(w, "\nUSAGE\n  %s [-version] [[options] <command> [<args>]]\n\n", filepath.Base(os.Args[0]))
	WriteCommand(w)
}

// WriteCommand lists the registered commands by name.
func WriteCommand(w io.Writer) {
	if len(registry) == 0 {
		return
	}
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "COMMAND")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(tw, "  %s\t%s\n", name, registry[name].GetDesc())
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func PrintUsage() {
	Write(output)
}

// PrintVersionOrUsage handles a command line that names no command.
func PrintVersionOrUsage() {
	var (
		option      Option
		showVersion bool
	)
	option.Init(filepath.Base(os.Args[0]), flag.ContinueOnError)
	option.BoolOption(&showVersion, "version", false, "display version info.")
	option.Usage = PrintUsage
	if err := option.Parse(os.Args[1:]); err != nil {
		return
	}
	if showVersion {
		version.PrintVersionInfo()
	} else {
		PrintUsage()
	}
}
