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

/*
Package app implements the nethub server command line.
*/
package app

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"nethub/cmd/nethub/config"
	"nethub/pkg/cmd"
	"nethub/pkg/glog"
	"nethub/pkg/initmgr"
	"nethub/pkg/io"
	"nethub/pkg/util"
)

const (
	kDefaultLogLevel = ""
)

type (
	cmdCommon struct {
		cmd.Command
		optConfigFile string
		optSettings   util.StringListFlags
		optBind       string
		optPort       uint
		optListen     util.StringListFlags
	}

	// Server runs the hub.
	Server struct {
		cmdCommon
		optLogLevel    string
		optQuiet       bool
		optHttpMonAddr string
		optVersion     bool
	}

	// ConfigDump prints the effective configuration.
	ConfigDump struct {
		cmdCommon
	}
)

func Main() {
	defer initmgr.Finalize()

	var (
		cmdServer Server
		cmdConfig ConfigDump
	)
	cmdServer.Init("serve", "run the hub server (default command)")
	cmdConfig.Init("config", "print the effective configuration as toml")
	cmd.Register(&cmdServer)
	cmd.Register(&cmdConfig)

	command, args := cmd.ParseCommandLine()
	if command == nil {
		command, args = &cmdServer, os.Args[1:]
	}
	if err := command.Parse(args); err != nil {
		fmt.Printf("* command '%s' failed. %s\n", command.GetName(), err)
		os.Exit(-1)
	}
	command.Exec()
}

func (c *cmdCommon) Init(name string, desc string) {
	c.Command.Init(name, desc)
	c.StringOption(&c.optConfigFile, "c|config", "", "specify toml config file")
	c.ValueOption(&c.optSettings, "set", "override a config property, e.g. -set Hub.MaxTxDepth=8")
	c.StringOption(&c.optBind, "bind", "", "network interface to bind the server to")
	c.UintOption(&c.optPort, "p|port", 0, fmt.Sprintf("TCP port to listen on (%d if -bind is given alone)", io.DefaultPort))
	c.ValueOption(&c.optListen, "listen", "listening address, may be repeated. overrides Listener in config")
}

// loadConfig initializes config.Conf and applies the listener options.
func (c *cmdCommon) loadConfig() {
	initmgr.Register(config.Initializer, c.optConfigFile, []string(c.optSettings))
	initmgr.Init()

	cfg := &config.Conf
	if addrs := c.listenAddresses(); len(addrs) != 0 {
		cfg.SetListeners(addrs)
		if err := cfg.Validate(); err != nil {
			glog.Exitf("invalid listener: %s", err)
		}
	}
}

func (c *cmdCommon) listenAddresses() (addrs []string) {
	addrs = append(addrs, c.optListen...)
	if c.optBind != "" || c.optPort != 0 {
		port := c.optPort
		if port == 0 {
			port = io.DefaultPort
		}
		addrs = append(addrs, net.JoinHostPort(c.optBind, strconv.FormatUint(uint64(port), 10)))
	}
	return
}

func (c *ConfigDump) Exec() {
	c.loadConfig()
	if err := config.Conf.WriteToml(os.Stdout); err != nil {
		glog.Exitf("%s", err)
	}
}
