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

// Package cfg layers TOML configuration sources on top of each other. Keys
// are case insensitive, and the spelling of the first source to define a key
// is kept when writing the result out.
package cfg

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
)

type (
	// Config is not goroutine safe. The zero value is an empty config.
	Config struct {
		root table
	}

	// table maps a lower-cased key to its entry. An entry value is either
	// a table or a TOML scalar/array.
	table map[string]entry

	entry struct {
		name string
		val  interface{}
	}
)

// ReadFrom replaces the content of c with the TOML encoding of i, a struct
// or a map.
func (c *Config) ReadFrom(i interface{}) error {
	var buf bytes.Buffer
	if i != nil {
		if err := toml.NewEncoder(&buf).Encode(i); err != nil {
			return err
		}
	}
	return c.ReadFromToml(&buf)
}

func (c *Config) ReadFromToml(r io.Reader) error {
	var m map[string]interface{}
	if _, err := toml.NewDecoder(r).Decode(&m); err != nil {
		return err
	}
	c.root = tableOf(m)
	return nil
}

func (c *Config) ReadFromTomlFile(file string) error {
	var m map[string]interface{}
	if _, err := toml.DecodeFile(file, &m); err != nil {
		return err
	}
	c.root = tableOf(m)
	return nil
}

func (c *Config) WriteToToml(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c.root.plain())
}

// WriteTo decodes the properties into v, a pointer to a struct or map.
func (c *Config) WriteTo(v interface{}) error {
	var buf bytes.Buffer
	if err := c.WriteToToml(&buf); err != nil {
		return err
	}
	_, err := toml.NewDecoder(&buf).Decode(v)
	return err
}

// Merge overlays o onto c. Tables merge key by key; any other value
// replaces what c had.
func (c *Config) Merge(o *Config) {
	if c.root == nil {
		c.root = table{}
	}
	c.root.overlay(o.root)
}

// GetValue returns the value at a dot-delimited key, or nil. A table comes
// back as a map[string]interface{}.
func (c *Config) GetValue(dotDelimitedKey string) interface{} {
	t := c.root
	keys := strings.Split(dotDelimitedKey, ".")
	for i, k := range keys {
		e, found := t[strings.ToLower(k)]
		if !found {
			return nil
		}
		sub, isTable := e.val.(table)
		if i == len(keys)-1 {
			if isTable {
				return sub.plain()
			}
			return e.val
		}
		if !isTable {
			return nil
		}
		t = sub
	}
	return nil
}

// SetKeyValue sets the value at a dot-delimited key, creating the tables
// on the path as needed.
func (c *Config) SetKeyValue(dotDelimitedKey string, v interface{}) {
	keys := strings.Split(dotDelimitedKey, ".")
	last := len(keys) - 1
	patch := table{strings.ToLower(keys[last]): {keys[last], v}}
	for i := last - 1; i >= 0; i-- {
		patch = table{strings.ToLower(keys[i]): {keys[i], patch}}
	}
	if c.root == nil {
		c.root = table{}
	}
	c.root.overlay(patch)
}

// SetFromKeyValueString applies a "key=value" override. The value is taken
// as TOML when it parses as such, e.g. 8 or true, and as a string otherwise.
func (c *Config) SetFromKeyValueString(str string) error {
	key, raw, found := strings.Cut(str, "=")
	key = strings.TrimSpace(key)
	if !found || len(key) == 0 {
		return fmt.Errorf("%q is not of the form key=value", str)
	}
	raw = strings.TrimSpace(raw)

	var parsed struct{ V interface{} }
	if _, err := toml.Decode("V = "+raw, &parsed); err == nil {
		c.SetKeyValue(key, parsed.V)
	} else {
		c.SetKeyValue(key, raw)
	}
	return nil
}

func tableOf(m map[string]interface{}) table {
	t := make(table, len(m))
	for k, v := range m {
		if sub, ok := v.(map[string]interface{}); ok {
			t[strings.ToLower(k)] = entry{k, tableOf(sub)}
		} else {
			t[strings.ToLower(k)] = entry{k, v}
		}
	}
	return t
}

func (t table) plain() map[string]interface{} {
	m := make(map[string]interface{}, len(t))
	for _, e := range t {
		if sub, ok := e.val.(table); ok {
			m[e.name] = sub.plain()
		} else {
			m[e.name] = e.val
		}
	}
	return m
}

func (t table) overlay(o table) {
	for k, e := range o {
		cur, found := t[k]
		src, srcIsTable := e.val.(table)
		if !found {
			if srcIsTable {
				sub := table{}
				sub.overlay(src)
				e.val = sub
			}
			t[k] = e
			continue
		}
		if dst, ok := cur.val.(table); ok && srcIsTable {
			dst.overlay(src)
			continue
		}
		t[k] = entry{cur.name, e.val}
	}
}
