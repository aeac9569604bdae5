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

// Package stats renders the HTML monitoring pages served on HttpMonAddr.
package stats

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"time"
)

type (
	IHtmlStatsSection interface {
		Title() template.HTML
		Body() template.HTML
	}

	HtmlStats struct {
		Title    string
		Version  string
		Subtitle string
		Sections []IHtmlStatsSection
	}

	// ServerInfo is the section every stats page starts with.
	ServerInfo struct {
		StartTime  time.Time
		Listeners  []string
		MaxTxDepth int
	}

	IndexPage struct {
		Title string
		Links []Hyperlink
	}

	Hyperlink struct {
		Text string
		HRef string
	}

	// Table is a minimal html table builder used by stats sections.
	Table struct {
		buf bytes.Buffer
	}
)

func (s *ServerInfo) Title() template.HTML {
	return template.HTML("Server Info")
}

func (s *ServerInfo) Body() template.HTML {
	var t Table
	t.Begin("server-info")
	t.Header("Start Time", "Uptime", "PID", "Listeners", "MaxTxDepth")
	t.Row(s.StartTime.Format("2006-01-02 15:04:05"),
		HtmlDurationEscapeString(time.Since(s.StartTime).Truncate(time.Second)),
		os.Getpid(), fmt.Sprint(s.Listeners), s.MaxTxDepth)
	return t.End()
}

func (s *HtmlStats) AddSection(sec IHtmlStatsSection) {
	s.Sections = append(s.Sections, sec)
}

// Write renders the full page, or only the sections when sectionsOnly is set.
func (s *HtmlStats) Write(w io.Writer, sectionsOnly bool) error {
	if sectionsOnly {
		return HtmlSectionsTmpl.Execute(w, s)
	}
	return HtmlStatsTmpl.Execute(w, s)
}

func (p *IndexPage) AddLink(href string, text string) {
	if len(text) == 0 {
		text = href
	}
	p.Links = append(p.Links, Hyperlink{Text: text, HRef: href})
}

func (t *Table) Begin(title string) {
	fmt.Fprintf(&t.buf, `<div id="id-%s"><table title="%s">`, title, title)
}

func (t *Table) Header(cols ...string) {
	t.buf.WriteString("<tr>")
	for _, c := range cols {
		t.buf.WriteString("<th>")
		t.buf.WriteString(template.HTMLEscapeString(c))
		t.buf.WriteString("</th>")
	}
	t.buf.WriteString("</tr>\n")
}

// Row writes one table row. Strings are escaped except for the output of
// HtmlDurationEscapeString, which is passed as template.HTML.
func (t *Table) Row(cols ...interface{}) {
	t.buf.WriteString("<tr>")
	for _, c := range cols {
		t.buf.WriteString("<td>")
		switch v := c.(type) {
		case template.HTML:
			t.buf.WriteString(string(v))
		case string:
			t.buf.WriteString(template.HTMLEscapeString(v))
		default:
			t.buf.WriteString(template.HTMLEscapeString(fmt.Sprint(v)))
		}
		t.buf.WriteString("</td>")
	}
	t.buf.WriteString("</tr>\n")
}

func (t *Table) End() template.HTML {
	t.buf.WriteString("</table></div>")
	return template.HTML(t.buf.String())
}
