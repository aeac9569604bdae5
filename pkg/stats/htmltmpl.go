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

package stats

import (
	"html/template"
	"strings"
	"time"
)

const (
	// ?refresh=N reloads the page every N seconds.
	kScriptAutoRefresh = `
(function () {
  var secs = Number(new URLSearchParams(location.search).get("refresh"));
  if (secs > 0) {
    setTimeout(function () { location.reload(); }, secs * 1000);
  }
})();
`
	kDefaultCSS = `
:root { --accent: #1f6f8b; --stripe: #eef4f7; }
body { font: 13px/1.4 system-ui, sans-serif; margin: 0; }
header { background: var(--accent); color: #fff; padding: 0.8em 1.2em; }
header h1 { font-size: 24px; font-weight: 400; margin: 0 0 0.3em; }
main { padding: 0 1.2em 1.2em; }
h2 { font-size: 17px; color: var(--accent); margin: 1.2em 0 0.4em; }
table { border-collapse: collapse; }
th { background: var(--accent); color: #fff; font-weight: 500; }
th, td { padding: 4px 10px; text-align: left; }
td { font-variant-numeric: tabular-nums; }
tbody tr:nth-child(odd) { background: var(--stripe); }
.version { float: right; opacity: 0.8; }
`
)

var (
	sectionsTmplText = `{{define "sections"}}{{range .Sections}}
<h2>{{.Title}}</h2>
{{.Body}}
{{end}}{{end}}`

	HtmlSectionsTmpl = template.Must(template.New("html-sections").Parse(
		sectionsTmplText + `{{template "sections" .}}`))

	HtmlStatsTmpl = template.Must(template.New("html-stats-page").Parse(sectionsTmplText + `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
` + HtmlElem("style", kDefaultCSS) + HtmlElem("script", kScriptAutoRefresh) + `</head>
<body>
<header>
<h1>{{.Title}}</h1>
<div>{{.Subtitle}}<span class="version">{{.Version}}</span></div>
</header>
<main>{{template "sections" .}}</main>
</body>
</html>`))

	IndexPageTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
` + HtmlElem("style", kDefaultCSS) + `</head>
<body>
<header><h1>{{.Title}}</h1></header>
<main><ul>
{{range .Links}}<li><a href="{{.HRef}}">{{.Text}}</a></li>
{{end}}</ul></main>
</body>
</html>
`))
)

// HtmlElem wraps code, trusted page text, in a <tagName> element.
func HtmlElem(tagName string, code string) string {
	return "<" + tagName + ">" + code + "</" + tagName + ">\n"
}

// HtmlDurationEscapeString renders d with the micro sign as an entity.
func HtmlDurationEscapeString(d time.Duration) template.HTML {
	return template.HTML(strings.ReplaceAll(template.HTMLEscapeString(d.String()), "µ", "&micro;"))
}
