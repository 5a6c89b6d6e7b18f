// Copyright 2025 AutoH Cloud. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package webassets

import (
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"sync"
	"time"
)

type StatusPages struct {
	sync.Mutex
	cfs     fs.FS
	started time.Time
}

func (p *StatusPages) FS() http.FileSystem {
	return http.FS(p.cfs)
}

func NewStatusPages(cfs fs.FS) *StatusPages {
	return &StatusPages{cfs: cfs, started: time.Now()}
}

const (
	statusPage                    = "status.html"
	statusHomeJS      template.JS = "static/status-home.js"
	statusCompletedJS template.JS = "static/status-completed.js"
	statusPendingJS   template.JS = "static/status-pending.js"
	statusDSTJS       template.JS = "static/status-dst.js"
)

type statusData struct {
	Name     string
	DateTime string
	Started  string
	Main     template.HTML
	Script   template.JS
}

func (p *StatusPages) statusData(name string, text template.HTML, script template.JS) statusData {
	return statusData{
		Name:     name,
		DateTime: time.Now().Format(time.RFC1123),
		Started:  p.started.Format(time.RFC1123),
		Main:     text,
		Script:   script,
	}
}

func (p *StatusPages) StatusHomePage(w io.Writer, configFile string) error {
	d := p.statusData(configFile, `
		<h2>Daylight Saving</h2>
        <div id="dst"></div>
		<h2>Completed</h2>
        <div id="completed"></div>
		<h2>Pending</h2>
        <div id="pending"></div>`, statusHomeJS)
	tpl, err := template.ParseFS(p.cfs, statusPage)
	if err != nil {
		return err
	}
	return tpl.Execute(w, &d)
}

func (p *StatusPages) StatusCompletedPage(w io.Writer, configFile string) error {
	d := p.statusData(configFile, `
		<h2>Completed</h2>
        <div id="completed"></div>`, statusCompletedJS)
	tpl, err := template.ParseFS(p.cfs, statusPage)
	if err != nil {
		return err
	}
	return tpl.Execute(w, &d)
}

func (p *StatusPages) StatusPendingPage(w io.Writer, configFile string) error {
	d := p.statusData(configFile, `
		<h2>Pending</h2>
        <div id="pending"></div>`, statusPendingJS)
	tpl, err := template.ParseFS(p.cfs, statusPage)
	if err != nil {
		return err
	}
	return tpl.Execute(w, &d)
}

func (p *StatusPages) StatusDSTPage(w io.Writer, configFile string) error {
	d := p.statusData(configFile, `
		<h2>Daylight Saving</h2>
        <div id="dst"></div>`, statusDSTJS)
	tpl, err := template.ParseFS(p.cfs, statusPage)
	if err != nil {
		return err
	}
	return tpl.Execute(w, &d)
}

func AppendStatusPages(mux *http.ServeMux, configFile string, pages *StatusPages) {
	mux.Handle("/static/",
		http.StripPrefix("/static/", http.FileServer(pages.FS())))

	mux.HandleFunc("/completed", func(w http.ResponseWriter, _ *http.Request) {
		err := pages.StatusCompletedPage(w, configFile)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	mux.HandleFunc("/pending", func(w http.ResponseWriter, _ *http.Request) {
		err := pages.StatusPendingPage(w, configFile)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	mux.HandleFunc("/dst", func(w http.ResponseWriter, _ *http.Request) {
		err := pages.StatusDSTPage(w, configFile)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		err := pages.StatusHomePage(w, configFile)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
