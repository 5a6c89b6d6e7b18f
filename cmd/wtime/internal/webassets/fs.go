// Copyright 2025 AutoH Cloud. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package webassets embeds the html/js served by the wtime status web
// UI.
package webassets

import (
	"embed"
)

//go:embed static/*
var Static embed.FS
