// Package ui embeds the page templates and static assets served by cmd/web.
package ui

import "embed"

//go:embed static templates
var Files embed.FS
