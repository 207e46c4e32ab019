package web

import "embed"

// StaticFS embeds the dashboard page and its assets.
//
//go:embed static/*
var StaticFS embed.FS
