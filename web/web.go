// Package web embeds the browser frontend served at "/".
package web

import "embed"

//go:embed static
var Files embed.FS
