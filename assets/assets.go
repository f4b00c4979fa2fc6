// Package assets embeds the static files served by the API server.
package assets

import _ "embed"

// Index is the minified landing page built by cmd/minify.
//
//go:embed index.html
var Index []byte

// Favicon is the site icon.
//
//go:embed icon.svg
var Favicon []byte
