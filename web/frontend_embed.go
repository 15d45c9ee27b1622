// Package web provides the embedded frontend filesystem.
package web

import (
	"embed"
	"io/fs"
)

// FrontendFS embeds the frontend application from web/frontend/dist/.
//
//go:embed all:frontend/dist
var FrontendFS embed.FS

// GetDistFS returns the dist subdirectory as a filesystem for serving.
// This unwraps the "frontend/dist" prefix from embedded paths.
func GetDistFS() (fs.FS, error) {
	return fs.Sub(FrontendFS, "frontend/dist")
}
