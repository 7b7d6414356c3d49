// Package assets embeds the stylesheet and other files served under
// /ui/static.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed static
var embedded embed.FS

// Static returns the embedded files rooted at the static directory, so
// "css/app.css" names the stylesheet.
func Static() fs.FS {
	sub, err := fs.Sub(embedded, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
