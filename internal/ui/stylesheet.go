package ui

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"sync"

	"innings-explorer/internal/ui/assets"
)

const stylesheetName = "css/app.css"

var (
	stylesheetOnce sync.Once
	stylesheetPath = "/ui/static/" + stylesheetName
)

// uiStylesheetHref returns the stylesheet URL with a content hash so browsers
// refetch it after a deploy.
func uiStylesheetHref() string {
	stylesheetOnce.Do(func() {
		b, err := fs.ReadFile(assets.Static(), stylesheetName)
		if err != nil {
			return
		}
		sum := sha256.Sum256(b)
		stylesheetPath += "?v=" + hex.EncodeToString(sum[:6])
	})
	return stylesheetPath
}
