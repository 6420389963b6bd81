// Package locales embeds the bundled fake value documents.
//
// Layout: data/manifest.yml lists the category files, data/<locale>/<file>
// holds one category per file and data/<locale>.yml holds a whole locale in a
// single document.
//
// Usage:
//
//	fakevalues.NewCatalog(fakevalues.WithFS(locales.Data()))
package locales

import (
	"embed"
	"io/fs"
)

//go:embed data
var FS embed.FS

// Data returns the bundled documents rooted at the data directory.
func Data() fs.FS {
	sub, err := fs.Sub(FS, "data")
	if err != nil {
		panic(err)
	}
	return sub
}
