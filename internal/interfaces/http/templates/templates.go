// Package templates embeds the storefront's HTML pages.
package templates

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/shopspring/decimal"
)

//go:embed html/*.html
var files embed.FS

//go:embed static
var assets embed.FS

// Funcs are the helpers available to every page
var Funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string {
		return "$" + d.StringFixed(2)
	},
}

// Load parses every page. Pages are addressed by file name, e.g. "cart.html".
func Load() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(files, "html/*.html")
}

// Assets serves the embedded scripts under their file names, e.g. "app.js"
func Assets() http.FileSystem {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
