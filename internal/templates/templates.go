// Package templates holds the HTML pages, embedded so the binary does not
// depend on its working directory.
package templates

import "embed"

//go:embed *.html
var FS embed.FS
