// Package migrations embeds the goose SQL migrations so the binary can
// bring a database up to date without the files on disk.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
