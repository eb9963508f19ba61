package migrations

import "embed"

// Migrations holds the golang-migrate files applied at startup.
//
//go:embed *.sql
var Migrations embed.FS
