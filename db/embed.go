// Package db carries the SQL migrations for every supported driver.
package db

import "embed"

// Migrations holds one directory of migrations per driver: postgres and sqlite.
//
//go:embed migrations
var Migrations embed.FS
