// Package migrations holds goose migrations for every supported database.
package migrations

import "embed"

// FS contains one directory of migrations per dialect: postgres and sqlite.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
