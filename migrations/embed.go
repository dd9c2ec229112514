// Package migrations embeds the Postgres schema for the notification store.
package migrations

import "embed"

// FS holds the numbered migration files, {version}_{name}.sql.
//
//go:embed *.sql
var FS embed.FS
