// Package migrations embeds the schema migrations for the tables this
// service owns. The cash_flow_analysis ledger is owned by an external system
// and is deliberately absent.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
