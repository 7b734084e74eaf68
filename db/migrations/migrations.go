package migrations

import "embed"

// FS embeds the SQL migrations for the documents schema. golang-migrate
// reads them through the iofs driver at startup.
//
//go:embed *.sql
var FS embed.FS

// Version is the schema version the binary expects.
const Version = 1
