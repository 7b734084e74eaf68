package cli

import (
	"context"
	"fmt"

	"digiflow-recon/internal/adapter/memstore"
	"digiflow-recon/internal/adapter/postgres"
	"digiflow-recon/internal/core/port"
	"digiflow-recon/internal/db"
)

// openStore builds the configured record store. The returned close
// function is safe to call once the store is no longer needed.
func openStore(ctx context.Context, opts *RootOptions) (port.RecordStore, func(), error) {
	switch opts.Config.Recon.Store {
	case "memory":
		return memstore.New(), func() {}, nil
	case "postgres":
		pool, err := db.NewPostgresPool(ctx, opts.Config.Psql)
		if err != nil {
			return nil, nil, fmt.Errorf("database connection: %w", err)
		}
		return postgres.NewRecordStore(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", opts.Config.Recon.Store)
	}
}
