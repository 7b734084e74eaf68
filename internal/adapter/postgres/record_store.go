package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"digiflow-recon/internal/core/port"
)

// RecordStore implements port.RecordStore on PostgreSQL. Documents are
// rows of a single jsonb table keyed by (collection, id); equality
// filters translate to data->>field predicates.
type RecordStore struct {
	pool *pgxpool.Pool
}

// NewRecordStore returns a new store instance.
func NewRecordStore(pool *pgxpool.Pool) *RecordStore {
	return &RecordStore{pool: pool}
}

func (s *RecordStore) Get(ctx context.Context, collection, id string) (port.Document, error) {
	var data json.RawMessage
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND id = $2`,
		collection, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return port.Document{}, port.ErrNotFound
	}
	if err != nil {
		return port.Document{}, err
	}
	return port.Document{Collection: collection, ID: id, Data: data}, nil
}

func (s *RecordStore) Query(ctx context.Context, collection string, filters ...port.Filter) ([]port.Document, error) {
	query := `SELECT id, data FROM documents WHERE collection = $1`
	args := []interface{}{collection}
	for _, f := range filters {
		query += fmt.Sprintf(" AND data->>$%d = $%d", len(args)+1, len(args)+2)
		args = append(args, f.Field, f.Value)
	}
	query += " ORDER BY id"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (port.Document, error) {
		doc := port.Document{Collection: collection}
		err := row.Scan(&doc.ID, &doc.Data)
		return doc, err
	})
}

func (s *RecordStore) Scan(ctx context.Context, collection string) ([]port.Document, error) {
	return s.Query(ctx, collection)
}

// BatchWrite applies all operations in one transaction. The per-call
// cap mirrors the limit of the hosted document store this layout was
// migrated from, so batch sizing stays portable across both backends.
func (s *RecordStore) BatchWrite(ctx context.Context, ops []port.WriteOp) error {
	if len(ops) > port.MaxBatchOps {
		return port.ErrBatchTooLarge
	}
	if len(ops) == 0 {
		return nil
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	for _, op := range ops {
		switch op.Kind {
		case port.OpSet:
			_, err = tx.Exec(ctx, `INSERT INTO documents (collection, id, data, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
				op.Collection, op.ID, op.Data)
		case port.OpDelete:
			_, err = tx.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`,
				op.Collection, op.ID)
		default:
			err = fmt.Errorf("unknown op kind %d", op.Kind)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
