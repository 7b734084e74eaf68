package port

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	// ErrNotFound is returned by Get when no document exists under the
	// requested key.
	ErrNotFound = errors.New("document not found")

	// ErrBatchTooLarge is returned by BatchWrite when a single call
	// carries more than MaxBatchOps operations.
	ErrBatchTooLarge = errors.New("batch exceeds maximum operation count")
)

const (
	// MaxBatchOps is the hard per-call limit of the underlying store.
	MaxBatchOps = 500

	// BatchChunkSize is the flush target the engine uses, leaving a
	// safety margin below MaxBatchOps.
	BatchChunkSize = 400
)

// Document is one stored record: an opaque JSON payload addressed by
// collection and id.
type Document struct {
	Collection string
	ID         string
	Data       json.RawMessage
}

// Filter is an equality predicate on a top-level document field.
type Filter struct {
	Field string
	Value string
}

// OpKind discriminates batch write operations.
type OpKind int

const (
	OpSet OpKind = iota
	OpDelete
)

// WriteOp is a single mutation inside a batch. Data is ignored for
// deletes. Deleting a missing document is a no-op, not an error.
type WriteOp struct {
	Kind       OpKind
	Collection string
	ID         string
	Data       json.RawMessage
}

// RecordStore is the persistence port of the reconciliation engine: a
// key-value document store with one logical table per collection.
// Implementations must return Scan and Query results in deterministic
// (id) order; first-seen tie-breaks depend on it.
type RecordStore interface {
	// Get returns the document stored under collection/id, or
	// ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)

	// Query returns the documents of a collection matching all equality
	// filters.
	Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error)

	// Scan returns every document of a collection. Reconciliation
	// passes classify from one scan before issuing any mutation.
	Scan(ctx context.Context, collection string) ([]Document, error)

	// BatchWrite applies the operations, at most MaxBatchOps per call.
	BatchWrite(ctx context.Context, ops []WriteOp) error
}
