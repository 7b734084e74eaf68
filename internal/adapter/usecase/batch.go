package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"digiflow-recon/internal/core/port"
)

// batcher accumulates write operations and flushes them in bounded
// chunks, staying well under the store's per-call limit. Flush failures
// are collected instead of aborting the pass. In dry-run mode it counts
// mutations without issuing them.
type batcher struct {
	store  port.RecordStore
	dryRun bool
	limit  int

	pending []port.WriteOp
	issued  int
	errors  []string
}

func newBatcher(store port.RecordStore, dryRun bool) *batcher {
	return &batcher{store: store, dryRun: dryRun, limit: port.BatchChunkSize}
}

func (b *batcher) set(ctx context.Context, collection, id string, data json.RawMessage) {
	b.add(ctx, port.WriteOp{Kind: port.OpSet, Collection: collection, ID: id, Data: data})
}

func (b *batcher) delete(ctx context.Context, collection, id string) {
	b.add(ctx, port.WriteOp{Kind: port.OpDelete, Collection: collection, ID: id})
}

func (b *batcher) add(ctx context.Context, op port.WriteOp) {
	b.pending = append(b.pending, op)
	if len(b.pending) >= b.limit {
		b.flush(ctx)
	}
}

func (b *batcher) flush(ctx context.Context) {
	if len(b.pending) == 0 {
		return
	}
	n := len(b.pending)
	if b.dryRun {
		b.issued += n
		b.pending = nil
		return
	}
	if err := b.store.BatchWrite(ctx, b.pending); err != nil {
		b.errors = append(b.errors, fmt.Sprintf("batch write of %d ops failed: %v", n, err))
	} else {
		b.issued += n
	}
	b.pending = nil
}
