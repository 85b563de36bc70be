package usecase

import (
	"context"
	"fmt"
	"sync"

	"dataprep/internal/dataset/domain/model"
	"dataprep/internal/dataset/domain/repository"
	"dataprep/internal/shared/errors"
)

// Dedupe drops records whose value under the selected key has been seen
// before. The seen set lives behind a DedupeTracker so single-process runs
// use memory while service deployments can share a Redis-backed set.
type Dedupe struct {
	selectedKey string
	tracker     repository.DedupeTracker
}

// NewDedupe creates a dedupe step over the given key.
func NewDedupe(selectedKey string, tracker repository.DedupeTracker) (*Dedupe, error) {
	if selectedKey == "" {
		return nil, errors.NewValidationError("dedupe selected_key must not be empty")
	}
	if tracker == nil {
		tracker = NewMemoryDedupeTracker()
	}
	return &Dedupe{selectedKey: selectedKey, tracker: tracker}, nil
}

// Name implements Step.
func (d *Dedupe) Name() string { return "dedupe" }

// Process implements Step. The first record carrying a value passes; later
// ones with the same value are dropped. Missing fields stringify to "<nil>"
// and therefore dedupe against each other as well.
func (d *Dedupe) Process(ctx context.Context, record *model.Record) (*model.Record, error) {
	val, _ := record.Field(d.selectedKey)
	seen, err := d.tracker.Seen(ctx, fmt.Sprintf("%v", val))
	if err != nil {
		return nil, fmt.Errorf("dedupe tracker: %w", err)
	}
	if seen {
		return nil, nil
	}
	return record, nil
}

// Reset clears the seen set for a fresh batch.
func (d *Dedupe) Reset(ctx context.Context) error {
	return d.tracker.Reset(ctx)
}

// Config implements Step.
func (d *Dedupe) Config() map[string]interface{} {
	return map[string]interface{}{"selected_key": d.selectedKey}
}

// MemoryDedupeTracker is the in-process DedupeTracker.
type MemoryDedupeTracker struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewMemoryDedupeTracker creates an empty in-memory tracker.
func NewMemoryDedupeTracker() *MemoryDedupeTracker {
	return &MemoryDedupeTracker{seen: make(map[string]struct{})}
}

// Seen implements repository.DedupeTracker.
func (t *MemoryDedupeTracker) Seen(ctx context.Context, value string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.seen[value]; ok {
		return true, nil
	}
	t.seen[value] = struct{}{}
	return false, nil
}

// Reset implements repository.DedupeTracker.
func (t *MemoryDedupeTracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seen = make(map[string]struct{})
	return nil
}

// Size implements repository.DedupeTracker.
func (t *MemoryDedupeTracker) Size(ctx context.Context) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return int64(len(t.seen)), nil
}
