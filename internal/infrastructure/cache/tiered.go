package cache

import (
	"context"

	"visual-search/internal/domain/port"
)

// Tiered: двухуровневый кэш: сначала first, затем next.
// Найденное во втором уровне копируется в первый.
type Tiered struct {
	first port.SimilarityCache
	next  port.SimilarityCache
}

// NewTiered собирает кэш из уровней. next может быть nil.
func NewTiered(first, next port.SimilarityCache) *Tiered {
	return &Tiered{first: first, next: next}
}

func (t *Tiered) Get(ctx context.Context, itemID string) ([]string, bool, error) {
	ids, ok, err := t.first.Get(ctx, itemID)
	if err != nil || ok || t.next == nil {
		return ids, ok, err
	}

	ids, ok, err = t.next.Get(ctx, itemID)
	if err != nil || !ok {
		return nil, false, err
	}
	if err := t.first.Put(ctx, itemID, ids); err != nil {
		return ids, true, err
	}
	return ids, true, nil
}

func (t *Tiered) Put(ctx context.Context, itemID string, ids []string) error {
	if err := t.first.Put(ctx, itemID, ids); err != nil {
		return err
	}
	if t.next == nil {
		return nil
	}
	return t.next.Put(ctx, itemID, ids)
}

var _ port.SimilarityCache = (*Tiered)(nil)
