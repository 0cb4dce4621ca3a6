package memstore

import (
	"context"
	"fmt"

	"github.com/Chiemezuo/priority-soft-interview/internal/masterdata/items"
	"github.com/Chiemezuo/priority-soft-interview/internal/masterdata/shared"
)

type itemRepo struct {
	s *Store
}

// WithTx runs fn against a copy of the state and installs the copy only when
// fn succeeds.
func (r itemRepo) WithTx(ctx context.Context, fn func(context.Context, items.TxRepository) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	draft := r.s.st.clone()
	if err := fn(ctx, txRepo{st: draft}); err != nil {
		return err
	}
	r.s.st = draft
	return nil
}

func (r itemRepo) List(_ context.Context, filters shared.ListFilters) ([]items.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []items.Item
	for _, id := range sortedKeys(r.s.st.items) {
		if !filters.Matches(r.s.st.items[id].Name) {
			continue
		}
		it, _ := r.s.st.item(id)
		out = append(out, it)
	}
	return page(filters, out), nil
}

func (r itemRepo) Get(_ context.Context, id int64) (items.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.st.item(id)
}

func (r itemRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.items[id]; !ok {
		return fmt.Errorf("item %d: %w", id, shared.ErrNotFound)
	}
	delete(r.s.st.items, id)
	delete(r.s.st.links, id)
	return nil
}

type txRepo struct {
	st *state
}

func (t txRepo) MissingSuppliers(_ context.Context, ids []int64) ([]int64, error) {
	var missing []int64
	for _, id := range ids {
		if _, ok := t.st.suppliers[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (t txRepo) GetForUpdate(_ context.Context, id int64) (items.Item, error) {
	return t.st.item(id)
}

func (t txRepo) Insert(_ context.Context, item items.Item) (int64, error) {
	t.st.nextItemID++
	item.ID = t.st.nextItemID
	item.SupplierIDs = nil
	t.st.items[item.ID] = item
	return item.ID, nil
}

func (t txRepo) Update(_ context.Context, item items.Item) error {
	current, ok := t.st.items[item.ID]
	if !ok {
		return fmt.Errorf("item %d: %w", item.ID, shared.ErrNotFound)
	}
	item.CreatedAt = current.CreatedAt
	item.SupplierIDs = nil
	t.st.items[item.ID] = item
	return nil
}

func (t txRepo) ReplaceSuppliers(_ context.Context, itemID int64, supplierIDs []int64) error {
	set := make(map[int64]struct{}, len(supplierIDs))
	for _, id := range supplierIDs {
		if _, ok := t.st.suppliers[id]; !ok {
			return fmt.Errorf("memstore: link item %d to unknown supplier %d", itemID, id)
		}
		set[id] = struct{}{}
	}
	t.st.links[itemID] = set
	return nil
}
