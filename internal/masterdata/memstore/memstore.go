// Package memstore keeps suppliers, items and their associations in process
// memory. It honours the same cascade rules as the PostgreSQL schema and is
// meant for local development and tests.
package memstore

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/Chiemezuo/priority-soft-interview/internal/masterdata/items"
	"github.com/Chiemezuo/priority-soft-interview/internal/masterdata/shared"
	"github.com/Chiemezuo/priority-soft-interview/internal/masterdata/suppliers"
)

// Store is safe for concurrent use. Every write runs under one lock.
type Store struct {
	mu sync.RWMutex
	st *state
}

type state struct {
	suppliers      map[int64]suppliers.Supplier
	items          map[int64]items.Item
	links          map[int64]map[int64]struct{} // item id -> supplier ids
	nextSupplierID int64
	nextItemID     int64
}

func New() *Store {
	return &Store{st: &state{
		suppliers: make(map[int64]suppliers.Supplier),
		items:     make(map[int64]items.Item),
		links:     make(map[int64]map[int64]struct{}),
	}}
}

// Suppliers returns the supplier repository view of the store.
func (s *Store) Suppliers() suppliers.Repository { return supplierRepo{s} }

// Items returns the item repository view of the store.
func (s *Store) Items() items.Repository { return itemRepo{s} }

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

func (st *state) clone() *state {
	links := make(map[int64]map[int64]struct{}, len(st.links))
	for id, set := range st.links {
		links[id] = maps.Clone(set)
	}
	return &state{
		suppliers:      maps.Clone(st.suppliers),
		items:          maps.Clone(st.items),
		links:          links,
		nextSupplierID: st.nextSupplierID,
		nextItemID:     st.nextItemID,
	}
}

func (st *state) supplierIDs(itemID int64) []int64 {
	ids := slices.Collect(maps.Keys(st.links[itemID]))
	slices.Sort(ids)
	if ids == nil {
		ids = []int64{}
	}
	return ids
}

func (st *state) item(id int64) (items.Item, error) {
	it, ok := st.items[id]
	if !ok {
		return items.Item{}, fmt.Errorf("item %d: %w", id, shared.ErrNotFound)
	}
	it.SupplierIDs = st.supplierIDs(id)
	return it, nil
}

func (st *state) supplier(id int64) (suppliers.Supplier, error) {
	sup, ok := st.suppliers[id]
	if !ok {
		return suppliers.Supplier{}, fmt.Errorf("supplier %d: %w", id, shared.ErrNotFound)
	}
	sup.Items = []suppliers.ItemSummary{}
	for _, itemID := range sortedKeys(st.items) {
		if _, linked := st.links[itemID][id]; !linked {
			continue
		}
		it := st.items[itemID]
		sup.Items = append(sup.Items, suppliers.ItemSummary{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			Price:       it.Price,
			CreatedAt:   it.CreatedAt,
			SupplierIDs: st.supplierIDs(itemID),
		})
	}
	return sup, nil
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := slices.Collect(maps.Keys(m))
	slices.Sort(keys)
	return keys
}

func page[T any](filters shared.ListFilters, rows []T) []T {
	start, end := filters.Window(len(rows))
	return rows[start:end]
}
