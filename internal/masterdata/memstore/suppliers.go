package memstore

import (
	"context"
	"fmt"

	"github.com/Chiemezuo/priority-soft-interview/internal/masterdata/shared"
	"github.com/Chiemezuo/priority-soft-interview/internal/masterdata/suppliers"
)

type supplierRepo struct {
	s *Store
}

func (r supplierRepo) List(_ context.Context, filters shared.ListFilters) ([]suppliers.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []suppliers.Supplier
	for _, id := range sortedKeys(r.s.st.suppliers) {
		if !filters.Matches(r.s.st.suppliers[id].Name) {
			continue
		}
		sup, _ := r.s.st.supplier(id)
		out = append(out, sup)
	}
	return page(filters, out), nil
}

func (r supplierRepo) Get(_ context.Context, id int64) (suppliers.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.st.supplier(id)
}

func (r supplierRepo) Create(_ context.Context, supplier suppliers.Supplier) (suppliers.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.st.nextSupplierID++
	supplier.ID = r.s.st.nextSupplierID
	supplier.Items = nil
	r.s.st.suppliers[supplier.ID] = supplier
	return supplier, nil
}

func (r supplierRepo) Update(_ context.Context, supplier suppliers.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.suppliers[supplier.ID]; !ok {
		return fmt.Errorf("supplier %d: %w", supplier.ID, shared.ErrNotFound)
	}
	supplier.Items = nil
	r.s.st.suppliers[supplier.ID] = supplier
	return nil
}

// Delete drops the supplier from every item's supplier set, keeping the items.
func (r supplierRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.suppliers[id]; !ok {
		return fmt.Errorf("supplier %d: %w", id, shared.ErrNotFound)
	}
	delete(r.s.st.suppliers, id)
	for _, set := range r.s.st.links {
		delete(set, id)
	}
	return nil
}
