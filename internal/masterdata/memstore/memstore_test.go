package memstore

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chiemezuo/priority-soft-interview/internal/masterdata/items"
	"github.com/Chiemezuo/priority-soft-interview/internal/masterdata/shared"
	"github.com/Chiemezuo/priority-soft-interview/internal/masterdata/suppliers"
)

type fixture struct {
	store     *Store
	suppliers *suppliers.Service
	items     *items.Service
}

func newFixture() fixture {
	store := New()
	return fixture{
		store:     store,
		suppliers: suppliers.NewService(store.Suppliers()),
		items:     items.NewService(store.Items(), items.ServiceConfig{}),
	}
}

func str(s string) *string { return &s }

func (f fixture) supplier(t *testing.T, name string) suppliers.Supplier {
	t.Helper()
	sup, err := f.suppliers.Create(context.Background(), suppliers.Payload{
		Name: str(name), Email: str("hr@prioritySoft.rs"), Address: str("Serbia"), PhoneNumber: str("1234567890"),
	})
	require.NoError(t, err)
	return sup
}

func (f fixture) item(t *testing.T, name string, supplierIDs ...int64) items.Item {
	t.Helper()
	if supplierIDs == nil {
		supplierIDs = []int64{}
	}
	it, err := f.items.Create(context.Background(), items.Payload{
		Name: str(name), Description: str("desc"), Price: json.RawMessage(`"3.10"`), Suppliers: &supplierIDs,
	})
	require.NoError(t, err)
	return it
}

func TestSupplierEmbedsLinkedItems(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s1 := f.supplier(t, "Priority Soft")
	s2 := f.supplier(t, "Anastasia")
	code := f.item(t, "Code", s1.ID, s2.ID)
	f.item(t, "Unlinked")

	got, err := f.suppliers.Get(ctx, s1.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, code.ID, got.Items[0].ID)
	assert.Equal(t, []int64{s1.ID, s2.ID}, got.Items[0].SupplierIDs)
	assert.Equal(t, "3.10", shared.FormatPrice(got.Items[0].Price))
}

func TestDeleteSupplierKeepsItems(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s1 := f.supplier(t, "Priority Soft")
	s2 := f.supplier(t, "Anastasia")
	code := f.item(t, "Code", s1.ID, s2.ID)

	require.NoError(t, f.suppliers.Delete(ctx, s1.ID))

	it, err := f.items.Get(ctx, code.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{s2.ID}, it.SupplierIDs)

	_, err = f.suppliers.Get(ctx, s1.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteItemKeepsSuppliers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s1 := f.supplier(t, "Priority Soft")
	code := f.item(t, "Code", s1.ID)

	require.NoError(t, f.items.Delete(ctx, code.ID))

	sup, err := f.suppliers.Get(ctx, s1.ID)
	require.NoError(t, err)
	assert.Empty(t, sup.Items)
}

func TestFailedItemWriteLeavesStateUntouched(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s1 := f.supplier(t, "Priority Soft")
	code := f.item(t, "Code", s1.ID)

	missing := []int64{s1.ID, 404}
	_, err := f.items.Update(ctx, code.ID, items.Payload{Name: str("renamed"), Suppliers: &missing})
	require.ErrorIs(t, err, shared.ErrValidation)

	it, err := f.items.Get(ctx, code.ID)
	require.NoError(t, err)
	assert.Equal(t, "Code", it.Name)
	assert.Equal(t, []int64{s1.ID}, it.SupplierIDs)

	next := f.item(t, "Next")
	assert.Equal(t, code.ID+1, next.ID)
}

func TestListOrderAndSearch(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.supplier(t, "Priority Soft")
	f.supplier(t, "Anastasia")
	f.supplier(t, "Soft Goods")

	all, err := f.suppliers.List(ctx, shared.ListFilters{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(1), all[0].ID)
	assert.Equal(t, int64(3), all[2].ID)

	soft, err := f.suppliers.List(ctx, shared.ListFilters{Search: "SOFT", Page: 2, Limit: 1})
	require.NoError(t, err)
	require.Len(t, soft, 1)
	assert.Equal(t, "Soft Goods", soft[0].Name)

	none, err := f.items.List(ctx, shared.ListFilters{})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestReplaceItemKeepsCreatedAt(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	code := f.item(t, "Code")

	replaced, err := f.items.Replace(ctx, code.ID, items.Payload{Name: str("Books"), Description: str("d"), Price: json.RawMessage(`1`)})
	require.NoError(t, err)
	assert.Equal(t, code.CreatedAt, replaced.CreatedAt)
}

func TestConcurrentCreates(t *testing.T) {
	f := newFixture()
	s1 := f.supplier(t, "Priority Soft")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids := []int64{s1.ID}
			_, err := f.items.Create(context.Background(), items.Payload{
				Name: str("Code"), Description: str("d"), Price: json.RawMessage(`1`), Suppliers: &ids,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	sup, err := f.suppliers.Get(context.Background(), s1.ID)
	require.NoError(t, err)
	assert.Len(t, sup.Items, 20)
	require.NoError(t, f.store.Ping(context.Background()))
}
