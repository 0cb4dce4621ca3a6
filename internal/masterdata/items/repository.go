package items

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Chiemezuo/priority-soft-interview/internal/masterdata/shared"
	"github.com/Chiemezuo/priority-soft-interview/internal/platform/db"
	"github.com/Chiemezuo/priority-soft-interview/internal/platform/httpx"
)

// Repository persists items.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	List(ctx context.Context, filters shared.ListFilters) ([]Item, error)
	Get(ctx context.Context, id int64) (Item, error)
	Delete(ctx context.Context, id int64) error
}

// TxRepository exposes the transactional operations used by Service.
type TxRepository interface {
	// MissingSuppliers returns the ids that match no supplier and locks the rest.
	MissingSuppliers(ctx context.Context, ids []int64) ([]int64, error)
	GetForUpdate(ctx context.Context, id int64) (Item, error)
	Insert(ctx context.Context, item Item) (int64, error)
	Update(ctx context.Context, item Item) error
	ReplaceSuppliers(ctx context.Context, itemID int64, supplierIDs []int64) error
}

const (
	supplierFKey    = "item_suppliers_supplier_id_fkey"
	priceCheck      = "items_price_non_negative"
	itemColumns     = `i.id, i.name, i.description, i.price, i.created_at`
	itemSupplierIDs = `ARRAY(SELECT s.supplier_id FROM item_suppliers s WHERE s.item_id = i.id ORDER BY s.supplier_id)`
)

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a repeatable-read transaction.
func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
	return translate(err)
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Item, error) {
	query := `SELECT ` + itemColumns + `, ` + itemSupplierIDs + ` FROM items i WHERE 1=1`
	args := []any{}

	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		query += ` AND i.name ILIKE $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY i.id ASC`

	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
		args = append(args, filters.Offset())
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("items: list: %w", err)
	}
	list, err := pgx.CollectRows(rows, scanItem)
	if err != nil {
		return nil, fmt.Errorf("items: list: %w", err)
	}
	return list, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Item, error) {
	return getItem(ctx, r.pool, id, "")
}

// Delete relies on ON DELETE CASCADE to drop the item_suppliers rows.
func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("items: delete %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

func (r *txRepo) MissingSuppliers(ctx context.Context, ids []int64) ([]int64, error) {
	rows, err := r.tx.Query(ctx, `SELECT id FROM suppliers WHERE id = ANY($1) FOR KEY SHARE`, ids)
	if err != nil {
		return nil, fmt.Errorf("items: resolve suppliers: %w", err)
	}
	found, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("items: resolve suppliers: %w", err)
	}

	seen := make(map[int64]struct{}, len(found))
	for _, id := range found {
		seen[id] = struct{}{}
	}
	var missing []int64
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (r *txRepo) GetForUpdate(ctx context.Context, id int64) (Item, error) {
	return getItem(ctx, r.tx, id, " FOR UPDATE OF i")
}

func (r *txRepo) Insert(ctx context.Context, item Item) (int64, error) {
	query := `INSERT INTO items (name, description, price, created_at) VALUES ($1, $2, $3, $4) RETURNING id`
	var id int64
	err := r.tx.QueryRow(ctx, query,
		item.Name,
		item.Description,
		shared.DecimalToNumeric(item.Price),
		pgtype.Date{Time: item.CreatedAt, Valid: true},
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("items: insert: %w", err)
	}
	return id, nil
}

// Update never touches created_at.
func (r *txRepo) Update(ctx context.Context, item Item) error {
	query := `UPDATE items SET name = $1, description = $2, price = $3 WHERE id = $4`
	tag, err := r.tx.Exec(ctx, query, item.Name, item.Description, shared.DecimalToNumeric(item.Price), item.ID)
	if err != nil {
		return fmt.Errorf("items: update %d: %w", item.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item %d: %w", item.ID, shared.ErrNotFound)
	}
	return nil
}

func (r *txRepo) ReplaceSuppliers(ctx context.Context, itemID int64, supplierIDs []int64) error {
	if _, err := r.tx.Exec(ctx, `DELETE FROM item_suppliers WHERE item_id = $1`, itemID); err != nil {
		return fmt.Errorf("items: clear suppliers of %d: %w", itemID, err)
	}
	if len(supplierIDs) == 0 {
		return nil
	}
	query := `INSERT INTO item_suppliers (item_id, supplier_id) SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING`
	if _, err := r.tx.Exec(ctx, query, itemID, supplierIDs); err != nil {
		return fmt.Errorf("items: link suppliers of %d: %w", itemID, err)
	}
	return nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func getItem(ctx context.Context, q querier, id int64, lock string) (Item, error) {
	query := `SELECT ` + itemColumns + `, ` + itemSupplierIDs + ` FROM items i WHERE i.id = $1` + lock
	rows, err := q.Query(ctx, query, id)
	if err != nil {
		return Item{}, fmt.Errorf("items: get %d: %w", id, err)
	}
	item, err := pgx.CollectExactlyOneRow(rows, scanItem)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, fmt.Errorf("item %d: %w", id, shared.ErrNotFound)
	}
	if err != nil {
		return Item{}, fmt.Errorf("items: get %d: %w", id, err)
	}
	return item, nil
}

func scanItem(row pgx.CollectableRow) (Item, error) {
	var (
		it        Item
		price     pgtype.Numeric
		createdAt pgtype.Date
	)
	if err := row.Scan(&it.ID, &it.Name, &it.Description, &price, &createdAt, &it.SupplierIDs); err != nil {
		return Item{}, err
	}
	it.Price = shared.NumericToDecimal(price)
	it.CreatedAt = shared.DateValue(createdAt)
	return it, nil
}

// translate turns storage constraint failures that the client caused into
// field errors, and write conflicts into ErrConflict.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case db.IsForeignKeyViolation(err, supplierFKey):
		return httpx.FieldError("suppliers", "One or more suppliers no longer exist.")
	case db.IsCheckViolation(err, priceCheck):
		return httpx.FieldError("price", "Ensure this value is greater than or equal to 0.")
	case db.IsSerializationFailure(err):
		return fmt.Errorf("item modified concurrently: %w", httpx.ErrConflict)
	default:
		return err
	}
}
