package suppliers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Chiemezuo/priority-soft-interview/internal/masterdata/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Supplier, error)
	Get(ctx context.Context, id int64) (Supplier, error)
	Create(ctx context.Context, supplier Supplier) (Supplier, error)
	Update(ctx context.Context, supplier Supplier) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const supplierColumns = `id, name, email, address, phone_number`

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE 1=1`
	args := []any{}

	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		query += ` AND name ILIKE $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY id ASC`

	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
		args = append(args, filters.Offset())
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("suppliers: list: %w", err)
	}
	suppliers, err := pgx.CollectRows(rows, scanSupplier)
	if err != nil {
		return nil, fmt.Errorf("suppliers: list: %w", err)
	}

	if err := r.attachItems(ctx, suppliers); err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Supplier, error) {
	rows, err := r.db.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return Supplier{}, fmt.Errorf("suppliers: get %d: %w", id, err)
	}
	s, err := pgx.CollectExactlyOneRow(rows, scanSupplier)
	if errors.Is(err, pgx.ErrNoRows) {
		return Supplier{}, fmt.Errorf("supplier %d: %w", id, shared.ErrNotFound)
	}
	if err != nil {
		return Supplier{}, fmt.Errorf("suppliers: get %d: %w", id, err)
	}

	list := []Supplier{s}
	if err := r.attachItems(ctx, list); err != nil {
		return Supplier{}, err
	}
	return list[0], nil
}

func (r *repository) Create(ctx context.Context, supplier Supplier) (Supplier, error) {
	query := `INSERT INTO suppliers (name, email, address, phone_number) VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.db.QueryRow(ctx, query, supplier.Name, supplier.Email, supplier.Address, supplier.PhoneNumber).Scan(&supplier.ID)
	if err != nil {
		return Supplier{}, fmt.Errorf("suppliers: create: %w", err)
	}
	return supplier, nil
}

func (r *repository) Update(ctx context.Context, supplier Supplier) error {
	query := `UPDATE suppliers SET name = $1, email = $2, address = $3, phone_number = $4 WHERE id = $5`
	tag, err := r.db.Exec(ctx, query, supplier.Name, supplier.Email, supplier.Address, supplier.PhoneNumber, supplier.ID)
	if err != nil {
		return fmt.Errorf("suppliers: update %d: %w", supplier.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("supplier %d: %w", supplier.ID, shared.ErrNotFound)
	}
	return nil
}

// Delete relies on ON DELETE CASCADE to drop the item_suppliers rows.
func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("suppliers: delete %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("supplier %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

// attachItems loads the items of every supplier in one query.
func (r *repository) attachItems(ctx context.Context, suppliers []Supplier) error {
	if len(suppliers) == 0 {
		return nil
	}
	ids := make([]int64, len(suppliers))
	index := make(map[int64]int, len(suppliers))
	for i := range suppliers {
		ids[i] = suppliers[i].ID
		index[suppliers[i].ID] = i
		suppliers[i].Items = []ItemSummary{}
	}

	query := `
		SELECT s.supplier_id, i.id, i.name, i.description, i.price, i.created_at,
		       ARRAY(SELECT x.supplier_id FROM item_suppliers x WHERE x.item_id = i.id ORDER BY x.supplier_id)
		FROM item_suppliers s
		JOIN items i ON i.id = s.item_id
		WHERE s.supplier_id = ANY($1)
		ORDER BY s.supplier_id, i.id`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("suppliers: load items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			supplierID int64
			item       ItemSummary
			price      pgtype.Numeric
			createdAt  pgtype.Date
		)
		if err := rows.Scan(&supplierID, &item.ID, &item.Name, &item.Description, &price, &createdAt, &item.SupplierIDs); err != nil {
			return fmt.Errorf("suppliers: scan item: %w", err)
		}
		item.Price = shared.NumericToDecimal(price)
		item.CreatedAt = shared.DateValue(createdAt)
		i := index[supplierID]
		suppliers[i].Items = append(suppliers[i].Items, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("suppliers: load items: %w", err)
	}
	return nil
}

func scanSupplier(row pgx.CollectableRow) (Supplier, error) {
	var s Supplier
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Address, &s.PhoneNumber)
	return s, err
}
