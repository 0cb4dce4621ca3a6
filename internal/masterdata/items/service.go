package items

import (
	"context"
	"fmt"
	"time"

	"github.com/Chiemezuo/priority-soft-interview/internal/masterdata/shared"
	"github.com/Chiemezuo/priority-soft-interview/internal/platform/httpx"
)

// ServiceConfig tunes Service behaviour.
type ServiceConfig struct {
	// Now stamps created_at. Defaults to time.Now.
	Now func() time.Time
}

type Service struct {
	repo      Repository
	validator *shared.Validator
	now       func() time.Time
}

func NewService(repo Repository, cfg ServiceConfig) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, validator: shared.NewValidator(), now: now}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Item, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Item, error) {
	if id <= 0 {
		return Item{}, fmt.Errorf("item %d: %w", id, shared.ErrNotFound)
	}
	return s.repo.Get(ctx, id)
}

// Create stores a new item. Every referenced supplier must exist, otherwise
// nothing is written.
func (s *Service) Create(ctx context.Context, p Payload) (Item, error) {
	in, errs := s.validate(&p, false)
	item := apply(Item{CreatedAt: shared.Today(s.now()), SupplierIDs: []int64{}}, in)

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := resolveSuppliers(ctx, tx, in, errs); err != nil {
			return err
		}
		if err := errs.Err(); err != nil {
			return err
		}
		id, err := tx.Insert(ctx, item)
		if err != nil {
			return err
		}
		item.ID = id
		return tx.ReplaceSuppliers(ctx, id, item.SupplierIDs)
	})
	if err != nil {
		return Item{}, err
	}
	return item, nil
}

// Replace overwrites an item. An omitted suppliers list clears the set.
func (s *Service) Replace(ctx context.Context, id int64, p Payload) (Item, error) {
	in, errs := s.validate(&p, false)
	if !in.hasSupplier {
		in.hasSupplier = true
		in.suppliers = []int64{}
	}
	return s.write(ctx, id, in, errs)
}

// Update merges the fields present in p. An omitted suppliers list leaves
// the set untouched; a present one replaces it.
func (s *Service) Update(ctx context.Context, id int64, p Payload) (Item, error) {
	in, errs := s.validate(&p, true)
	return s.write(ctx, id, in, errs)
}

func (s *Service) write(ctx context.Context, id int64, in input, errs httpx.FieldErrors) (Item, error) {
	if id <= 0 {
		return Item{}, fmt.Errorf("item %d: %w", id, shared.ErrNotFound)
	}

	var updated Item
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := resolveSuppliers(ctx, tx, in, errs); err != nil {
			return err
		}
		if err := errs.Err(); err != nil {
			return err
		}
		updated = apply(current, in)
		if err := tx.Update(ctx, updated); err != nil {
			return err
		}
		if in.hasSupplier {
			return tx.ReplaceSuppliers(ctx, id, updated.SupplierIDs)
		}
		return nil
	})
	if err != nil {
		return Item{}, err
	}
	return updated, nil
}

// Delete removes the item and its supplier associations. Suppliers are kept.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("item %d: %w", id, shared.ErrNotFound)
	}
	return s.repo.Delete(ctx, id)
}

// resolveSuppliers looks up the requested suppliers and records the unknown
// ones in errs. The lookup locks the found rows until the transaction ends.
func resolveSuppliers(ctx context.Context, tx TxRepository, in input, errs httpx.FieldErrors) error {
	if !in.hasSupplier || len(in.suppliers) == 0 {
		return nil
	}
	missing, err := tx.MissingSuppliers(ctx, in.suppliers)
	if err != nil {
		return err
	}
	unknownSuppliers(errs, missing)
	return nil
}
