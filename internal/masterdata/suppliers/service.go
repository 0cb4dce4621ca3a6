package suppliers

import (
	"context"
	"fmt"

	"github.com/Chiemezuo/priority-soft-interview/internal/masterdata/shared"
)

type Service struct {
	repo      Repository
	validator *shared.Validator
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validator: shared.NewValidator()}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Supplier, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Supplier, error) {
	if id <= 0 {
		return Supplier{}, fmt.Errorf("supplier %d: %w", id, shared.ErrNotFound)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, p Payload) (Supplier, error) {
	if err := s.validate(&p, false); err != nil {
		return Supplier{}, err
	}
	created, err := s.repo.Create(ctx, apply(Supplier{}, p))
	if err != nil {
		return Supplier{}, err
	}
	created.Items = []ItemSummary{}
	return created, nil
}

// Replace overwrites every field of an existing supplier.
func (s *Service) Replace(ctx context.Context, id int64, p Payload) (Supplier, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return Supplier{}, err
	}
	if err := s.validate(&p, false); err != nil {
		return Supplier{}, err
	}
	sup := apply(Supplier{ID: id}, p)
	if err := s.repo.Update(ctx, sup); err != nil {
		return Supplier{}, err
	}
	return s.repo.Get(ctx, id)
}

// Update merges the fields present in p into the stored supplier.
func (s *Service) Update(ctx context.Context, id int64, p Payload) (Supplier, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Supplier{}, err
	}
	if err := s.validate(&p, true); err != nil {
		return Supplier{}, err
	}
	if err := s.repo.Update(ctx, apply(current, p)); err != nil {
		return Supplier{}, err
	}
	return s.repo.Get(ctx, id)
}

// Delete removes the supplier and its item associations. Items are kept.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("supplier %d: %w", id, shared.ErrNotFound)
	}
	return s.repo.Delete(ctx, id)
}
