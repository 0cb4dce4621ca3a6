package suppliers

import (
	"github.com/Chiemezuo/priority-soft-interview/internal/masterdata/shared"
)

// validate checks p. A full payload must carry every field; a partial one
// only has its present fields checked.
func (s *Service) validate(p *Payload, partial bool) error {
	shared.TrimPtr(p.Name)
	shared.TrimPtr(p.Email)
	shared.TrimPtr(p.Address)
	shared.TrimPtr(p.PhoneNumber)

	errs := s.validator.Struct(p)
	shared.RejectNull(errs, p.nulls)
	if !partial {
		shared.Require(errs, map[string]bool{
			"name":         p.Name != nil,
			"email":        p.Email != nil,
			"address":      p.Address != nil,
			"phone_number": p.PhoneNumber != nil,
		})
	}
	return errs.Err()
}

// apply merges the present fields of p into sup.
func apply(sup Supplier, p Payload) Supplier {
	if p.Name != nil {
		sup.Name = *p.Name
	}
	if p.Email != nil {
		sup.Email = *p.Email
	}
	if p.Address != nil {
		sup.Address = *p.Address
	}
	if p.PhoneNumber != nil {
		sup.PhoneNumber = *p.PhoneNumber
	}
	return sup
}
