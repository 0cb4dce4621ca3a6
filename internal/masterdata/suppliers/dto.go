package suppliers

import (
	"encoding/json"

	"github.com/Chiemezuo/priority-soft-interview/internal/masterdata/shared"
)

// Payload is the request body of create, replace and partial update.
// A nil field was absent from the request or null; nulls records the latter.
type Payload struct {
	Name        *string `json:"name" validate:"omitnil,min=1,max=255"`
	Email       *string `json:"email" validate:"omitnil,min=1,email,max=255"`
	Address     *string `json:"address" validate:"omitnil,min=1,max=255"`
	PhoneNumber *string `json:"phone_number" validate:"omitnil,min=1,max=20"`

	nulls map[string]bool
}

func (p *Payload) UnmarshalJSON(data []byte) error {
	type plain Payload
	if err := json.Unmarshal(data, (*plain)(p)); err != nil {
		return err
	}
	p.nulls = shared.NullKeys(data, "name", "email", "address", "phone_number")
	return nil
}

// Response is the JSON shape of a supplier.
type Response struct {
	ID          int64                 `json:"id"`
	Name        string                `json:"name"`
	Email       string                `json:"email"`
	Address     string                `json:"address"`
	PhoneNumber string                `json:"phone_number"`
	Items       []ItemSummaryResponse `json:"items"`
}

// ItemSummaryResponse is the embedded item shape. Its suppliers are identifiers only.
type ItemSummaryResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       string  `json:"price"`
	CreatedAt   string  `json:"created_at"`
	Suppliers   []int64 `json:"suppliers"`
}

// NewResponse serializes s with its items embedded.
func NewResponse(s Supplier) Response {
	items := make([]ItemSummaryResponse, 0, len(s.Items))
	for _, it := range s.Items {
		ids := it.SupplierIDs
		if ids == nil {
			ids = []int64{}
		}
		items = append(items, ItemSummaryResponse{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			Price:       shared.FormatPrice(it.Price),
			CreatedAt:   shared.FormatDate(it.CreatedAt),
			Suppliers:   ids,
		})
	}
	return Response{
		ID:          s.ID,
		Name:        s.Name,
		Email:       s.Email,
		Address:     s.Address,
		PhoneNumber: s.PhoneNumber,
		Items:       items,
	}
}

// NewListResponse serializes a list, never returning null.
func NewListResponse(list []Supplier) []Response {
	out := make([]Response, 0, len(list))
	for _, s := range list {
		out = append(out, NewResponse(s))
	}
	return out
}
