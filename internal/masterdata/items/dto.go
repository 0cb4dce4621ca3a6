package items

import (
	"encoding/json"

	"github.com/Chiemezuo/priority-soft-interview/internal/masterdata/shared"
)

// Payload is the request body of create, replace and partial update.
// Price stays raw so malformed values surface as field errors. Explicit
// nulls are kept in nulls and rejected during validation.
type Payload struct {
	Name        *string         `json:"name" validate:"omitnil,min=1,max=255"`
	Description *string         `json:"description" validate:"omitnil,min=1"`
	Price       json.RawMessage `json:"price" validate:"-"`
	Suppliers   *[]int64        `json:"suppliers" validate:"-"`

	nulls map[string]bool
}

func (p *Payload) UnmarshalJSON(data []byte) error {
	type plain Payload
	if err := json.Unmarshal(data, (*plain)(p)); err != nil {
		return err
	}
	p.nulls = shared.NullKeys(data, "name", "description", "price", "suppliers")
	return nil
}

// Response is the JSON shape of an item.
type Response struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       string  `json:"price"`
	CreatedAt   string  `json:"created_at"`
	Suppliers   []int64 `json:"suppliers"`
}

func NewResponse(it Item) Response {
	ids := it.SupplierIDs
	if ids == nil {
		ids = []int64{}
	}
	return Response{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Price:       shared.FormatPrice(it.Price),
		CreatedAt:   shared.FormatDate(it.CreatedAt),
		Suppliers:   ids,
	}
}

func NewListResponse(list []Item) []Response {
	out := make([]Response, 0, len(list))
	for _, it := range list {
		out = append(out, NewResponse(it))
	}
	return out
}
