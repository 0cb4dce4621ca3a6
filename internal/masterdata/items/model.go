package items

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item represents a catalog product and the suppliers it is linked to.
type Item struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	CreatedAt   time.Time
	SupplierIDs []int64
}
