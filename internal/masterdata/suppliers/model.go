package suppliers

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier represents a supplier entity
type Supplier struct {
	ID          int64
	Name        string
	Email       string
	Address     string
	PhoneNumber string
	Items       []ItemSummary
}

// ItemSummary is an item embedded one level deep in a supplier.
type ItemSummary struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	CreatedAt   time.Time
	SupplierIDs []int64
}
