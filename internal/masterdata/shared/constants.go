package shared

const (
	// Default pagination
	DefaultPage = 1

	// Price is stored as NUMERIC(10,2).
	PriceDecimalPlaces = 2
	PriceMaxDigits     = 10
)
