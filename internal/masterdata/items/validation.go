package items

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Chiemezuo/priority-soft-interview/internal/masterdata/shared"
	"github.com/Chiemezuo/priority-soft-interview/internal/platform/httpx"
)

// maxPriceLength bounds the text handed to the decimal parser.
const maxPriceLength = 64

// input is a validated payload. Nil pointers were absent from the request.
type input struct {
	name        *string
	description *string
	price       *decimal.Decimal
	suppliers   []int64
	hasSupplier bool
}

// validate checks the shape of p. Supplier existence is checked separately,
// inside the write transaction.
func (s *Service) validate(p *Payload, partial bool) (input, httpx.FieldErrors) {
	shared.TrimPtr(p.Name)
	shared.TrimPtr(p.Description)

	errs := s.validator.Struct(p)
	shared.RejectNull(errs, p.nulls)
	in := input{name: p.Name, description: p.Description}

	if p.Price != nil && !p.nulls["price"] {
		price, msg := parsePrice(p.Price)
		if msg != "" {
			errs.Add("price", msg)
		} else {
			in.price = &price
		}
	}

	if p.Suppliers != nil {
		in.hasSupplier = true
		in.suppliers = normalizeIDs(*p.Suppliers)
	}

	if !partial {
		shared.Require(errs, map[string]bool{
			"name":        p.Name != nil,
			"description": p.Description != nil,
			"price":       p.Price != nil,
		})
	}
	return in, errs
}

// parsePrice accepts a JSON number or a numeric string. It returns a
// non-empty message when the value is not a valid NUMERIC(10,2) price.
func parsePrice(raw json.RawMessage) (decimal.Decimal, string) {
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		return decimal.Decimal{}, shared.MsgNull
	}

	text := string(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Decimal{}, "A valid number is required."
		}
		text = strings.TrimSpace(s)
	}

	if len(text) > maxPriceLength {
		return decimal.Decimal{}, "A valid number is required."
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, "A valid number is required."
	}
	if d.IsNegative() {
		return decimal.Decimal{}, "Ensure this value is greater than or equal to 0."
	}
	if d.IsZero() {
		return decimal.Zero, ""
	}

	// The exponent may be huge, so check the shape without rescaling.
	digits, exp := significant(d)
	if exp < -shared.PriceDecimalPlaces {
		return decimal.Decimal{}, fmt.Sprintf("Ensure that there are no more than %d decimal places.", shared.PriceDecimalPlaces)
	}
	if digits+exp > shared.PriceMaxDigits-shared.PriceDecimalPlaces {
		return decimal.Decimal{}, fmt.Sprintf("Ensure that there are no more than %d digits before the decimal point.", shared.PriceMaxDigits-shared.PriceDecimalPlaces)
	}
	return d.Truncate(shared.PriceDecimalPlaces), ""
}

// significant returns the digit count of the coefficient of d with trailing
// zeros dropped, and the exponent that goes with it. d must not be zero.
func significant(d decimal.Decimal) (int, int) {
	coef := strings.TrimLeft(d.Coefficient().String(), "-")
	trimmed := strings.TrimRight(coef, "0")
	return len(trimmed), int(d.Exponent()) + len(coef) - len(trimmed)
}

// normalizeIDs drops duplicates and sorts ascending.
func normalizeIDs(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

// unknownSuppliers records one message per identifier that does not resolve.
func unknownSuppliers(errs httpx.FieldErrors, missing []int64) {
	for _, id := range missing {
		errs.Add("suppliers", fmt.Sprintf("Invalid pk %q - object does not exist.", fmt.Sprint(id)))
	}
}

// apply merges the validated fields of in into it.
func apply(it Item, in input) Item {
	if in.name != nil {
		it.Name = *in.name
	}
	if in.description != nil {
		it.Description = *in.description
	}
	if in.price != nil {
		it.Price = *in.price
	}
	if in.hasSupplier {
		it.SupplierIDs = in.suppliers
	}
	return it
}
