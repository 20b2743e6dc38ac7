package domain

import (
	"strconv"

	"github.com/go-playground/validator/v10"
)

// =============================================================================
// PRODUCT DOMAIN TYPES
// =============================================================================

// Product is a read-only snapshot of a catalog record. The remote
// inventory service owns the record; Stock is only valid at fetch time
// and is never written back except through explicit stock calls.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Remark      string `json:"remark"`

	Stock        int     `json:"stock"`
	PiecePerCost int     `json:"piece_per_cost"`
	Cost         float64 `json:"cost"`

	SellPriceLower float64 `json:"sell_price_lower"`
	SellPriceAvg   float64 `json:"sell_price_avg"`
	Profit         float64 `json:"profit"`
}

// DefaultUnitPrice is the price a new cart line starts at: the average
// sell price, or the lower bound when no average is set.
func (p Product) DefaultUnitPrice() float64 {
	if p.SellPriceAvg > 0 {
		return p.SellPriceAvg
	}
	return p.SellPriceLower
}

// =============================================================================
// EDITABLE FIELDS
// =============================================================================

// Field identifies one editable Product column. Cell edits and filter
// specs address fields through this closed set rather than free-form
// string keys.
type Field string

const (
	FieldName           Field = "name"
	FieldType           Field = "type"
	FieldLocation       Field = "location"
	FieldDescription    Field = "description"
	FieldRemark         Field = "remark"
	FieldStock          Field = "stock"
	FieldPiecePerCost   Field = "piece_per_cost"
	FieldCost           Field = "cost"
	FieldSellPriceLower Field = "sell_price_lower"
	FieldSellPriceAvg   Field = "sell_price_avg"
	FieldProfit         Field = "profit"
)

// Fields lists every addressable field in table column order.
var Fields = []Field{
	FieldName, FieldType, FieldLocation, FieldDescription, FieldRemark,
	FieldStock, FieldPiecePerCost, FieldCost,
	FieldSellPriceLower, FieldSellPriceAvg, FieldProfit,
}

// Numeric reports whether the field holds a numeric value. Numeric
// fields sort numerically and accept comparison filters; all others
// are text.
func (f Field) Numeric() bool {
	switch f {
	case FieldStock, FieldPiecePerCost, FieldCost,
		FieldSellPriceLower, FieldSellPriceAvg, FieldProfit:
		return true
	}
	return false
}

// Valid reports whether f names a known field.
func (f Field) Valid() bool {
	switch f {
	case FieldName, FieldType, FieldLocation, FieldDescription,
		FieldRemark, FieldStock, FieldPiecePerCost, FieldCost,
		FieldSellPriceLower, FieldSellPriceAvg, FieldProfit:
		return true
	}
	return false
}

// StringValue renders the field's value on p for display, text
// filtering and lexicographic sorting.
func (f Field) StringValue(p Product) string {
	switch f {
	case FieldName:
		return p.Name
	case FieldType:
		return p.Type
	case FieldLocation:
		return p.Location
	case FieldDescription:
		return p.Description
	case FieldRemark:
		return p.Remark
	case FieldStock:
		return strconv.Itoa(p.Stock)
	case FieldPiecePerCost:
		return strconv.Itoa(p.PiecePerCost)
	case FieldCost:
		return strconv.FormatFloat(p.Cost, 'f', -1, 64)
	case FieldSellPriceLower:
		return strconv.FormatFloat(p.SellPriceLower, 'f', -1, 64)
	case FieldSellPriceAvg:
		return strconv.FormatFloat(p.SellPriceAvg, 'f', -1, 64)
	case FieldProfit:
		return strconv.FormatFloat(p.Profit, 'f', -1, 64)
	}
	return ""
}

// NumericValue returns the field's value on p as a float64. Only
// meaningful when f.Numeric() is true; text fields return 0.
func (f Field) NumericValue(p Product) float64 {
	switch f {
	case FieldStock:
		return float64(p.Stock)
	case FieldPiecePerCost:
		return float64(p.PiecePerCost)
	case FieldCost:
		return p.Cost
	case FieldSellPriceLower:
		return p.SellPriceLower
	case FieldSellPriceAvg:
		return p.SellPriceAvg
	case FieldProfit:
		return p.Profit
	}
	return 0
}

// =============================================================================
// FIELD PATCHES
// =============================================================================

// Patch is a partial update of a single product record, keyed by
// field. Built through typed setters so a patch can only ever address
// known fields.
type Patch map[Field]any

// NewPatch returns an empty patch.
func NewPatch() Patch {
	return Patch{}
}

// SetText records a text field update. Returns the patch for chaining.
func (p Patch) SetText(f Field, value string) Patch {
	p[f] = value
	return p
}

// SetNumber records a numeric field update. Integer-valued fields are
// stored as int so the wire payload matches the column type.
func (p Patch) SetNumber(f Field, value float64) Patch {
	if f == FieldStock || f == FieldPiecePerCost {
		p[f] = int(value)
		return p
	}
	p[f] = value
	return p
}

// =============================================================================
// PRODUCT REGISTRATION
// =============================================================================

// ProductInput carries the register-new-product form. Profit is
// derived, never taken from the caller (see DeriveProfit).
type ProductInput struct {
	Name           string  `json:"name" validate:"required"`
	Type           string  `json:"type"`
	Location       string  `json:"location"`
	Description    string  `json:"description"`
	Remark         string  `json:"remark"`
	Stock          int     `json:"stock" validate:"gt=0"`
	PiecePerCost   int     `json:"piece_per_cost" validate:"gte=0"`
	Cost           float64 `json:"cost" validate:"gte=0"`
	SellPriceLower float64 `json:"sell_price_lower" validate:"gte=0"`
	SellPriceAvg   float64 `json:"sell_price_avg" validate:"gte=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the registration form. Name and a positive initial
// stock are required; money fields must not be negative.
func (in ProductInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return WrapError(err, EINVALID, "product.register", "invalid product input")
	}
	return nil
}

// DeriveProfit computes the profit column for a new product from its
// price fields: base sell price (average, or lower bound when no
// average is set) minus cost.
func (in ProductInput) DeriveProfit() float64 {
	base := in.SellPriceAvg
	if base <= 0 {
		base = in.SellPriceLower
	}
	return base - in.Cost
}
