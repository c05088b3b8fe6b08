// Package quote holds the pure quotation domain rules: line item discount
// and totals arithmetic, the quote/invoice identifier format, the overhead
// charge flags, and the two-state quote status machine.
//
// Nothing in this package touches storage; amounts are plain float64 values
// and rounding is left to presentation code.
package quote

// Discount types applicable to a single line item.
const (
	DiscountNone       = "none"
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Fixed overhead rates applied to the post-discount item subtotal, and the
// ITBIS tax rate applied after overheads. None of these are configurable.
const (
	RateSupervision = 0.10
	RateAdmin       = 0.04
	RateInsurance   = 0.01
	RateTransport   = 0.03
	RateContingency = 0.03
	RateITBIS       = 0.18
)

// LineItem is a single priced entry on a quote. AutoImported marks lines
// ingested from the quantity calculators rather than entered by hand.
type LineItem struct {
	ProductName   string  `db:"product_name" json:"product_name"`
	Quantity      float64 `db:"quantity" json:"quantity"`
	UnitPrice     float64 `db:"unit_price" json:"unit_price"`
	DiscountType  string  `db:"discount_type" json:"discount_type"`
	DiscountValue float64 `db:"discount_value" json:"discount_value"`
	AutoImported  bool    `db:"auto_imported" json:"auto_imported"`
}

// Subtotal is the undiscounted value of the line.
func (li LineItem) Subtotal() float64 {
	return li.UnitPrice * li.Quantity
}

// Discount returns the discount amount for the line.
func (li LineItem) Discount() float64 {
	return ItemDiscount(li.UnitPrice, li.Quantity, li.DiscountType, li.DiscountValue)
}

// ItemDiscount computes the discount amount for a single line item. A
// "fixed" discount is taken verbatim and is not capped at the line
// subtotal, so a negative net line value is possible. Negative inputs
// are the caller's responsibility to prevent.
func ItemDiscount(unitPrice, quantity float64, discountType string, discountValue float64) float64 {
	switch discountType {
	case DiscountPercentage:
		return (unitPrice * quantity) * (discountValue / 100)
	case DiscountFixed:
		return discountValue
	}
	return 0
}

// Totals is the full cost breakdown for a set of line items. All
// intermediate values are kept so that renderers can show the working.
type Totals struct {
	ItemsTotal         float64 `json:"items_total"`
	TotalDiscounts     float64 `json:"total_discounts"`
	ItemsAfterDiscount float64 `json:"items_after_discount"`
	Supervision        float64 `json:"supervision"`
	Admin              float64 `json:"admin"`
	Insurance          float64 `json:"insurance"`
	Transport          float64 `json:"transport"`
	Contingency        float64 `json:"contingency"`
	SubtotalGeneral    float64 `json:"subtotal_general"`
	ITBIS              float64 `json:"itbis"`
	GrandTotal         float64 `json:"grand_total"`
}

// CalculateTotals cascades the item subtotals through the enabled overhead
// charges and ITBIS into a grand total.
func CalculateTotals(items []LineItem, charges ChargeFlags) Totals {
	var t Totals
	for _, li := range items {
		t.ItemsTotal += li.Subtotal()
		t.TotalDiscounts += li.Discount()
	}
	t.ItemsAfterDiscount = t.ItemsTotal - t.TotalDiscounts

	if charges.Supervision {
		t.Supervision = t.ItemsAfterDiscount * RateSupervision
	}
	if charges.Admin {
		t.Admin = t.ItemsAfterDiscount * RateAdmin
	}
	if charges.Insurance {
		t.Insurance = t.ItemsAfterDiscount * RateInsurance
	}
	if charges.Transport {
		t.Transport = t.ItemsAfterDiscount * RateTransport
	}
	if charges.Contingency {
		t.Contingency = t.ItemsAfterDiscount * RateContingency
	}

	t.SubtotalGeneral = t.ItemsAfterDiscount +
		t.Supervision + t.Admin + t.Insurance + t.Transport + t.Contingency
	t.ITBIS = t.SubtotalGeneral * RateITBIS
	t.GrandTotal = t.SubtotalGeneral + t.ITBIS
	return t
}
