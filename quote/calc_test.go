package quote

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// approxFloats allows for float64 arithmetic noise in totals comparisons.
var approxFloats = cmp.Comparer(func(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
})

func TestItemDiscount(t *testing.T) {
	tests := []struct {
		name          string
		unitPrice     float64
		quantity      float64
		discountType  string
		discountValue float64
		want          float64
	}{
		{"none", 100, 2, DiscountNone, 25, 0},
		{"unknown type treated as none", 100, 2, "mystery", 25, 0},
		{"percentage", 100, 2, DiscountPercentage, 10, 20},
		{"percentage of zero quantity", 100, 0, DiscountPercentage, 10, 0},
		{"fixed", 100, 2, DiscountFixed, 50, 50},
		// A fixed discount is not capped at the line subtotal.
		{"fixed exceeding subtotal", 10, 1, DiscountFixed, 50, 50},
		{"zero value", 100, 2, DiscountPercentage, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ItemDiscount(tt.unitPrice, tt.quantity, tt.discountType, tt.discountValue)
			if got != tt.want {
				t.Errorf("got %v want %v", got, tt.want)
			}
		})
	}
}

func TestCalculateTotalsAllCharges(t *testing.T) {
	items := []LineItem{
		{ProductName: "Steel Beam IPE 200", UnitPrice: 100, Quantity: 2, DiscountType: DiscountNone},
	}
	got := CalculateTotals(items, DefaultChargeFlags())
	want := Totals{
		ItemsTotal:         200,
		TotalDiscounts:     0,
		ItemsAfterDiscount: 200,
		Supervision:        20,
		Admin:              8,
		Insurance:          2,
		Transport:          6,
		Contingency:        6,
		SubtotalGeneral:    242,
		ITBIS:              43.56,
		GrandTotal:         285.56,
	}
	if diff := cmp.Diff(want, got, approxFloats); diff != "" {
		t.Errorf("totals mismatch (-want +got):\n%s", diff)
	}
}

func TestCalculateTotalsFixedDiscount(t *testing.T) {
	items := []LineItem{
		{ProductName: "Steel Beam IPE 200", UnitPrice: 100, Quantity: 2, DiscountType: DiscountFixed, DiscountValue: 50},
	}
	got := CalculateTotals(items, DefaultChargeFlags())
	want := Totals{
		ItemsTotal:         200,
		TotalDiscounts:     50,
		ItemsAfterDiscount: 150,
		Supervision:        15,
		Admin:              6,
		Insurance:          1.5,
		Transport:          4.5,
		Contingency:        4.5,
		SubtotalGeneral:    181.5,
		ITBIS:              32.67,
		GrandTotal:         214.17,
	}
	if diff := cmp.Diff(want, got, approxFloats); diff != "" {
		t.Errorf("totals mismatch (-want +got):\n%s", diff)
	}
}

func TestCalculateTotalsChargeToggles(t *testing.T) {
	items := []LineItem{
		{UnitPrice: 50, Quantity: 4, DiscountType: DiscountPercentage, DiscountValue: 10},
		{UnitPrice: 12.5, Quantity: 8, DiscountType: DiscountNone},
		{UnitPrice: 30, Quantity: 1, DiscountType: DiscountFixed, DiscountValue: 5},
	}

	// Exercise every combination of the five charge flags; ITBIS must
	// always be exactly 18% of the general subtotal.
	for mask := 0; mask < 32; mask++ {
		charges := ChargeFlags{
			Supervision: mask&1 != 0,
			Admin:       mask&2 != 0,
			Insurance:   mask&4 != 0,
			Transport:   mask&8 != 0,
			Contingency: mask&16 != 0,
		}
		got := CalculateTotals(items, charges)
		if want := got.SubtotalGeneral * RateITBIS; math.Abs(got.ITBIS-want) > 1e-9 {
			t.Errorf("charges %+v: ITBIS got %v want %v", charges, got.ITBIS, want)
		}
		if want := got.SubtotalGeneral * (1 + RateITBIS); math.Abs(got.GrandTotal-want) > 1e-9 {
			t.Errorf("charges %+v: grand total got %v want %v", charges, got.GrandTotal, want)
		}
	}

	// With all charges off the subtotal is just the discounted items.
	got := CalculateTotals(items, ChargeFlags{})
	if want := 200.0 - 25.0; math.Abs(got.SubtotalGeneral-want) > 1e-9 {
		t.Errorf("subtotal with no charges got %v want %v", got.SubtotalGeneral, want)
	}
}

func TestCalculateTotalsEmpty(t *testing.T) {
	got := CalculateTotals(nil, DefaultChargeFlags())
	if got.GrandTotal != 0 {
		t.Errorf("empty item set grand total got %v want 0", got.GrandTotal)
	}
}

// A fixed discount greater than the item subtotal pushes the net negative;
// the cascade carries the negative value through unchanged.
func TestCalculateTotalsNegativeNet(t *testing.T) {
	items := []LineItem{
		{UnitPrice: 10, Quantity: 1, DiscountType: DiscountFixed, DiscountValue: 50},
	}
	got := CalculateTotals(items, ChargeFlags{})
	if want := -40.0; math.Abs(got.ItemsAfterDiscount-want) > 1e-9 {
		t.Errorf("items after discount got %v want %v", got.ItemsAfterDiscount, want)
	}
}
