package quote

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestChargeFlagsRoundTrip(t *testing.T) {
	flags := ChargeFlags{Supervision: true, Insurance: true}
	val, err := flags.Value()
	if err != nil {
		t.Fatalf("value error: %v", err)
	}
	var got ChargeFlags
	if err := got.Scan(val); err != nil {
		t.Fatalf("scan error: %v", err)
	}
	if diff := cmp.Diff(flags, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestChargeFlagsScanRecovery(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"nil", nil},
		{"empty string", ""},
		// The previous system stored a Python dict literal.
		{"legacy literal", "{'supervision': True, 'admin': False}"},
		{"garbage", "not json at all"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ChargeFlags
			if err := got.Scan(tt.value); err != nil {
				t.Fatalf("scan error: %v", err)
			}
			if diff := cmp.Diff(DefaultChargeFlags(), got); diff != "" {
				t.Errorf("expected all-true default (-want +got):\n%s", diff)
			}
		})
	}
}

func TestChargeFlagsMissingKeysDefaultTrue(t *testing.T) {
	var got ChargeFlags
	if err := json.Unmarshal([]byte(`{"supervision": false}`), &got); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	want := ChargeFlags{Supervision: false, Admin: true, Insurance: true, Transport: true, Contingency: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("defaulting mismatch (-want +got):\n%s", diff)
	}
}

func TestStatusTransition(t *testing.T) {
	if err := StatusDraft.Transition(StatusInvoiced); err != nil {
		t.Errorf("draft to invoiced should be legal: %v", err)
	}
	if err := StatusInvoiced.Transition(StatusInvoiced); !errors.Is(err, ErrAlreadyInvoiced) {
		t.Errorf("invoiced is terminal, got %v", err)
	}
	if err := StatusDraft.Transition(StatusDraft); err == nil {
		t.Error("draft to draft should be rejected")
	}
	if err := Status("Pending").Transition(StatusInvoiced); err == nil {
		t.Error("unknown status should be rejected")
	}
}
