package quote

import (
	"errors"
	"testing"
)

func TestStatusTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		wantErr error
		ok      bool
	}{
		{"draft to invoiced", StatusDraft, StatusInvoiced, nil, true},
		{"draft to draft", StatusDraft, StatusDraft, nil, false},
		{"invoiced is terminal", StatusInvoiced, StatusDraft, ErrAlreadyInvoiced, false},
		{"invoiced to invoiced", StatusInvoiced, StatusInvoiced, ErrAlreadyInvoiced, false},
		{"unknown status", Status("Pending"), StatusInvoiced, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.from.Transition(tt.to)
			if tt.ok != (err == nil) {
				t.Fatalf("got error %v, want ok %t", err, tt.ok)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestStatusValid(t *testing.T) {
	if !StatusDraft.Valid() || !StatusInvoiced.Valid() {
		t.Error("known statuses reported invalid")
	}
	if Status("Pending").Valid() {
		t.Error("unknown status reported valid")
	}
}
