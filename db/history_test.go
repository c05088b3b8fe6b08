package db

// tests for the append-only quote snapshot history

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSnapshotRoundTrip(t *testing.T) {

	testDB := setupTestDB(t)
	ctx := context.Background()
	clientID := addTestClient(t, testDB)

	quoteID, err := testDB.QuoteCreate(ctx, QuoteDraft{
		ClientID:    clientID,
		ProjectName: "Nave 20x40",
		Items:       sampleItems(),
	})
	if err != nil {
		t.Fatalf("unexpected quote create error: %v", err)
	}
	q, items, err := testDB.QuoteGet(ctx, quoteID)
	if err != nil {
		t.Fatalf("unexpected quote get error: %v", err)
	}

	if err := testDB.SnapshotInsert(ctx, quoteID, *q, items); err != nil {
		t.Fatalf("unexpected snapshot insert error: %v", err)
	}

	history, err := testDB.QuoteHistory(ctx, quoteID)
	if err != nil {
		t.Fatalf("unexpected history error: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history length got %d want 1", len(history))
	}
	if history[0].QuoteID != quoteID {
		t.Errorf("snapshot quote id got %q want %q", history[0].QuoteID, quoteID)
	}
	if diff := cmp.Diff(*q, history[0].Data.Quote); diff != "" {
		t.Errorf("snapshot quote mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(items, history[0].Data.Items); diff != "" {
		t.Errorf("snapshot items mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotHistoryNewestFirst(t *testing.T) {

	testDB := setupTestDB(t)
	ctx := context.Background()

	// Insert records with explicit timestamps; id breaks timestamp ties.
	for i, ts := range []string{
		"2030-06-01T09:00:00Z",
		"2030-06-01T11:30:00Z",
		"2030-06-01T10:15:00Z",
	} {
		_, err := testDB.ExecContext(ctx, `
			INSERT INTO quote_history (quote_id, snapshot_date, snapshot_data)
			VALUES ('COT-2030-001', ?, ?)`,
			ts, `{"quote_id":"COT-2030-001","snapshot_date":"`+ts+`","data":{"quote":{},"items":[]}}`)
		if err != nil {
			t.Fatalf("unexpected insert %d error: %v", i, err)
		}
	}

	history, err := testDB.QuoteHistory(ctx, "COT-2030-001")
	if err != nil {
		t.Fatalf("unexpected history error: %v", err)
	}
	var dates []string
	for _, s := range history {
		dates = append(dates, s.SnapshotDate)
	}
	want := []string{
		"2030-06-01T11:30:00Z",
		"2030-06-01T10:15:00Z",
		"2030-06-01T09:00:00Z",
	}
	if diff := cmp.Diff(want, dates); diff != "" {
		t.Errorf("history order mismatch (-want +got):\n%s", diff)
	}
}

// History outlives both the invoice rename and deletion of the quote.
func TestSnapshotSurvivesRenameAndDelete(t *testing.T) {

	testDB := setupTestDB(t)
	ctx := context.Background()
	clientID := addTestClient(t, testDB)

	quoteID, err := testDB.QuoteCreate(ctx, QuoteDraft{ClientID: clientID, Items: sampleItems()})
	if err != nil {
		t.Fatalf("unexpected quote create error: %v", err)
	}
	q, items, err := testDB.QuoteGet(ctx, quoteID)
	if err != nil {
		t.Fatalf("unexpected quote get error: %v", err)
	}
	if err := testDB.SnapshotInsert(ctx, quoteID, *q, items); err != nil {
		t.Fatalf("unexpected snapshot insert error: %v", err)
	}

	invoiceID, err := testDB.QuoteInvoice(ctx, quoteID)
	if err != nil {
		t.Fatalf("unexpected conversion error: %v", err)
	}
	if err := testDB.QuoteDelete(ctx, invoiceID); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}

	history, err := testDB.QuoteHistory(ctx, quoteID)
	if err != nil {
		t.Fatalf("unexpected history error: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("history length got %d want 1", len(history))
	}

	// An identifier with no history returns an empty slice, not an error.
	none, err := testDB.QuoteHistory(ctx, "COT-1999-001")
	if err != nil {
		t.Fatalf("unexpected history error: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected empty history, got %d", len(none))
	}
}
