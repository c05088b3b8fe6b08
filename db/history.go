package db

// history.go implements the append-only quote snapshot history. Snapshots
// are written immediately before a destructive edit of a Draft quote.
// Nothing prunes the history; unbounded growth is accepted.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cotizador/quote"
)

// Snapshot is one audit record of a quote's state at a point in time.
type Snapshot struct {
	QuoteID      string       `json:"quote_id"`
	SnapshotDate string       `json:"snapshot_date"`
	Data         SnapshotData `json:"data"`
}

// SnapshotData is the captured quote and line item state.
type SnapshotData struct {
	Quote Quote            `json:"quote"`
	Items []quote.LineItem `json:"items"`
}

// SnapshotInsert appends a snapshot of the given quote state. The record
// has no foreign key to quotes so it survives the quote's rename or
// deletion.
func (db *DB) SnapshotInsert(ctx context.Context, quoteID string, q Quote, items []quote.LineItem) error {
	timestamp := time.Now().Format(time.RFC3339)
	snapshot := Snapshot{
		QuoteID:      quoteID,
		SnapshotDate: timestamp,
		Data:         SnapshotData{Quote: q, Items: items},
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("snapshot marshal error: %w", err)
	}
	_, err = db.historyInsertStmt.ExecContext(ctx, map[string]any{
		"quote_id":      quoteID,
		"snapshot_date": timestamp,
		"snapshot_data": string(data),
	})
	if err != nil {
		return fmt.Errorf("snapshot insert error: %w", err)
	}
	return nil
}

// QuoteHistory returns the snapshots recorded for a quote identifier,
// newest first. An identifier with no history returns an empty slice.
func (db *DB) QuoteHistory(ctx context.Context, quoteID string) ([]Snapshot, error) {
	var rows []string
	err := db.historyGetStmt.SelectContext(ctx, &rows, map[string]any{"quote_id": quoteID})
	if err != nil {
		return nil, fmt.Errorf("quote history select error: %w", err)
	}
	snapshots := make([]Snapshot, 0, len(rows))
	for _, raw := range rows {
		var s Snapshot
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return nil, fmt.Errorf("quote history decode error: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, nil
}
