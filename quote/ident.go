package quote

import (
	"fmt"
	"strconv"
	"strings"
)

// Quote and invoice identifier prefixes. An invoice keeps the year and
// numeric suffix of the quote it was converted from.
const (
	QuotePrefix   = "COT-"
	InvoicePrefix = "INV-"
)

// NextQuoteID produces the next sequential quote identifier for the given
// year, in the form "COT-{year}-{NNN}" with the suffix zero-padded to at
// least three digits. The existing slice should hold the quote IDs already
// allocated for the year; only the lexicographically greatest is
// considered. An unparsable suffix (corrupted data) falls back to the first
// identifier of the year.
//
// The read-then-increment scheme is not safe under concurrent allocators;
// callers are expected to run it inside the same transaction as the insert
// that consumes the identifier.
func NextQuoteID(year int, existing []string) string {
	prefix := fmt.Sprintf("%s%d-", QuotePrefix, year)
	first := prefix + "001"

	var max string
	for _, id := range existing {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		if id > max {
			max = id
		}
	}
	if max == "" {
		return first
	}
	n, err := strconv.Atoi(strings.TrimPrefix(max, prefix))
	if err != nil {
		return first
	}
	return fmt.Sprintf("%s%03d", prefix, n+1)
}

// InvoiceID derives the invoice identifier for a quote by swapping the
// "COT-" prefix for "INV-". Year and suffix are unchanged.
func InvoiceID(quoteID string) string {
	return strings.Replace(quoteID, QuotePrefix, InvoicePrefix, 1)
}
