package web

// Quote endpoint handlers. Identifiers look like COT-2030-001 for drafts
// and INV-2030-001 once invoiced.

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"cotizador/db"
	"cotizador/quote"
	"cotizador/render"
)

// quoteResponse is the JSON body for a quote with its line items and
// recomputed totals.
type quoteResponse struct {
	Quote  db.Quote         `json:"quote"`
	Items  []quote.LineItem `json:"items"`
	Totals quote.Totals     `json:"totals"`
}

// handleQuoteCreate serves POST /api/quotes, allocating the next quote
// identifier and storing the draft.
func (web *WebApp) handleQuoteCreate() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		draft, validator, err := web.readQuoteDraft(r)
		if err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}
		if !validator.Valid() {
			web.validationError(w, validator)
			return
		}

		if _, err := web.db.ClientGet(ctx, draft.ClientID); errors.Is(err, db.ErrNotFound) {
			web.clientError(w, "client not found", http.StatusUnprocessableEntity)
			return
		} else if err != nil {
			web.ServerError(w, r, err)
			return
		}

		quoteID, err := web.db.QuoteCreate(ctx, *draft)
		if err != nil {
			web.ServerError(w, r, err)
			return
		}
		web.quoteJSON(w, r, quoteID, http.StatusCreated)
	})
}

// handleQuoteGet serves GET /api/quotes/<id>.
func (web *WebApp) handleQuoteGet() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		quoteID, err := quoteIDVar(r)
		if err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}
		web.quoteJSON(w, r, quoteID, http.StatusOK)
	})
}

// handleQuoteUpdate serves PUT /api/quotes/<id>. The stored state is
// snapshotted to the history table before the update is applied, so the
// history records every pre-change version.
func (web *WebApp) handleQuoteUpdate() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		quoteID, err := quoteIDVar(r)
		if err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}

		draft, validator, err := web.readQuoteDraft(r)
		if err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}
		if !validator.Valid() {
			web.validationError(w, validator)
			return
		}

		// Snapshot the stored state before changing it.
		current, items, err := web.db.QuoteGet(ctx, quoteID)
		if errors.Is(err, db.ErrNotFound) {
			web.notFound(w, r, "quote not found")
			return
		}
		if err != nil {
			web.ServerError(w, r, err)
			return
		}
		if err := web.db.SnapshotInsert(ctx, quoteID, *current, items); err != nil {
			web.ServerError(w, r, err)
			return
		}

		err = web.db.QuoteUpdate(ctx, quoteID, *draft)
		if errors.Is(err, db.ErrNotFound) {
			web.notFound(w, r, "quote not found")
			return
		}
		if err != nil {
			web.ServerError(w, r, err)
			return
		}
		web.quoteJSON(w, r, quoteID, http.StatusOK)
	})
}

// handleQuoteDelete serves DELETE /api/quotes/<id>.
func (web *WebApp) handleQuoteDelete() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		quoteID, err := quoteIDVar(r)
		if err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := web.db.QuoteDelete(ctx, quoteID); err != nil {
			web.ServerError(w, r, err)
			return
		}
		web.writeJSON(w, r, http.StatusOK, map[string]string{"status": "deleted"})
	})
}

// handleQuoteInvoice serves POST /api/quotes/<id>/invoice, converting a
// draft quote to an invoice.
func (web *WebApp) handleQuoteInvoice() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		quoteID, err := quoteIDVar(r)
		if err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}

		invoiceID, err := web.db.QuoteInvoice(ctx, quoteID)
		if errors.Is(err, db.ErrNotFound) {
			web.notFound(w, r, "quote not found")
			return
		}
		if errors.Is(err, quote.ErrAlreadyInvoiced) {
			web.clientError(w, "quote is already invoiced", http.StatusConflict)
			return
		}
		if err != nil {
			web.ServerError(w, r, err)
			return
		}
		web.quoteJSON(w, r, invoiceID, http.StatusOK)
	})
}

// handleQuoteDuplicate serves POST /api/quotes/<id>/duplicate, copying
// the quote to a fresh draft under a newly allocated identifier.
func (web *WebApp) handleQuoteDuplicate() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		quoteID, err := quoteIDVar(r)
		if err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}

		copyID, err := web.db.QuoteDuplicate(ctx, quoteID)
		if errors.Is(err, db.ErrNotFound) {
			web.notFound(w, r, "quote not found")
			return
		}
		if err != nil {
			web.ServerError(w, r, err)
			return
		}
		web.quoteJSON(w, r, copyID, http.StatusCreated)
	})
}

// handleQuoteHistory serves GET /api/quotes/<id>/history, newest first.
func (web *WebApp) handleQuoteHistory() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		quoteID, err := quoteIDVar(r)
		if err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}

		snapshots, err := web.db.QuoteHistory(ctx, quoteID)
		if err != nil {
			web.ServerError(w, r, err)
			return
		}
		web.writeJSON(w, r, http.StatusOK, map[string]any{"history": snapshots})
	})
}

// handleQuoteDocument serves GET /api/quotes/<id>/document, the payload
// for an external document renderer.
func (web *WebApp) handleQuoteDocument() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		quoteID, err := quoteIDVar(r)
		if err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}

		doc, err := render.NewDocument(ctx, web.db, quoteID)
		if errors.Is(err, db.ErrNotFound) {
			web.notFound(w, r, "quote not found")
			return
		}
		if err != nil {
			web.ServerError(w, r, err)
			return
		}
		web.writeJSON(w, r, http.StatusOK, doc)
	})
}

/* -------------------------------------------------------------------------- */
// Helpers
/* -------------------------------------------------------------------------- */

// quoteJSON writes the quote, its items and recomputed totals.
func (web *WebApp) quoteJSON(w http.ResponseWriter, r *http.Request, quoteID string, status int) {
	q, items, err := web.db.QuoteGet(r.Context(), quoteID)
	if errors.Is(err, db.ErrNotFound) {
		web.notFound(w, r, "quote not found")
		return
	}
	if err != nil {
		web.ServerError(w, r, err)
		return
	}
	web.writeJSON(w, r, status, quoteResponse{
		Quote:  *q,
		Items:  items,
		Totals: quote.CalculateTotals(items, q.IncludedCharges),
	})
}

// readQuoteDraft decodes and validates a quote draft request body.
func (web *WebApp) readQuoteDraft(r *http.Request) (*db.QuoteDraft, *Validator, error) {
	var draft db.QuoteDraft
	draft.IncludedCharges = quote.DefaultChargeFlags()
	if err := web.readJSON(r, &draft); err != nil {
		return nil, nil, err
	}

	validator := NewValidator()
	validator.Check(draft.ClientID > 0, "client_id", "A client must be provided.")
	validator.Check(draft.ProjectName != "", "project_name", "A project name must be provided.")
	for _, item := range draft.Items {
		if item.ProductName == "" {
			validator.AddError("items", "Every line item needs a product name.")
		}
		if item.Quantity <= 0 {
			validator.AddError("items", "Every line item needs a positive quantity.")
		}
	}
	return &draft, validator, nil
}

// quoteIDVar extracts the quote identifier route parameter.
func quoteIDVar(r *http.Request) (string, error) {
	vars, err := validMuxVars(mux.Vars(r), "id")
	if err != nil {
		return "", err
	}
	return vars["id"], nil
}
