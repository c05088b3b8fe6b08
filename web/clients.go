package web

// Client endpoint handlers.

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"cotizador/db"
)

// handleClientsList serves GET /api/clients, optionally filtered by the
// "search" query parameter.
func (web *WebApp) handleClientsList() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		form := NewListForm()
		if err := DecodeURLParams(r, form); err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}

		var clients []db.Client
		var err error
		if form.SearchString != "" {
			clients, err = web.db.ClientSearch(ctx, form.SearchString)
		} else {
			clients, err = web.db.Clients(ctx)
		}
		if err != nil {
			web.ServerError(w, r, err)
			return
		}
		web.writeJSON(w, r, http.StatusOK, map[string]any{"clients": clients})
	})
}

// handleClientCreate serves POST /api/clients.
func (web *WebApp) handleClientCreate() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		var client db.Client
		if err := web.readJSON(r, &client); err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}

		validator := NewValidator()
		validator.Check(client.CompanyName != "", "company_name", "A company name must be provided.")
		if !validator.Valid() {
			web.validationError(w, validator)
			return
		}

		id, err := web.db.ClientAdd(ctx, client)
		if err != nil {
			web.ServerError(w, r, err)
			return
		}
		client.ID = id
		web.writeJSON(w, r, http.StatusCreated, client)
	})
}

// handleClientGet serves GET /api/clients/<id>.
func (web *WebApp) handleClientGet() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		id, err := clientIDVar(r)
		if err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}

		client, err := web.db.ClientGet(ctx, id)
		if errors.Is(err, db.ErrNotFound) {
			web.notFound(w, r, "client not found")
			return
		}
		if err != nil {
			web.ServerError(w, r, err)
			return
		}
		web.writeJSON(w, r, http.StatusOK, client)
	})
}

// handleClientUpdate serves PUT /api/clients/<id>.
func (web *WebApp) handleClientUpdate() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		id, err := clientIDVar(r)
		if err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}

		var client db.Client
		if err := web.readJSON(r, &client); err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}
		client.ID = id

		validator := NewValidator()
		validator.Check(client.CompanyName != "", "company_name", "A company name must be provided.")
		if !validator.Valid() {
			web.validationError(w, validator)
			return
		}

		err = web.db.ClientUpdate(ctx, client)
		if errors.Is(err, db.ErrNotFound) {
			web.notFound(w, r, "client not found")
			return
		}
		if err != nil {
			web.ServerError(w, r, err)
			return
		}
		web.writeJSON(w, r, http.StatusOK, client)
	})
}

// handleClientDelete serves DELETE /api/clients/<id>, removing the client
// together with its quotes and their line items.
func (web *WebApp) handleClientDelete() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		id, err := clientIDVar(r)
		if err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := web.db.ClientDelete(ctx, id); err != nil {
			web.ServerError(w, r, err)
			return
		}
		web.writeJSON(w, r, http.StatusOK, map[string]string{"status": "deleted"})
	})
}

// handleClientQuotes serves GET /api/clients/<id>/quotes, a paginated
// list of the client's quotes newest first.
func (web *WebApp) handleClientQuotes() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		id, err := clientIDVar(r)
		if err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}

		form := NewListForm()
		if err := DecodeURLParams(r, form); err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}
		validator := NewValidator()
		form.Validate(validator)

		quotes, err := web.db.QuotesForClient(ctx, id)
		if err != nil {
			web.ServerError(w, r, err)
			return
		}

		pagination, err := NewPagination(pageLen, len(quotes), form.Page, r.URL.Query())
		if err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}

		// Slice the page out of the full listing.
		start := form.Offset()
		if start > len(quotes) {
			start = len(quotes)
		}
		end := start + pageLen
		if end > len(quotes) {
			end = len(quotes)
		}

		web.writeJSON(w, r, http.StatusOK, map[string]any{
			"quotes":     quotes[start:end],
			"pagination": pagination,
		})
	})
}

// clientIDVar extracts the client id route parameter.
func clientIDVar(r *http.Request) (int64, error) {
	vars, err := validMuxVars(mux.Vars(r), "id")
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(vars["id"], 10, 64)
}
