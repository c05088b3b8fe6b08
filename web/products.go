package web

// Product endpoint handlers.

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"cotizador/catalog"
	"cotizador/db"
)

// handleProductsList serves GET /api/products.
func (web *WebApp) handleProductsList() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		products, err := web.db.Products(ctx)
		if err != nil {
			web.ServerError(w, r, err)
			return
		}
		web.writeJSON(w, r, http.StatusOK, map[string]any{"products": products})
	})
}

// handleProductCreate serves POST /api/products.
func (web *WebApp) handleProductCreate() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		var product db.Product
		if err := web.readJSON(r, &product); err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}

		validator := NewValidator()
		validateProduct(product, validator)
		if !validator.Valid() {
			web.validationError(w, validator)
			return
		}

		id, err := web.db.ProductAdd(ctx, product)
		if errors.Is(err, db.ErrProductExists) {
			web.clientError(w, "a product with that name already exists", http.StatusConflict)
			return
		}
		if err != nil {
			web.ServerError(w, r, err)
			return
		}
		product.ID = id
		web.writeJSON(w, r, http.StatusCreated, product)
	})
}

// handleProductUpdate serves PUT /api/products/<id>.
func (web *WebApp) handleProductUpdate() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		id, err := productIDVar(r)
		if err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}

		var product db.Product
		if err := web.readJSON(r, &product); err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}
		product.ID = id

		validator := NewValidator()
		validateProduct(product, validator)
		if !validator.Valid() {
			web.validationError(w, validator)
			return
		}

		err = web.db.ProductUpdate(ctx, product)
		if errors.Is(err, db.ErrProductExists) {
			web.clientError(w, "a product with that name already exists", http.StatusConflict)
			return
		}
		if errors.Is(err, db.ErrNotFound) {
			web.notFound(w, r, "product not found")
			return
		}
		if err != nil {
			web.ServerError(w, r, err)
			return
		}
		web.writeJSON(w, r, http.StatusOK, product)
	})
}

// handleProductDelete serves DELETE /api/products/<id>.
func (web *WebApp) handleProductDelete() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		id, err := productIDVar(r)
		if err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := web.db.ProductDelete(ctx, id); err != nil {
			web.ServerError(w, r, err)
			return
		}
		web.writeJSON(w, r, http.StatusOK, map[string]string{"status": "deleted"})
	})
}

// handleProductsExport serves GET /api/products/export?format=csv|xlsx,
// streaming the catalog as a download in the same layout the catalog
// sync reads.
func (web *WebApp) handleProductsExport() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		format := r.URL.Query().Get("format")
		if format == "" {
			format = "csv"
		}
		if format != "csv" && format != "xlsx" {
			web.clientError(w, "format must be csv or xlsx", http.StatusBadRequest)
			return
		}

		products, err := web.db.Products(ctx)
		if err != nil {
			web.ServerError(w, r, err)
			return
		}

		if format == "xlsx" {
			w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			w.Header().Set("Content-Disposition", "attachment; filename=products.xlsx")
			err = catalog.ExportExcel(w, products)
		} else {
			w.Header().Set("Content-Type", "text/csv")
			w.Header().Set("Content-Disposition", "attachment; filename=products.csv")
			err = catalog.ExportCSV(w, products)
		}
		if err != nil {
			web.log.Printf("product export error: %v", err)
		}
	})
}

// validateProduct records field errors for a product payload.
func validateProduct(p db.Product, v *Validator) {
	v.Check(p.Name != "", "name", "A product name must be provided.")
	v.Check(p.UnitPrice > 0, "unit_price", "The unit price must be greater than zero.")
}

// productIDVar extracts the product id route parameter.
func productIDVar(r *http.Request) (int64, error) {
	vars, err := validMuxVars(mux.Vars(r), "id")
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(vars["id"], 10, 64)
}
