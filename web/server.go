package web

// This file describes the web server for this project.
//
// Note that modules called by this server should provide self-describing errors since
// these are sent directly to an internal server error func:
//
//	web.ServerError(w, r, err)
//
// This web server also sets out each endpoint handler as a HandlerFunc. This allows for
// the router to provide arguments to the handler, as discussed in Mat Ryer's post at
//
//	https://grafana.com/blog/how-i-write-http-services-in-go-after-13-years/
//
// Helper functions, such as `ServerError` and `clientError` are at the end of the file.

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"cotizador/config"
	"cotizador/db"
)

// pageLen is the number of quotes to show in a page listing.
const pageLen = 15

// WebApp is the configuration object for the web server.
type WebApp struct {
	log      *log.Logger
	cfg      *config.Config
	db       *db.DB
	sessions *scs.SessionManager
	server   *http.Server
}

// New initialises a WebApp.
func New(logger *log.Logger, cfg *config.Config, db *db.DB) (*WebApp, error) {
	if cfg.Web.Username == "" || cfg.Web.Password == "" {
		return nil, errors.New("web username and password must be configured")
	}

	sessions := scs.New()
	sessions.Lifetime = cfg.SessionTTL
	sessions.Cookie.HttpOnly = true
	sessions.Cookie.SameSite = http.SameSiteLaxMode

	// Add settings for the http server.
	server := &http.Server{
		Addr:              cfg.Web.ListenAddress,
		ReadHeaderTimeout: time.Duration(30 * time.Second),
		WriteTimeout:      time.Duration(30 * time.Second),
		MaxHeaderBytes:    1 << 19, // 100k ish
	}

	webApp := &WebApp{
		log:      logger,
		cfg:      cfg,
		db:       db,
		sessions: sessions,
		server:   server,
	}
	return webApp, nil
}

// StartServer starts a WebApp.
func (web *WebApp) StartServer() error {
	web.server.Handler = web.routes()
	web.log.Printf("Starting server on %s", web.cfg.Web.ListenAddress)
	return web.server.ListenAndServe()
}

// routes connects all of the endpoints and provides middleware.
func (web *WebApp) routes() http.Handler {

	r := mux.NewRouter()

	r.Handle("/login", web.handleLogin()).Methods("POST")
	r.Handle("/logout", web.handleLogout()).Methods("POST")

	// Clients.
	r.Handle(
		"/api/clients",
		web.loggedInOK(web.handleClientsList()),
	).Methods("GET")
	r.Handle(
		"/api/clients",
		web.loggedInOK(web.handleClientCreate()),
	).Methods("POST")
	r.Handle(
		"/api/clients/{id:[0-9]+}",
		web.loggedInOK(web.handleClientGet()),
	).Methods("GET")
	r.Handle(
		"/api/clients/{id:[0-9]+}",
		web.loggedInOK(web.handleClientUpdate()),
	).Methods("PUT")
	r.Handle(
		"/api/clients/{id:[0-9]+}",
		web.loggedInOK(web.handleClientDelete()),
	).Methods("DELETE")
	r.Handle(
		"/api/clients/{id:[0-9]+}/quotes",
		web.loggedInOK(web.handleClientQuotes()),
	).Methods("GET")

	// Products.
	r.Handle(
		"/api/products",
		web.loggedInOK(web.handleProductsList()),
	).Methods("GET")
	r.Handle(
		"/api/products",
		web.loggedInOK(web.handleProductCreate()),
	).Methods("POST")
	r.Handle(
		"/api/products/{id:[0-9]+}",
		web.loggedInOK(web.handleProductUpdate()),
	).Methods("PUT")
	r.Handle(
		"/api/products/{id:[0-9]+}",
		web.loggedInOK(web.handleProductDelete()),
	).Methods("DELETE")
	r.Handle(
		"/api/products/export",
		web.loggedInOK(web.handleProductsExport()),
	).Methods("GET")

	// Quotes.
	// Note that quote identifiers look like COT-2030-001 or INV-2030-001.
	r.Handle(
		"/api/quotes",
		web.loggedInOK(web.handleQuoteCreate()),
	).Methods("POST")
	r.Handle(
		"/api/quotes/{id:[A-Z]+-[0-9]+-[0-9]+}",
		web.loggedInOK(web.handleQuoteGet()),
	).Methods("GET")
	r.Handle(
		"/api/quotes/{id:[A-Z]+-[0-9]+-[0-9]+}",
		web.loggedInOK(web.handleQuoteUpdate()),
	).Methods("PUT")
	r.Handle(
		"/api/quotes/{id:[A-Z]+-[0-9]+-[0-9]+}",
		web.loggedInOK(web.handleQuoteDelete()),
	).Methods("DELETE")
	r.Handle(
		"/api/quotes/{id:[A-Z]+-[0-9]+-[0-9]+}/invoice",
		web.loggedInOK(web.handleQuoteInvoice()),
	).Methods("POST")
	r.Handle(
		"/api/quotes/{id:[A-Z]+-[0-9]+-[0-9]+}/duplicate",
		web.loggedInOK(web.handleQuoteDuplicate()),
	).Methods("POST")
	r.Handle(
		"/api/quotes/{id:[A-Z]+-[0-9]+-[0-9]+}/history",
		web.loggedInOK(web.handleQuoteHistory()),
	).Methods("GET")
	r.Handle(
		"/api/quotes/{id:[A-Z]+-[0-9]+-[0-9]+}/document",
		web.loggedInOK(web.handleQuoteDocument()),
	).Methods("GET")

	logging := handlers.LoggingHandler(os.Stdout, r)
	return web.sessions.LoadAndSave(enforceCSRF(logging))
}

// loggedInOK checks whether the user has a logged-in session. If not, a 401 is
// returned.
func (web *WebApp) loggedInOK(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !web.sessions.GetBool(r.Context(), "authenticated") {
			web.clientError(w, "login required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleLogin serves POST /login, checking the configured credentials and
// marking the session authenticated.
func (web *WebApp) handleLogin() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := r.ParseForm(); err != nil {
			web.clientError(w, fmt.Sprintf("invalid POST request: %v", err), http.StatusBadRequest)
			return
		}
		form, err := CheckLoginForm(r.PostForm)
		if err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}
		validator := NewValidator()
		form.Validate(validator)
		if !validator.Valid() {
			web.validationError(w, validator)
			return
		}

		if form.Username != web.cfg.Web.Username || form.Password != web.cfg.Web.Password {
			web.clientError(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		// Renew the token on privilege change.
		if err := web.sessions.RenewToken(ctx); err != nil {
			web.ServerError(w, r, err)
			return
		}
		web.sessions.Put(ctx, "authenticated", true)
		web.writeJSON(w, r, http.StatusOK, map[string]string{"status": "logged in"})
	})
}

// handleLogout serves POST /logout.
func (web *WebApp) handleLogout() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := web.sessions.Destroy(r.Context()); err != nil {
			web.ServerError(w, r, err)
			return
		}
		web.writeJSON(w, r, http.StatusOK, map[string]string{"status": "logged out"})
	})
}

/* -------------------------------------------------------------------------- */
// Helpers
/* -------------------------------------------------------------------------- */

// errorResponse is the JSON body for error returns.
type errorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// writeJSON marshals data to the response writer, buffering so that a
// marshalling failure can still return a server error.
func (web *WebApp) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(data); err != nil {
		web.ServerError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// readJSON decodes a JSON request body into dst.
func (web *WebApp) readJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("request body decoding error: %w", err)
	}
	return nil
}

// ServerError logs and return an internal server error. The error should contain the
// information needed for logging.
func (web *WebApp) ServerError(w http.ResponseWriter, r *http.Request, errs ...error) {
	err := errors.Join(errs...)
	web.log.Printf("%s method %s uri %s", err.Error(), r.Method, r.URL.RequestURI())
	writeJSONError(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// clientError returns a client error.
func (web *WebApp) clientError(w http.ResponseWriter, message string, status int) {
	if message == "" {
		message = http.StatusText(status)
	}
	writeJSONError(w, message, status)
}

// validationError returns the validator's field errors as a 422.
func (web *WebApp) validationError(w http.ResponseWriter, v *Validator) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: "validation failed", Details: v.Errors})
}

// notFound raises a 404 clientError.
func (web *WebApp) notFound(w http.ResponseWriter, r *http.Request, message string) {
	web.clientError(w, message, http.StatusNotFound)
}

func writeJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message})
}
