package web

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/schema"
)

// ------------------------------------------------------------------------------
// Helpers
// ------------------------------------------------------------------------------

// Validator holds a map of validation errors, keyed by the form field name.
type Validator struct {
	Errors map[string]string
}

// NewValidator creates a new, initialized Validator.
func NewValidator() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid returns true if the Errors map is empty.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError adds an error message to the map for a given field if one
// doesn't already exist for that field.
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
	}
}

// Check is a helper for conditional validation. If `ok` is false, it
// calls AddError with the provided key and message.
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// FieldError is a helper to check if the specified field has triggered
// an error.
func (v *Validator) FieldError(field string) bool {
	_, ok := v.Errors[field]
	return ok
}

// ------------------------------------------------------------------------------
// URL parameter parsing, using gorilla mux.Vars
// ------------------------------------------------------------------------------

// validMuxVars checks that the required keys are in the url route variable parameters,
// such as the `id` in
//
//	"/api/quotes/{id:[A-Z]+-[0-9]+-[0-9]+}"
func validMuxVars(vars map[string]string, keys ...string) (map[string]string, error) {
	for _, key := range keys {
		if _, ok := vars[key]; !ok {
			return nil, fmt.Errorf("parameter %q missing", key)
		}
	}
	return vars, nil
}

// ------------------------------------------------------------------------------
// Forms
// ------------------------------------------------------------------------------

// LoginForm carries the POSTed login credentials.
type LoginForm struct {
	Username string `schema:"username"`
	Password string `schema:"password"`
}

// CheckLoginForm decodes the post data into a LoginForm.
func CheckLoginForm(postData url.Values) (*LoginForm, error) {
	var form LoginForm
	decoder := newSchemaDecoder()
	if err := decoder.Decode(&form, postData); err != nil {
		return nil, fmt.Errorf("post data decoding error: %v", err)
	}
	return &form, nil
}

// Validate checks LoginForm fields and populates Validator with any
// errors. Note that the `Check` is like an assertion of truth, if that
// fails, the provided message is recorded against the field.
func (f *LoginForm) Validate(v *Validator) {
	v.Check(f.Username != "", "username", "A username must be provided.")
	v.Check(f.Password != "", "password", "A password must be provided.")
}

// ListForm represents the URL query parameters for listing pages.
type ListForm struct {
	SearchString string `schema:"search"`
	Page         int    `schema:"page"`
}

// NewListForm creates a ListForm with defaults.
func NewListForm() *ListForm {
	return &ListForm{
		Page: 1, // 1-based pagination.
	}
}

// Validate checks ListForm fields.
func (f *ListForm) Validate(v *Validator) {
	if f.Page < 1 {
		f.Page = 1
	}
}

// Offset calculates the slice offset for (1-based) pagination.
func (f *ListForm) Offset() int {
	return (f.Page - 1) * pageLen
}

// ------------------------------------------------------------------------------
// General decoding funcs
// ------------------------------------------------------------------------------

// newSchemaDecoder creates a new schema.Decoder instance, ignoring any
// unknown keys in the source values.
func newSchemaDecoder() *schema.Decoder {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return decoder
}

// DecodeURLParams is helper that decodes URL query parameters from a request
// into a destination struct (dst).
func DecodeURLParams(r *http.Request, dst any) error {
	decoder := newSchemaDecoder()
	if err := decoder.Decode(dst, r.URL.Query()); err != nil {
		return fmt.Errorf("url parameter decoding error: %v", err)
	}
	return nil
}
