package quote

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ChargeFlags records which of the five fixed-rate overhead charges a quote
// includes. Each flag defaults to true.
//
// ChargeFlags implements sql.Scanner and driver.Valuer so the flags can be
// stored in the quotes table as a JSON string. Legacy or malformed stored
// values (the previous system stored a language-literal string) decode to
// the all-true default rather than an error.
type ChargeFlags struct {
	Supervision bool `json:"supervision"`
	Admin       bool `json:"admin"`
	Insurance   bool `json:"insurance"`
	Transport   bool `json:"transport"`
	Contingency bool `json:"contingency"`
}

// DefaultChargeFlags returns the all-true default.
func DefaultChargeFlags() ChargeFlags {
	return ChargeFlags{
		Supervision: true,
		Admin:       true,
		Insurance:   true,
		Transport:   true,
		Contingency: true,
	}
}

// UnmarshalJSON decodes the named-boolean record, defaulting any missing
// key to true so that records written before a flag existed keep charging
// it.
func (c *ChargeFlags) UnmarshalJSON(data []byte) error {
	aux := struct {
		Supervision *bool `json:"supervision"`
		Admin       *bool `json:"admin"`
		Insurance   *bool `json:"insurance"`
		Transport   *bool `json:"transport"`
		Contingency *bool `json:"contingency"`
	}{}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	deref := func(b *bool) bool {
		if b == nil {
			return true
		}
		return *b
	}
	c.Supervision = deref(aux.Supervision)
	c.Admin = deref(aux.Admin)
	c.Insurance = deref(aux.Insurance)
	c.Transport = deref(aux.Transport)
	c.Contingency = deref(aux.Contingency)
	return nil
}

// Scan implements sql.Scanner. A NULL, empty or malformed stored value
// yields the all-true default; decode failures are recovered locally and
// never surfaced.
func (c *ChargeFlags) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*c = DefaultChargeFlags()
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into ChargeFlags", value)
	}
	if len(raw) == 0 {
		*c = DefaultChargeFlags()
		return nil
	}
	var decoded ChargeFlags
	if err := json.Unmarshal(raw, &decoded); err != nil {
		*c = DefaultChargeFlags()
		return nil
	}
	*c = decoded
	return nil
}

// Value implements driver.Valuer, storing the flags as JSON.
func (c ChargeFlags) Value() (driver.Value, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
