// Package models holds the client-side records exchanged with the backend.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexID is an identifier the backend emits either as a JSON string or as a
// JSON number. It always encodes back as a string.
type FlexID string

// UnmarshalJSON accepts "42", 42 and null (which leaves the id empty).
func (id *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return fmt.Errorf("id must be an integer: %w", err)
	}
	*id = FlexID(n.String())
	return nil
}

func (id FlexID) String() string { return string(id) }

// User is the identity record returned by the backend at login. The session
// core treats it as opaque apart from ID, which must be present.
type User struct {
	ID          FlexID `json:"id"`
	UserContact string `json:"user_contact"`
	VendorID    FlexID `json:"vendor_id,omitempty"`
	UserType    string `json:"user_type"`
}

// Valid reports whether the record carries an identifier.
func (u User) Valid() bool {
	return u.ID != ""
}

// LoginResult is the backend's answer to a successful credential exchange.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
