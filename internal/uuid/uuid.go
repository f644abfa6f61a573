// Package uuid wraps github.com/google/uuid with gin binding support so
// that resource IDs can be bound directly from URI and query parameters.
package uuid

import (
	google_uuid "github.com/google/uuid"
)

// UUID is a google/uuid UUID that can be used in gin uri and form
// binding structs.
type UUID struct {
	google_uuid.UUID
}

// Nil is the zero UUID. Parameters that are not set bind to it.
var Nil UUID

// UnmarshalParam implements gin's binding.BindUnmarshaler. An empty
// parameter binds to Nil so that optional ID filters can be detected.
func (u *UUID) UnmarshalParam(param string) error {
	if param == "" {
		*u = Nil
		return nil
	}

	parsed, err := google_uuid.Parse(param)
	if err != nil {
		return err
	}

	*u = UUID{parsed}
	return nil
}
