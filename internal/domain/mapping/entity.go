package mapping

import "time"

// Mapping is a previously confirmed header layout. HeaderSignature is
// the ordered, lower-cased header list used as a fuzzy recall key;
// Fields maps each original header text to a canonical field name.
type Mapping struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	HeaderSignature []string          `json:"header_signature"`
	Fields          map[string]string `json:"fields"`
	CreatedAt       time.Time         `json:"created_at"`
}
