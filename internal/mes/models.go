// internal/mes/models.go
package mes

import "encoding/json"

// envelope is the wire shape of an MES response body. A 200 status alone is
// not success: the embedded Success flag decides.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Response is the terminal success result of a fetch: the HTTP status that
// carried it, the verbatim body text, and the extracted data record.
type Response struct {
	StatusCode int
	RawBody    string
	Message    string
	Data       *Record
}
