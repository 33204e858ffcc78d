// Package rest holds the request/response JSON helpers shared by all HTTP
// handlers.
package rest

import (
	"encoding/json"
	"errors"
	"net/http"
)

type Envelope map[string]any

// ReadJSON decodes the request body into dst. Unknown fields are tolerated,
// an empty body is not.
func ReadJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("malformed request body")
	}

	return nil
}

func WriteJSON(w http.ResponseWriter, status int, data Envelope) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)

	return nil
}
