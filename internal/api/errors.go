package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNoCredential is returned when an authenticated call is attempted while
// the session store is empty. No request is issued in that case.
var ErrNoCredential = errors.New("no credential in session")

// notLinkedMarker is the detail substring the backend uses for accounts that
// exist but have no linked products yet.
const notLinkedMarker = "User not linked"

// APIError is a non-2xx response. The status code and the parsed body are
// both kept so callers can branch on specific failures.
type APIError struct {
	Status int
	Data   json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: status %d", e.Status)
}

// Detail returns the backend's "detail" field, if the error payload has one.
func (e *APIError) Detail() string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(e.Data, &payload); err != nil {
		return ""
	}
	return payload.Detail
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, status int) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == status
}

// IsNotLinked reports whether err is the 403 the backend returns for an
// account with no linked products.
func IsNotLinked(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == http.StatusForbidden &&
		strings.Contains(ae.Detail(), notLinkedMarker)
}
