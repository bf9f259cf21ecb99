package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")

	// ErrNetwork wraps transport-level failures where no HTTP response was
	// received at all.
	ErrNetwork = errors.New("network error")

	// ErrSessionExpired is returned when a 401 could not be recovered by the
	// refresh flow. The store credentials have been cleared by the time the
	// caller sees it.
	ErrSessionExpired = errors.New("session expired")
)

// genericErrorMessage is the last-resort user-facing text when a failed
// response carries no usable message at all.
const genericErrorMessage = "Request failed. Please try again."

// messageExtractor attempts to pull a human-readable message out of an error
// response body. Returns false when the body does not carry the field.
type messageExtractor func(body []byte) (string, bool)

// messageExtractors is tried in order; the first hit wins. The backend's
// error payloads use one of {"message"}, {"error"}, {"detail"}.
var messageExtractors = []messageExtractor{
	fieldExtractor("message"),
	fieldExtractor("error"),
	fieldExtractor("detail"),
}

func fieldExtractor(field string) messageExtractor {
	return func(body []byte) (string, bool) {
		var payload map[string]json.RawMessage
		if err := json.Unmarshal(body, &payload); err != nil {
			return "", false
		}

		raw, ok := payload[field]
		if !ok {
			return "", false
		}

		var msg string
		if err := json.Unmarshal(raw, &msg); err != nil {
			return "", false
		}
		msg = strings.TrimSpace(msg)
		return msg, msg != ""
	}
}

// errorMessage resolves the user-facing text for a failure: structured body
// fields first, then the transport error's own message, then a generic
// fallback.
func errorMessage(body []byte, transportErr error) string {
	for _, extract := range messageExtractors {
		if msg, ok := extract(body); ok {
			return msg
		}
	}

	if transportErr != nil {
		if msg := strings.TrimSpace(transportErr.Error()); msg != "" {
			return msg
		}
	}

	return genericErrorMessage
}

// mapStatusError converts a non-2xx response into a sentinel-wrapped error
// carrying msg, so callers can branch on [errors.Is] while users see the
// extracted message.
func mapStatusError(resp *resty.Response, msg string) error {
	switch resp.StatusCode() {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, msg)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, msg)
	case http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", ErrInternalServerError, msg)
	case http.StatusBadGateway:
		return fmt.Errorf("%w: %s", ErrBadGateway, msg)
	default:
		return fmt.Errorf("http %d: %s", resp.StatusCode(), msg)
	}
}
