package api

import (
	"encoding/json"
	"fmt"

	"github.com/meropasal/pasal-cli/internal/apperr"
)

// statusError normalizes a non-2xx response into the shared error type.
func statusError(status int, body []byte) error {
	return apperr.FromResponse(status, body)
}

// transportError wraps a network-level failure.
func transportError(err error) error {
	return apperr.ErrTransport(err)
}

// envelope is the server's application-level response wrapper. A 2xx
// status code does not imply success; callers must branch on Status when
// the body carries one.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// DecodeEnvelope checks the {status, message, <payloadKey>} envelope and
// unmarshals the payload under payloadKey into v. A body whose status is
// not "success" is returned as an API error carrying the envelope
// message. v may be nil when the caller only needs the success check; a
// missing payload key leaves v untouched.
func DecodeEnvelope(resp *Response, payloadKey string, v any) error {
	var env envelope
	if err := json.Unmarshal(resp.Data, &env); err != nil {
		return apperr.ErrAPI(resp.StatusCode, "")
	}
	if env.Status != "success" {
		e := apperr.ErrAPI(resp.StatusCode, env.Message)
		return e
	}
	if v == nil || payloadKey == "" {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(resp.Data, &fields); err != nil {
		return apperr.ErrAPI(resp.StatusCode, "")
	}
	raw, ok := fields[payloadKey]
	if !ok || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return apperr.ErrAPI(resp.StatusCode, fmt.Sprintf("malformed %s payload", payloadKey))
	}
	return nil
}
