// Package apiclient wraps the Deepsearch, Finnhub and Slack REST APIs.
//
// Wrappers never return an error directly. Every call yields a Result that is
// either a Success carrying the response body or a Failure carrying a RequestError.
package apiclient

import (
	"encoding/json"
	"fmt"
)

// ErrorKind classifies a failed request
type ErrorKind string

const (
	KindRequest   ErrorKind = "request"
	KindTransport ErrorKind = "transport"
	KindStatus    ErrorKind = "status"
	KindDecode    ErrorKind = "decode"
	KindAPI       ErrorKind = "api"
)

// RequestError describes why a call failed. Status is zero unless a response arrived.
type RequestError struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// Result is the outcome of one API call
type Result struct {
	Body []byte
	err  *RequestError
}

// Success wraps a response body
func Success(body []byte) Result {
	return Result{Body: body}
}

// Failure builds a failed result
func Failure(kind ErrorKind, message string) Result {
	return Result{err: &RequestError{Kind: kind, Message: message}}
}

func statusFailure(status int, message string) Result {
	return Result{err: &RequestError{Kind: KindStatus, Status: status, Message: message}}
}

// OK reports whether the call succeeded
func (r Result) OK() bool {
	return r.err == nil
}

// Err returns the failure as an error, or nil on success
func (r Result) Err() error {
	if r.err == nil {
		return nil
	}
	return r.err
}

// Decode unmarshals a JSON body into v
func (r Result) Decode(v any) error {
	if r.err != nil {
		return r.err
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return &RequestError{Kind: KindDecode, Message: err.Error()}
	}
	return nil
}

// MarshalJSON emits the body for successes and an {"error": ...} object for failures
func (r Result) MarshalJSON() ([]byte, error) {
	if r.err != nil {
		return json.Marshal(map[string]any{
			"error":  r.err.Message,
			"kind":   r.err.Kind,
			"status": r.err.Status,
		})
	}
	if len(r.Body) == 0 || !json.Valid(r.Body) {
		return json.Marshal(string(r.Body))
	}
	return r.Body, nil
}
