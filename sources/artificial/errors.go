package artificial

import (
	"errors"
	"fmt"
)

var ErrEmptyModelCatalog = errors.New("model catalog is empty")

type TemplateNotFoundError struct {
	Kind string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template not found: %q", e.Kind)
}

func IsTemplateNotFound(err error) bool {
	var target *TemplateNotFoundError
	return errors.As(err, &target)
}

type MissingParameterError struct {
	Kind string
	Key  string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("template %q requires parameter %q", e.Kind, e.Key)
}

func IsMissingParameter(err error) bool {
	var target *MissingParameterError
	return errors.As(err, &target)
}

// ParameterArityError is returned when a per-index parameter does not match the batch size,
// or when the batch size itself is negative (Key is "count").
type ParameterArityError struct {
	Key    string
	Count  int
	Length int
}

func (e *ParameterArityError) Error() string {
	if e.Key == countKey {
		return fmt.Sprintf("batch count must not be negative, got %d", e.Count)
	}
	return fmt.Sprintf("parameter %q has %d values for a batch of %d", e.Key, e.Length, e.Count)
}

func IsParameterArity(err error) bool {
	var target *ParameterArityError
	return errors.As(err, &target)
}

// BackendProtocolError means the backend answered with a success status but the body was unusable.
type BackendProtocolError struct {
	Model  string
	Reason string
	Err    error
}

func (e *BackendProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend protocol error (model %s): %s: %v", e.Model, e.Reason, e.Err)
	}
	return fmt.Sprintf("backend protocol error (model %s): %s", e.Model, e.Reason)
}

func (e *BackendProtocolError) Unwrap() error {
	return e.Err
}

func IsBackendProtocol(err error) bool {
	var target *BackendProtocolError
	return errors.As(err, &target)
}

// BackendRequestError is a rejected request or a transport failure; StatusCode is 0 for the latter.
type BackendRequestError struct {
	Model      string
	StatusCode int
	Err        error
}

func (e *BackendRequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("backend request failed (model %s): %v", e.Model, e.Err)
	}
	return fmt.Sprintf("backend rejected request (model %s, status %d): %v", e.Model, e.StatusCode, e.Err)
}

func (e *BackendRequestError) Unwrap() error {
	return e.Err
}

func IsBackendRequest(err error) bool {
	var target *BackendRequestError
	return errors.As(err, &target)
}

type RetriesExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Last)
}

func (e *RetriesExhaustedError) Unwrap() error {
	return e.Last
}

func IsRetriesExhausted(err error) bool {
	var target *RetriesExhaustedError
	return errors.As(err, &target)
}

// transientError marks an attempt worth repeating after a backoff.
type transientError struct {
	model      string
	statusCode int
	reason     string
	empty      bool
}

func (e *transientError) Error() string {
	if e.statusCode != 0 {
		return fmt.Sprintf("transient backend failure (model %s, status %d): %s", e.model, e.statusCode, e.reason)
	}
	return fmt.Sprintf("transient backend failure (model %s): %s", e.model, e.reason)
}

func isTransient(err error) bool {
	var target *transientError
	return errors.As(err, &target)
}

// isEmptyCompletion reports whether err, possibly an exhausted retry, ended on a blank completion.
func isEmptyCompletion(err error) bool {
	var target *transientError
	return errors.As(err, &target) && target.empty
}
