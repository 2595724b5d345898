package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

var ErrInternal = fmt.Errorf("internal error")
var ErrRequest = fmt.Errorf("request error")
var ErrBadResponse = fmt.Errorf("bad response")

var ErrInvalidID = fmt.Errorf("invalid notion id")
var ErrInvalidToken = fmt.Errorf("invalid auth token")

var ErrSchemaFetch = fmt.Errorf("schema fetch failed")
var ErrSchemaPatch = fmt.Errorf("schema patch failed")
var ErrConversion = fmt.Errorf("conversion failed")
var ErrUnsupportedKind = fmt.Errorf("unsupported property kind")
var ErrReadOnly = fmt.Errorf("read only property kind")
var ErrInvalidOption = fmt.Errorf("invalid option")
var ErrValidation = fmt.Errorf("validation failed")

// Errors reported by the remote API, keyed by the "code" of its error body.
var ErrUnauthorized = fmt.Errorf("unauthorized")
var ErrRestrictedResource = fmt.Errorf("restricted resource")
var ErrNotFound = fmt.Errorf("not found")
var ErrRateLimited = fmt.Errorf("rate limited")
var ErrInvalidJSON = fmt.Errorf("invalid json")
var ErrInvalidRequestURL = fmt.Errorf("invalid request url")
var ErrInvalidRequest = fmt.Errorf("invalid request")
var ErrBadRequest = fmt.Errorf("bad request")
var ErrConflict = fmt.Errorf("conflict")
var ErrServiceUnavailable = fmt.Errorf("service unavailable")

var apiErrorCodes = map[string]error{
	"unauthorized":          ErrUnauthorized,
	"restricted_resource":   ErrRestrictedResource,
	"object_not_found":      ErrNotFound,
	"rate_limited":          ErrRateLimited,
	"invalid_json":          ErrInvalidJSON,
	"invalid_request_url":   ErrInvalidRequestURL,
	"invalid_request":       ErrInvalidRequest,
	"validation_error":      ErrBadRequest,
	"conflict_error":        ErrConflict,
	"internal_server_error": ErrInternal,
	"service_unavailable":   ErrServiceUnavailable,
}

type myError struct {
	msg    string
	target error
}

func (m myError) Error() string        { return m.msg }
func (m myError) Is(target error) bool { return target == m.target }

func New(target error, msg string) error {
	return &myError{
		msg:    msg,
		target: target,
	}
}

func NewNotFoundError(msg string) error {
	return New(ErrNotFound, msg)
}

func NewValidationError(msg string) error {
	return New(ErrValidation, msg)
}

func NewInvalidIDError(msg string) error {
	return New(ErrInvalidID, msg)
}

func NewInvalidTokenError(msg string) error {
	return New(ErrInvalidToken, msg)
}

// APIError is returned when the remote API answers with an error object.
type APIError struct {
	Status  int
	Code    string
	Message string

	target error
}

func (e APIError) Error() string {
	return fmt.Sprintf("notion api error %d (%s): %s", e.Status, e.Code, e.Message)
}

func (e APIError) Is(target error) bool {
	return target == e.target
}

// IsAPIErrorCode reports whether code is one of the error codes documented by the API
func IsAPIErrorCode(code string) bool {
	_, ok := apiErrorCodes[code]
	return ok
}

func NewErrorFromResponse(code int, contentType string, body []byte) error {
	report := &struct {
		Object  string `json:"object"`
		Status  int    `json:"status"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}{}

	err := json.Unmarshal(body, report)
	if err != nil {
		return fmt.Errorf("failed to process error response (status: %d, content-type: %s): %s (%w)", code, contentType, err.Error(), ErrBadResponse)
	}

	if target, ok := apiErrorCodes[report.Code]; ok {
		return APIError{Status: code, Code: report.Code, Message: report.Message, target: target}
	}

	target := ErrInternal
	if code == http.StatusNotFound {
		target = ErrNotFound
	} else if code >= http.StatusBadRequest && code < http.StatusInternalServerError {
		target = ErrBadRequest
	}

	return APIError{Status: code, Code: report.Code, Message: report.Message, target: target}
}
