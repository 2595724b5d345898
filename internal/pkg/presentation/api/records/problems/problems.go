package problems

import (
	"encoding/json"
	"errors"
	"net/http"

	notionerrors "github.com/diwise/notion-sugar/pkg/notion/errors"
)

// ProblemReportContentType as required by https://tools.ietf.org/html/rfc7807
const ProblemReportContentType string = "application/problem+json"

const typePrefix string = "https://diwise.io/notion-sugar/errors/"

// ProblemDetails stores details about a problem according to RFC7807
type ProblemDetails struct {
	typ     string
	title   string
	detail  string
	code    int
	traceID string
}

func newProblem(name, title, detail string, code int) *ProblemDetails {
	return &ProblemDetails{
		typ:    typePrefix + name,
		title:  title,
		detail: detail,
		code:   code,
	}
}

func NewBadRequest(detail string) *ProblemDetails {
	return newProblem("BadRequest", "Bad Request", detail, http.StatusBadRequest)
}

func NewNotFound(detail string) *ProblemDetails {
	return newProblem("NotFound", "Not Found", detail, http.StatusNotFound)
}

func NewUnauthorized(detail string) *ProblemDetails {
	return newProblem("Unauthorized", "Unauthorized", detail, http.StatusUnauthorized)
}

func NewTooManyRequests(detail string) *ProblemDetails {
	return newProblem("TooManyRequests", "Too Many Requests", detail, http.StatusTooManyRequests)
}

// NewBadGateway reports that Notion refused or failed a request that was valid on our side
func NewBadGateway(detail string) *ProblemDetails {
	return newProblem("BadGateway", "Bad Gateway", detail, http.StatusBadGateway)
}

func NewInternalError(detail string) *ProblemDetails {
	return newProblem("InternalError", "Internal Error", detail, http.StatusInternalServerError)
}

// FromError maps an error from the application layer to a problem
func FromError(err error) *ProblemDetails {
	switch {
	case errors.Is(err, notionerrors.ErrNotFound):
		return NewNotFound(err.Error())
	case errors.Is(err, notionerrors.ErrValidation),
		errors.Is(err, notionerrors.ErrInvalidID),
		errors.Is(err, notionerrors.ErrBadRequest),
		errors.Is(err, notionerrors.ErrInvalidJSON),
		errors.Is(err, notionerrors.ErrInvalidRequest):
		return NewBadRequest(err.Error())
	case errors.Is(err, notionerrors.ErrRateLimited):
		return NewTooManyRequests(err.Error())
	case errors.Is(err, notionerrors.ErrUnauthorized),
		errors.Is(err, notionerrors.ErrRestrictedResource),
		errors.Is(err, notionerrors.ErrRequest),
		errors.Is(err, notionerrors.ErrServiceUnavailable):
		return NewBadGateway(err.Error())
	default:
		return NewInternalError(err.Error())
	}
}

func (p *ProblemDetails) WithTraceID(traceID string) *ProblemDetails {
	p.traceID = traceID
	return p
}

func (p *ProblemDetails) Type() string   { return p.typ }
func (p *ProblemDetails) Title() string  { return p.title }
func (p *ProblemDetails) Detail() string { return p.detail }

func (p *ProblemDetails) ContentType() string {
	return ProblemReportContentType
}

func (p *ProblemDetails) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string `json:"type"`
		Title   string `json:"title"`
		Status  int    `json:"status"`
		Detail  string `json:"detail"`
		TraceID string `json:"traceId,omitempty"`
	}{
		Type:    p.typ,
		Title:   p.title,
		Status:  p.ResponseCode(),
		Detail:  p.detail,
		TraceID: p.traceID,
	})
}

// ResponseCode returns the HTTP response code to be used when returning the problem
func (p *ProblemDetails) ResponseCode() int {
	if p.code != 0 {
		return p.code
	}

	return http.StatusBadRequest
}

// WriteResponse writes the problem to w
func (p *ProblemDetails) WriteResponse(w http.ResponseWriter) {
	w.Header().Add("Content-Type", p.ContentType())
	w.Header().Add("Content-Language", "en")
	w.WriteHeader(p.ResponseCode())

	pdbytes, err := json.MarshalIndent(p, "", "  ")
	if err == nil {
		w.Write(pdbytes)
	}
}
