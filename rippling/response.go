package rippling

import (
	"encoding/json"
	"net/http"
	"slices"

	"github.com/go-resty/resty/v2"
)

// DefaultAcceptedStatuses are the statuses a response is parsed for unless
// the caller widens the set.
var DefaultAcceptedStatuses = []int{http.StatusOK, http.StatusCreated}

// Response wraps one received call together with the set of statuses that
// count as parseable.
type Response struct {
	method   string
	url      string
	status   int
	body     []byte
	accepted []int
}

func newResponse(method, url string, resp *resty.Response) Response {
	return Response{
		method:   method,
		url:      url,
		status:   resp.StatusCode(),
		body:     resp.Body(),
		accepted: slices.Clone(DefaultAcceptedStatuses),
	}
}

// WithAcceptedStatuses replaces the accepted-status set.
func (r Response) WithAcceptedStatuses(codes ...int) Response {
	next := r
	next.accepted = slices.Clone(codes)
	return next
}

// Accepts reports whether code is in the accepted-status set.
func (r Response) Accepts(code int) bool {
	return slices.Contains(r.accepted, code)
}

// Status returns the raw HTTP status code.
func (r Response) Status() int {
	return r.status
}

// Body returns a copy of the raw response body.
func (r Response) Body() []byte {
	return slices.Clone(r.body)
}

// IntoError converts the response into a rejected-status error regardless of
// its status.
func (r Response) IntoError() error {
	return &Error{
		Kind:       KindStatus,
		Method:     r.method,
		URL:        r.url,
		StatusCode: r.status,
		Body:       string(r.body),
	}
}

// Decode unmarshals the body into v when the status is accepted. A rejected
// status is reported without looking at the body.
func (r Response) Decode(v any) error {
	if !r.Accepts(r.status) {
		return r.IntoError()
	}
	if err := json.Unmarshal(r.body, v); err != nil {
		return &Error{
			Kind:       KindDecode,
			Method:     r.method,
			URL:        r.url,
			StatusCode: r.status,
			Body:       string(r.body),
			Err:        err,
		}
	}
	return nil
}

// ParseJSON decodes the response body into a T. See Response.Decode.
func ParseJSON[T any](r Response) (T, error) {
	var out T
	if err := r.Decode(&out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
