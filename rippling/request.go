package rippling

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Request describes one outgoing call. It is a value: every With* method
// returns a configured copy and leaves the receiver untouched.
type Request struct {
	client *Client
	method string
	url    *url.URL
	header http.Header
	params url.Values
}

// WithBearerAuth sets the Authorization header to a bearer credential.
func (r Request) WithBearerAuth(token string) Request {
	return r.WithHeader("Authorization", "Bearer "+token)
}

// WithHeader sets one header. Setting the same name twice keeps the last value.
func (r Request) WithHeader(name, value string) Request {
	next := r
	next.header = r.header.Clone()
	if next.header == nil {
		next.header = http.Header{}
	}
	next.header.Set(name, value)
	return next
}

// WithParam sets one query parameter. Setting the same name twice keeps the
// last value.
func (r Request) WithParam(name, value string) Request {
	next := r
	next.params = cloneValues(r.params)
	next.params.Set(name, value)
	return next
}

// Method returns the HTTP method.
func (r Request) Method() string {
	return r.method
}

// URL returns the fully resolved URL including query parameters.
func (r Request) URL() string {
	u := *r.url
	q := u.Query()
	for k, v := range r.params {
		q[k] = append([]string(nil), v...)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Header returns a copy of the headers that will be sent.
func (r Request) Header() http.Header {
	return r.header.Clone()
}

// Send dispatches the request without a body.
func (r Request) Send(ctx context.Context) (Response, error) {
	return r.execute(ctx, nil)
}

// SendJSON encodes payload as JSON and dispatches it as the request body.
func (r Request) SendJSON(ctx context.Context, payload any) (Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Response{}, fmt.Errorf("failed to encode request body: %w", err)
	}
	return r.WithHeader("Content-Type", "application/json").execute(ctx, body)
}

func (r Request) execute(ctx context.Context, body []byte) (Response, error) {
	target := r.URL()

	req := r.client.http.R().
		SetContext(ctx).
		SetHeaderMultiValues(r.header)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(r.method, target)
	if err != nil {
		return Response{}, &Error{
			Kind:   KindTransport,
			Method: r.method,
			URL:    target,
			Err:    err,
		}
	}

	r.client.logger.Debug().
		Str("method", r.method).
		Str("url", target).
		Int("status", resp.StatusCode()).
		Msg("Rippling API request")

	return newResponse(r.method, target, resp), nil
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
