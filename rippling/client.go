package rippling

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// ProductionURL is the origin every production call is resolved against.
const ProductionURL = "https://app.rippling.com/api/"

const defaultTimeout = 30 * time.Second

// Client resolves request paths against a base URL and owns the transport.
type Client struct {
	baseURL *url.URL
	http    *resty.Client
	logger  zerolog.Logger
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	timeout    time.Duration
	timeoutSet bool
	httpClient *http.Client
	userAgent  string
}

// WithTimeout sets the transport timeout. It also applies to a client given
// with WithHTTPClient.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
			o.timeoutSet = true
		}
	}
}

// WithHTTPClient sets the underlying *http.Client used by the transport.
// Its own Timeout is kept unless WithTimeout is given as well.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = hc
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// New creates a Client rooted at baseURL. Use ProductionURL for the real
// service and a mock server origin in tests.
//
// A baseURL that cannot be parsed is a configuration error and panics.
func New(baseURL string, logger zerolog.Logger, opts ...Option) *Client {
	o := clientOptions{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	// Ensure baseURL has a trailing slash so relative paths resolve beneath it
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		panic(fmt.Sprintf("rippling: invalid base URL %q: %v", baseURL, err))
	}

	var rc *resty.Client
	if o.httpClient != nil {
		rc = resty.NewWithClient(o.httpClient)
		if o.timeoutSet {
			rc.SetTimeout(o.timeout)
		}
	} else {
		rc = resty.New()
		rc.SetTimeout(o.timeout)
	}
	if o.userAgent != "" {
		rc.SetHeader("User-Agent", o.userAgent)
	}

	return &Client{
		baseURL: base,
		http:    rc,
		logger:  logger,
	}
}

// BaseURL returns the origin requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// NewRequest builds an unauthenticated request for method and path.
// Session.Get and Session.Post are the normal entry points.
func (c *Client) NewRequest(method, path string) Request {
	return Request{
		client: c,
		method: method,
		url:    c.resolve(path),
		header: http.Header{"Accept": {"application/json"}},
		params: url.Values{},
	}
}

// resolve joins path onto the base URL. A malformed path is a programming
// error, not a runtime condition.
func (c *Client) resolve(path string) *url.URL {
	ref, err := url.Parse(path)
	if err != nil {
		panic(fmt.Sprintf("rippling: invalid request path %q: %v", path, err))
	}
	return c.baseURL.ResolveReference(ref)
}
