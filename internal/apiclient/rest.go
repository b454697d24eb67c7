package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds a single request when no http.Client is supplied
const DefaultTimeout = 30 * time.Second

// Option configures a wrapper
type Option func(*rest)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(c *http.Client) Option {
	return func(r *rest) { r.client = c }
}

// WithTimeout sets the timeout of the default http.Client
func WithTimeout(d time.Duration) Option {
	return func(r *rest) {
		if d > 0 {
			r.client = &http.Client{Timeout: d}
		}
	}
}

// rest is the request plumbing shared by the wrappers
type rest struct {
	baseURL  string
	client   *http.Client
	prepare  func(req *http.Request)
	validate func(body []byte) Result
}

func newRest(baseURL string, options []Option) *rest {
	r := &rest{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, o := range options {
		o(r)
	}
	return r
}

func (r *rest) get(ctx context.Context, path string, params url.Values) Result {
	return r.do(ctx, http.MethodGet, path, params, nil)
}

func (r *rest) post(ctx context.Context, path string, payload any) Result {
	return r.do(ctx, http.MethodPost, path, nil, payload)
}

func (r *rest) do(ctx context.Context, method, path string, params url.Values, payload any) Result {
	if payload == nil {
		return r.send(ctx, method, path, params, nil, "")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Failure(KindRequest, "failed to marshal request body: "+err.Error())
	}
	return r.send(ctx, method, path, params, bytes.NewReader(data), "application/json; charset=utf-8")
}

// send performs one request with a prepared body of the given content type
func (r *rest) send(ctx context.Context, method, path string, params url.Values, body io.Reader, contentType string) Result {
	target := r.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return Failure(KindRequest, "failed to create request: "+err.Error())
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if r.prepare != nil {
		r.prepare(req)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return Failure(KindTransport, err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Failure(KindTransport, "failed to read response body: "+err.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusFailure(resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if r.validate != nil {
		return r.validate(data)
	}
	return Success(data)
}

// query collects optional parameters, skipping empty values
type query url.Values

func (q query) str(key, value string) query {
	if value != "" {
		url.Values(q).Set(key, value)
	}
	return q
}

func (q query) num(key string, value int) query {
	if value > 0 {
		url.Values(q).Set(key, strconv.Itoa(value))
	}
	return q
}

func (q query) flag(key string, value *bool) query {
	if value != nil {
		url.Values(q).Set(key, strconv.FormatBool(*value))
	}
	return q
}

func (q query) values() url.Values {
	return url.Values(q)
}
