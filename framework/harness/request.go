package harness

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/apichallenges/todo-contract-tests/apidef"
	"github.com/apichallenges/todo-contract-tests/framework"
)

const maxLoggedBodyLength = 2000

// Request is a builder for one HTTP request to the service. Methods that configure the request
// return the same Request so that calls can be chained; nothing is sent until Do is called.
type Request struct {
	harness *TestHarness
	method  string
	path    string
	query   url.Values
	header  http.Header
	body    []byte
	err     error
	logger  framework.Logger
}

// Header sets a request header, replacing any previous value. An empty value removes it.
func (r *Request) Header(name, value string) *Request {
	if value == "" {
		r.header.Del(name)
	} else {
		r.header.Set(name, value)
	}
	return r
}

func (r *Request) Accept(mediaType string) *Request {
	return r.Header("Accept", mediaType)
}

func (r *Request) ContentType(mediaType string) *Request {
	return r.Header("Content-Type", mediaType)
}

// BasicAuth sets an Authorization header with the Basic scheme for the given credentials.
func (r *Request) BasicAuth(username, password string) *Request {
	return r.EncodedBasicAuth(base64.StdEncoding.EncodeToString([]byte(username + ":" + password)))
}

// EncodedBasicAuth sets an Authorization header with the Basic scheme, using credentials that
// are already base64-encoded.
func (r *Request) EncodedBasicAuth(encoded string) *Request {
	return r.Header("Authorization", "Basic "+encoded)
}

func (r *Request) BearerToken(token string) *Request {
	return r.Header("Authorization", "Bearer "+token)
}

// AuthToken sets the service's custom X-AUTH-TOKEN header.
func (r *Request) AuthToken(token string) *Request {
	return r.Header(apidef.HeaderAuthToken, token)
}

// MethodOverride asks the service to treat the request as if it used a different method.
func (r *Request) MethodOverride(method string) *Request {
	return r.Header(apidef.HeaderMethodOverride, method)
}

func (r *Request) Query(name, value string) *Request {
	if r.query == nil {
		r.query = make(url.Values)
	}
	r.query.Add(name, value)
	return r
}

// JSONBody sets the body to the JSON encoding of v. The Content-Type header is set to
// application/json unless one was already specified.
func (r *Request) JSONBody(v interface{}) *Request {
	data, err := json.Marshal(v)
	if err != nil {
		r.err = fmt.Errorf("could not encode request body: %w", err)
		return r
	}
	return r.bodyWithDefaultType(data, apidef.MediaTypeJSON)
}

// XMLBody sets the body to a literal XML document. The Content-Type header is set to
// application/xml unless one was already specified.
func (r *Request) XMLBody(doc string) *Request {
	return r.bodyWithDefaultType([]byte(doc), apidef.MediaTypeXML)
}

// RawBody sets the body without changing any headers.
func (r *Request) RawBody(data string) *Request {
	r.body = []byte(data)
	return r
}

func (r *Request) bodyWithDefaultType(data []byte, mediaType string) *Request {
	r.body = data
	if r.header.Get("Content-Type") == "" {
		r.header.Set("Content-Type", mediaType)
	}
	return r
}

// URL returns the absolute URL that the request will be sent to.
func (r *Request) URL() string {
	u := r.harness.baseURL + r.path
	if len(r.query) != 0 {
		u += "?" + r.query.Encode()
	}
	return u
}

// Do sends the request. An error is returned only if no response was received; any HTTP
// status, including an error status, is returned as a Response.
func (r *Request) Do(ctx context.Context) (*Response, error) {
	if r.err != nil {
		return nil, r.err
	}
	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, r.URL(), body)
	if err != nil {
		return nil, err
	}
	req.Header = r.header.Clone()
	r.logRequest(req)

	start := time.Now()
	resp, err := r.harness.client.Do(req)
	if err != nil {
		r.logger.Printf("Request failed: %s", err)
		return nil, fmt.Errorf("%s %s failed: %w", r.method, r.path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		r.logger.Printf("Error reading response body: %s", err)
		return nil, fmt.Errorf("error reading response body from %s %s: %w", r.method, r.path, err)
	}
	response := &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       data,
		Duration:   time.Since(start),
	}
	r.logResponse(response)
	return response, nil
}

func (r *Request) logRequest(req *http.Request) {
	var b strings.Builder
	fmt.Fprintf(&b, "Request: %s %s", req.Method, req.URL)
	writeHeaders(&b, req.Header)
	writeBody(&b, r.body)
	r.logger.Printf("%s", b.String())
}

func (r *Request) logResponse(resp *Response) {
	var b strings.Builder
	fmt.Fprintf(&b, "Response: %s (%s)", resp.Status, resp.Duration.Round(time.Millisecond))
	writeHeaders(&b, resp.Header)
	writeBody(&b, resp.Body)
	r.logger.Printf("%s", b.String())
}

func writeHeaders(b *strings.Builder, header http.Header) {
	names := make([]string, 0, len(header))
	for name := range header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(b, "\n  %s: %s", name, strings.Join(header[name], ", "))
	}
}

func writeBody(b *strings.Builder, body []byte) {
	if len(body) == 0 {
		return
	}
	if len(body) > maxLoggedBodyLength {
		fmt.Fprintf(b, "\n%s... (%d bytes)", body[:maxLoggedBodyLength], len(body))
		return
	}
	fmt.Fprintf(b, "\n%s", body)
}
