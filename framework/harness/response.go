package harness

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Response is a fully read HTTP response from the service.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
	Duration   time.Duration
}

// MediaType returns the media type from the Content-Type header, without parameters, in
// lowercase. It returns "" if there is no valid Content-Type.
func (r *Response) MediaType() string {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return strings.ToLower(mediaType)
}

// JSON parses the body as an arbitrary JSON value.
func (r *Response) JSON() (ldvalue.Value, error) {
	if !json.Valid(r.Body) {
		return ldvalue.Null(), fmt.Errorf("response body is not valid JSON: %s", r.bodySnippet())
	}
	return ldvalue.Parse(r.Body), nil
}

// DecodeJSON unmarshals the body into target.
func (r *Response) DecodeJSON(target interface{}) error {
	if err := json.Unmarshal(r.Body, target); err != nil {
		return fmt.Errorf("could not decode JSON response (%s): %w", r.bodySnippet(), err)
	}
	return nil
}

// DecodeXML unmarshals the body into target.
func (r *Response) DecodeXML(target interface{}) error {
	if err := xml.Unmarshal(r.Body, target); err != nil {
		return fmt.Errorf("could not decode XML response (%s): %w", r.bodySnippet(), err)
	}
	return nil
}

// Path evaluates a JSONPath expression, such as "$.todos[0].title", against the JSON body.
// Numbers are returned as float64, arrays as []interface{}, and objects as
// map[string]interface{}.
func (r *Response) Path(expr string) (interface{}, error) {
	if len(r.Body) == 0 {
		return nil, errors.New("response has no body")
	}
	var doc interface{}
	if err := json.Unmarshal(r.Body, &doc); err != nil {
		return nil, fmt.Errorf("response body is not valid JSON: %s", r.bodySnippet())
	}
	value, err := jsonpath.Get(expr, doc)
	if err != nil {
		return nil, fmt.Errorf("JSONPath %q: %w", expr, err)
	}
	return value, nil
}

func (r *Response) String() string {
	return fmt.Sprintf("%s %s", r.Status, r.bodySnippet())
}

func (r *Response) bodySnippet() string {
	if len(r.Body) > 200 {
		return string(r.Body[:200]) + "..."
	}
	return string(r.Body)
}
