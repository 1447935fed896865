package fakeapi

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
	"mime"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/apichallenges/todo-contract-tests/apidef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

type format int

const (
	formatJSON format = iota
	formatXML
)

type acceptKind int

const (
	acceptNone acceptKind = iota
	acceptJSON
	acceptXML
	acceptAny
	acceptPreferred
)

type acceptRange struct {
	mediaType string
	quality   float64
}

// negotiate picks the response format for a request's Accept header. Media ranges are
// considered in order of quality, and then in the order they were listed. It returns false if
// the header names only media types that the service cannot produce.
func negotiate(r *http.Request) (format, acceptKind, bool) {
	header := strings.TrimSpace(r.Header.Get("Accept"))
	if header == "" {
		return formatJSON, acceptNone, true
	}
	var ranges []acceptRange
	for _, part := range strings.Split(header, ",") {
		mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		q := 1.0
		if qs, ok := params["q"]; ok {
			if parsed, err := strconv.ParseFloat(qs, 64); err == nil {
				q = parsed
			}
		}
		ranges = append(ranges, acceptRange{mediaType: strings.ToLower(mediaType), quality: q})
	}
	sort.SliceStable(ranges, func(i, j int) bool { return ranges[i].quality > ranges[j].quality })

	for _, ar := range ranges {
		if ar.quality <= 0 {
			continue
		}
		var f format
		var kind acceptKind
		switch ar.mediaType {
		case apidef.MediaTypeJSON:
			f, kind = formatJSON, acceptJSON
		case apidef.MediaTypeXML:
			f, kind = formatXML, acceptXML
		case apidef.MediaTypeAny, "application/*":
			f, kind = formatJSON, acceptAny
		default:
			continue
		}
		if len(ranges) > 1 {
			kind = acceptPreferred
		}
		return f, kind, true
	}
	return formatJSON, acceptNone, false
}

// requestFormat returns the format of the request body, or false if the Content-Type is one
// that the service does not accept. A missing Content-Type is treated as JSON.
func requestFormat(r *http.Request) (format, bool) {
	header := r.Header.Get("Content-Type")
	if header == "" {
		return formatJSON, true
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return formatJSON, false
	}
	switch strings.ToLower(mediaType) {
	case apidef.MediaTypeJSON:
		return formatJSON, true
	case apidef.MediaTypeXML:
		return formatXML, true
	}
	return formatJSON, false
}

var errBodyTooLarge = errors.New("request body too large")

func readBody(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, apidef.MaxBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > apidef.MaxBodyBytes {
		return nil, errBodyTooLarge
	}
	return data, nil
}

type xmlFields struct {
	XMLName xml.Name
	Fields  []xmlField `xml:",any"`
}

type xmlField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// decodeFields parses a todo body into its fields. JSON values keep their types; XML values
// are converted to the type that the field is expected to have when they can be.
func decodeFields(data []byte, f format) (map[string]ldvalue.Value, error) {
	fields := make(map[string]ldvalue.Value)
	if f == formatXML {
		var doc xmlFields
		if err := xml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		for _, field := range doc.Fields {
			fields[field.XMLName.Local] = xmlFieldValue(field.XMLName.Local, strings.TrimSpace(field.Value))
		}
		return fields, nil
	}
	if !json.Valid(data) {
		return nil, errors.New("body is not valid JSON")
	}
	value := ldvalue.Parse(data)
	if value.Type() != ldvalue.ObjectType {
		return nil, errors.New("body is not a JSON object")
	}
	for _, key := range value.Keys() {
		fields[key] = value.GetByKey(key)
	}
	return fields, nil
}

func xmlFieldValue(name, raw string) ldvalue.Value {
	switch name {
	case apidef.FieldDoneStatus:
		if b, err := strconv.ParseBool(raw); err == nil {
			return ldvalue.Bool(b)
		}
	case apidef.FieldID:
		if n, err := strconv.Atoi(raw); err == nil {
			return ldvalue.Int(n)
		}
	}
	return ldvalue.String(raw)
}

func writeBody(w http.ResponseWriter, status int, f format, jsonValue, xmlValue interface{}) {
	var data []byte
	var err error
	if f == formatXML && xmlValue != nil {
		w.Header().Set("Content-Type", apidef.MediaTypeXML)
		data, err = xml.Marshal(xmlValue)
	} else {
		w.Header().Set("Content-Type", apidef.MediaTypeJSON)
		data, err = json.Marshal(jsonValue)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeValue(w http.ResponseWriter, status int, f format, value interface{}) {
	writeBody(w, status, f, value, value)
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	writeBody(w, status, formatJSON, value, nil)
}

func writeErrors(w http.ResponseWriter, status int, f format, messages ...string) {
	writeValue(w, status, f, apidef.ErrorBody{ErrorMessages: messages})
}
