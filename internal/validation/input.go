package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	maxMultipartMemory = 8 << 20
	// MaxJSONBytes bounds JSON and urlencoded bodies.
	MaxJSONBytes = 1 << 20
	// MaxMultipartBytes bounds multipart bodies, image included.
	MaxMultipartBytes = 16 << 20
)

// Input is a decoded request payload. Nested objects are map[string]interface{}
// and JSON numbers are json.Number.
type Input map[string]interface{}

var (
	ErrMalformedBody = errors.New("malformed request body")
	ErrBodyTooLarge  = errors.New("request body too large")
)

func FromJSON(r io.Reader) (Input, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, bodyError(err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Input{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var in map[string]interface{}
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if in == nil {
		in = map[string]interface{}{}
	}
	return Input(in), nil
}

// FromValues converts form or query values. Bracketed keys such as
// "new_address[city]" become nested objects.
func FromValues(values url.Values) Input {
	in := Input{}
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		path := splitBracketKey(key)
		in.set(path, vals[0])
	}
	return in
}

// FromRequest decodes the request body according to its content type.
func FromRequest(r *http.Request) (Input, error) {
	if r.Body == nil {
		return Input{}, nil
	}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		r.Body = http.MaxBytesReader(nil, r.Body, MaxMultipartBytes)
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return nil, bodyError(err)
		}
		return FromValues(url.Values(r.MultipartForm.Value)), nil
	case "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(nil, r.Body, MaxJSONBytes)
		if err := r.ParseForm(); err != nil {
			return nil, bodyError(err)
		}
		return FromValues(r.PostForm), nil
	default:
		r.Body = http.MaxBytesReader(nil, r.Body, MaxJSONBytes)
		return FromJSON(r.Body)
	}
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, tooLarge.Limit)
	}
	return fmt.Errorf("%w: %v", ErrMalformedBody, err)
}

func splitBracketKey(key string) []string {
	i := strings.IndexByte(key, '[')
	if i <= 0 || !strings.HasSuffix(key, "]") {
		return []string{key}
	}
	path := []string{key[:i]}
	for _, part := range strings.Split(key[i+1:len(key)-1], "][") {
		path = append(path, part)
	}
	return path
}

func (in Input) set(path []string, value interface{}) {
	cur := map[string]interface{}(in)
	for _, p := range path[:len(path)-1] {
		next, ok := cur[p].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			cur[p] = next
		}
		cur = next
	}
	cur[path[len(path)-1]] = value
}

// Lookup resolves a dotted path.
func (in Input) Lookup(path string) (interface{}, bool) {
	var cur interface{} = map[string]interface{}(in)
	for _, p := range strings.Split(path, ".") {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Has reports whether path is present and not null.
func (in Input) Has(path string) bool {
	v, ok := in.Lookup(path)
	return ok && v != nil
}

// Present reports whether path was sent, even as null.
func (in Input) Present(path string) bool {
	_, ok := in.Lookup(path)
	return ok
}

// Filled reports whether path holds a non-empty value.
func (in Input) Filled(path string) bool {
	v, ok := in.Lookup(path)
	return ok && isFilled(v)
}

func isFilled(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	case map[string]interface{}:
		return len(t) > 0
	case []interface{}:
		return len(t) > 0
	default:
		return true
	}
}

func (in Input) String(path string) string {
	v, _ := in.Lookup(path)
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

// StringPtr returns nil when the value is absent, null or blank.
func (in Input) StringPtr(path string) *string {
	if !in.Filled(path) {
		return nil
	}
	s := in.String(path)
	return &s
}

func (in Input) Int(path string) int {
	v, _ := in.Lookup(path)
	n, _ := toInt(v)
	return int(n)
}

func (in Input) Decimal(path string) decimal.Decimal {
	v, _ := in.Lookup(path)
	d, _ := toDecimal(v)
	return d
}

func toInt(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		n, err := strconv.ParseInt(t.String(), 10, 64)
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n, err == nil
	case float64:
		if t == float64(int64(t)) {
			return int64(t), true
		}
	case int:
		return int64(t), true
	case int64:
		return t, true
	}
	return 0, false
}

func toDecimal(v interface{}) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(t), true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int64:
		return decimal.NewFromInt(t), true
	}
	return decimal.Zero, false
}

