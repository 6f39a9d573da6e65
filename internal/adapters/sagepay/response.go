package sagepay

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Response is a decoded Sage Pay response body. Numbers are kept as json.Number.
type Response map[string]any

var (
	errNotJSONObject = errors.New("response body is not a JSON object")
	errTrailingData  = errors.New("response body has data after the JSON object")
)

// decodeResponse decodes a response body, returning an empty response on failure
func decodeResponse(body []byte) (Response, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return Response{}, fmt.Errorf("decode response: %w", err)
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return Response{}, errNotJSONObject
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return Response{}, errTrailingData
	}
	return Response(obj), nil
}

// String returns the value of key as text, or "" when absent or null
func (r Response) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}

	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
