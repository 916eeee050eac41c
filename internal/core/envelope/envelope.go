// Package envelope reconciles the heterogeneous response shapes of the remote
// API into one canonical payload.
//
// The remote API answers with one of three envelopes:
//
//	[ ... ]                                  bare collection
//	{"success": true, "message": "", "data": ...}
//	{"result": [ ... ]}
//
// Normalize inspects them in that order. A bare array must short-circuit
// before the success/data check because some endpoints return an array where
// others wrap it.
package envelope

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/carepoint/portal-client/internal/core/domain"
	"github.com/carepoint/portal-client/internal/metrics"
)

// Shape is the payload kind the caller expects.
type Shape int

const (
	// ShapeCollection expects a JSON array.
	ShapeCollection Shape = iota
	// ShapeObject expects a single JSON object. A bare object that carries
	// neither a success flag nor a result field is returned as-is.
	ShapeObject
)

func (s Shape) String() string {
	if s == ShapeObject {
		return "object"
	}
	return "collection"
}

const reasonUnrecognized = "unrecognized shape"

// Normalize returns the canonical payload held by raw.
func Normalize(raw []byte, shape Shape) (json.RawMessage, error) {
	if !gjson.ValidBytes(raw) {
		metrics.NormalizationFailuresTotal.WithLabelValues("invalid_json").Inc()
		return nil, &domain.NormalizationError{Reason: "invalid json"}
	}
	root := gjson.ParseBytes(raw)

	// 1. Bare collection.
	if root.IsArray() {
		if shape == ShapeObject {
			return nil, unrecognized()
		}
		return json.RawMessage(root.Raw), nil
	}
	if !root.IsObject() {
		return nil, unrecognized()
	}

	// 2. {success, message, data}.
	if success := field(root, "success"); success.Type == gjson.True || success.Type == gjson.False {
		if success.Type == gjson.False {
			metrics.NormalizationFailuresTotal.WithLabelValues("declined").Inc()
			msg := field(root, "message").String()
			if msg == "" {
				msg = "request was not successful"
			}
			return nil, &domain.NormalizationError{Reason: msg, Declined: true}
		}
		data := field(root, "data")
		return checkPayload(data, shape)
	}

	// 3. {result: [...]}.
	if result := field(root, "result"); result.IsArray() || (shape == ShapeObject && result.IsObject()) {
		return checkPayload(result, shape)
	}

	// 4. Bare object, only acceptable when an object was asked for.
	if shape == ShapeObject {
		return json.RawMessage(root.Raw), nil
	}
	return nil, unrecognized()
}

// DecodeList normalizes raw as a collection and decodes it into []T. A null
// payload decodes to an empty list.
func DecodeList[T any](raw []byte) ([]T, error) {
	payload, err := Normalize(raw, ShapeCollection)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if isNull(payload) {
		return out, nil
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, &domain.NormalizationError{Reason: fmt.Sprintf("decode collection: %v", err)}
	}
	return out, nil
}

// DecodeObject normalizes raw as an object and decodes it into T.
func DecodeObject[T any](raw []byte) (*T, error) {
	payload, err := Normalize(raw, ShapeObject)
	if err != nil {
		return nil, err
	}
	if isNull(payload) {
		return nil, &domain.NormalizationError{Reason: "empty payload"}
	}
	var out T
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, &domain.NormalizationError{Reason: fmt.Sprintf("decode object: %v", err)}
	}
	return &out, nil
}

// Message extracts a human-readable message from an error body, trying the
// field names the API uses across endpoints. It returns "" when none apply.
func Message(raw []byte) string {
	if !gjson.ValidBytes(raw) {
		return ""
	}
	root := gjson.ParseBytes(raw)
	for _, name := range []string{"message", "error", "title", "detail"} {
		if v := field(root, name); v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func checkPayload(v gjson.Result, shape Shape) (json.RawMessage, error) {
	if !v.Exists() || v.Type == gjson.Null {
		return json.RawMessage("null"), nil
	}
	switch shape {
	case ShapeCollection:
		if !v.IsArray() {
			return nil, unrecognized()
		}
	case ShapeObject:
		if !v.IsObject() {
			return nil, unrecognized()
		}
	}
	return json.RawMessage(v.Raw), nil
}

// field looks a key up in its camelCase form first, then PascalCase, which is
// what the API's serializer emits on some endpoints.
func field(root gjson.Result, name string) gjson.Result {
	if v := root.Get(name); v.Exists() {
		return v
	}
	return root.Get(strings.ToUpper(name[:1]) + name[1:])
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func unrecognized() error {
	metrics.NormalizationFailuresTotal.WithLabelValues("unrecognized_shape").Inc()
	return &domain.NormalizationError{Reason: reasonUnrecognized}
}
