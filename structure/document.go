package structure

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"gorm.io/datatypes"
)

// Document is an opaque key-value document (props, styles, meta, settings, seo).
// The set of keys is open ended, so it is never typed as a fixed record.
type Document map[string]any

// DecodeDocument never fails. Invalid or non-object JSON becomes an empty
// document.
func DecodeDocument(raw []byte) Document {
	d := Document{}

	if len(raw) < 1 {
		return d
	}

	if err := DecodeJSON(raw, &d); err != nil || d == nil {
		return Document{}
	}

	return d
}

// DecodeJSON is json.Unmarshal keeping numbers as json.Number, so large
// integers inside documents survive a read and write cycle.
func DecodeJSON(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	if err := dec.Decode(v); err != nil {
		return err
	}

	if dec.More() {
		return errors.New("Unexpected data after JSON value.")
	}

	return nil
}

func (d Document) JSON() datatypes.JSON {
	if d == nil {
		return datatypes.JSON("{}")
	}

	raw, err := json.Marshal(d)
	if err != nil {
		return datatypes.JSON("{}")
	}

	return datatypes.JSON(raw)
}

func documentValue(v any) Document {
	switch val := v.(type) {
	case map[string]any:
		return Document(val)
	case Document:
		return val
	case string:
		return DecodeDocument([]byte(val))
	}

	return Document{}
}

func intValue(v any) (int, bool) {
	switch val := v.(type) {
	case float64:
		return int(val), true
	case int:
		return val, true
	case int64:
		return int(val), true
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return int(n), true
		}

		f, err := val.Float64()
		return int(f), err == nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		return n, err == nil
	}

	return 0, false
}

func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}

	return ""
}

// firstOf returns the value of the first key present in m.
func firstOf(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}

	return nil, false
}
