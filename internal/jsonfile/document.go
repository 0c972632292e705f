package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/jsonc"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ParseError reports that a file's content could not be understood as a
// JSON object. Callers treat it as "skip this file with a warning".
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var errNotObject = errors.New("top-level value is not an object")

// Document is a JSON object that remembers the order of its keys.
// Values are kept as raw JSON and only decoded on access.
type Document struct {
	fields *orderedmap.OrderedMap[string, json.RawMessage]
}

// NewDocument returns an empty object.
func NewDocument() *Document {
	return &Document{fields: orderedmap.New[string, json.RawMessage]()}
}

// ParseObject parses strict JSON whose top-level value must be an object.
func ParseObject(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if !json.Valid(trimmed) {
		// Unmarshal into a throwaway value to get a positioned syntax error.
		var probe any
		err := json.Unmarshal(trimmed, &probe)
		if err == nil {
			err = errors.New("malformed JSON")
		}
		return nil, &ParseError{Err: err}
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &ParseError{Err: errNotObject}
	}

	doc := NewDocument()
	if err := json.Unmarshal(trimmed, doc.fields); err != nil {
		return nil, &ParseError{Err: err}
	}
	return doc, nil
}

// ParseObjectWithComments parses JSON-with-comments. Comments are removed
// with StripComments first; if the result still is not valid JSON the input
// is retried through jsonc.ToJSON, which also drops trailing commas. The
// error of the strict attempt is returned when both fail.
func ParseObjectWithComments(data []byte) (*Document, error) {
	doc, err := ParseObject(StripComments(data))
	if err == nil {
		return doc, nil
	}

	lenient, lerr := ParseObject(jsonc.ToJSON(data))
	if lerr != nil {
		return nil, err
	}
	return lenient, nil
}

// Has reports whether key is present, whatever its value.
func (d *Document) Has(key string) bool {
	_, ok := d.fields.Get(key)
	return ok
}

// Keys returns the keys in document order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, d.fields.Len())
	for pair := d.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Len returns the number of keys.
func (d *Document) Len() int {
	return d.fields.Len()
}

// String returns the value of key when it is a JSON string.
func (d *Document) String(key string) (string, bool) {
	raw, ok := d.fields.Get(key)
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// SetString sets key to a JSON string. New keys are appended at the end;
// existing keys keep their position.
func (d *Document) SetString(key, value string) {
	d.fields.Set(key, encodeString(value))
}

// Object returns the value of key decoded as a nested Document. It returns
// false when the key is missing or its value is not an object.
func (d *Document) Object(key string) (*Document, bool) {
	raw, ok := d.fields.Get(key)
	if !ok {
		return nil, false
	}
	child, err := ParseObject(raw)
	if err != nil {
		return nil, false
	}
	return child, true
}

// EnsureObject returns the nested object stored under key. When the key is
// missing or holds a non-object value, an empty object replaces it and
// created is true. The returned Document is a copy; store changes back with
// SetObject.
func (d *Document) EnsureObject(key string) (child *Document, created bool) {
	if child, ok := d.Object(key); ok {
		return child, false
	}
	child = NewDocument()
	d.SetObject(key, child)
	return child, true
}

// SetObject stores child under key.
func (d *Document) SetObject(key string, child *Document) {
	raw, err := child.MarshalJSON()
	if err != nil {
		// Values are raw JSON that already passed validation on the way in,
		// so re-encoding them does not fail.
		panic(fmt.Sprintf("jsonfile: encoding %q: %v", key, err))
	}
	d.fields.Set(key, raw)
}

// MarshalJSON encodes the document compactly in key order. Raw values are
// written as they were read, so &, < and > stay literal.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for pair := d.fields.Oldest(); pair != nil; pair = pair.Next() {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		buf.Write(encodeString(pair.Key))
		buf.WriteByte(':')
		if err := json.Compact(&buf, pair.Value); err != nil {
			return nil, fmt.Errorf("value of %q: %w", pair.Key, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encodeString quotes s as a JSON string without HTML escaping.
func encodeString(s string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s) // encoding a string cannot fail
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
}

// Marshal encodes the document the way css-ts-setup writes files:
// two-space indentation followed by a trailing newline.
func Marshal(d *Document) ([]byte, error) {
	compact, err := d.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encoding JSON: %w", err)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return nil, fmt.Errorf("indenting JSON: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
