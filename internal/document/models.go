package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strings"
)

// IDField is the identifier MongoDB assigns on insert. It is never returned to clients.
const IDField = "_id"

// Document is a client-submitted JSON object, stored verbatim.
type Document map[string]interface{}

// Client-facing messages for rejected bodies.
const (
	MsgUnparsable = "Invalid JSON body - could not parse"
	MsgNotObject  = "Invalid JSON body - empty or not dict"
)

var (
	ErrUnparsable = errors.New("invalid JSON body - could not parse")
	ErrNotObject  = errors.New("invalid JSON body - empty or not dict")

	errNumberRange = errors.New("number out of range")
)

// Parse decodes a request body into a Document. Bodies that are not JSON yield
// ErrUnparsable; arrays, scalars, null and {} yield ErrNotObject.
// Integral numbers become int64 so they are stored as BSON integers; integers
// outside int64 and numbers outside float64 range are unparsable.
func Parse(body []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, ErrUnparsable
	}
	// trailing garbage after the first value is a parse failure too
	if _, err := dec.Token(); err != io.EOF {
		return nil, ErrUnparsable
	}
	obj, ok := v.(map[string]interface{})
	if !ok || len(obj) == 0 {
		return nil, ErrNotObject
	}
	if err := normalize(obj); err != nil {
		return nil, ErrUnparsable
	}
	return Document(obj), nil
}

// normalize replaces json.Number values in place.
func normalize(v interface{}) error {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, val := range t {
			n, err := number(val)
			if err != nil {
				return err
			}
			t[k] = n
		}
	case []interface{}:
		for i, val := range t {
			n, err := number(val)
			if err != nil {
				return err
			}
			t[i] = n
		}
	}
	return nil
}

func number(v interface{}) (interface{}, error) {
	n, ok := v.(json.Number)
	if !ok {
		return v, normalize(v)
	}
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	if !strings.ContainsAny(n.String(), ".eE") {
		return nil, errNumberRange
	}
	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) {
		return nil, errNumberRange
	}
	return f, nil
}

// WithoutID returns a shallow copy of d minus the identifier field.
func (d Document) WithoutID() Document {
	out := make(Document, len(d))
	for k, v := range d {
		if k == IDField {
			continue
		}
		out[k] = v
	}
	return out
}
