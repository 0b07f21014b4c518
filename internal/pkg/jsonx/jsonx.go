/*
Package jsonx keeps the JSON members a record type does not model, so records written by
other clients of the shared document survive a decode and re-encode untouched.
*/
package jsonx

import (
	"bytes"
	"encoding/json"
	"slices"
)

// Extra holds the members of a JSON object that a record does not model, keyed by name.
type Extra map[string]json.RawMessage

// Split decodes the object in data into known and returns the members whose names are not in
// fields. known must not implement json.Unmarshaler itself; pass a pointer to a method-less
// alias of the record type. The result is nil when nothing is left over.
func Split(data []byte, known any, fields ...string) (Extra, error) {
	if err := json.Unmarshal(data, known); err != nil {
		return nil, err
	}

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, nil
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, err
	}

	for _, name := range fields {
		delete(members, name)
	}
	if len(members) == 0 {
		return nil, nil
	}

	extra := make(Extra, len(members))
	for name, raw := range members {
		extra[name] = slices.Clone(raw)
	}
	return extra, nil
}

// Merge encodes known and adds the members of extra it does not already carry.
// known must not implement json.Marshaler itself.
func Merge(known any, extra Extra) ([]byte, error) {
	data, err := json.Marshal(known)
	if err != nil || len(extra) == 0 {
		return data, err
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, err
	}

	for name, raw := range extra {
		if _, ok := members[name]; !ok {
			members[name] = raw
		}
	}

	return json.Marshal(members)
}
