package form

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
)

// FieldID identifies a field within a form. The platform serialises ids
// inconsistently across endpoints (numbers in some payloads, quoted strings
// in others), so decoding accepts both. Non-numeric ids decode to zero; they
// take no part in id allocation and never match a reference lookup.
type FieldID int

// Int returns the id as a plain int.
func (id FieldID) Int() int { return int(id) }

func (id FieldID) String() string { return strconv.Itoa(int(id)) }

// MarshalJSON always emits the numeric form.
func (id FieldID) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(id))
}

// UnmarshalJSON accepts a JSON number, a quoted number, null, or any other
// scalar (which decodes to zero rather than failing the whole document).
func (id *FieldID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*id = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		*id = 0
		return nil
	}
	*id = FieldID(n)
	return nil
}

var (
	formKnownKeys  = jsonKeys(reflect.TypeOf(Form{}))
	fieldKnownKeys = jsonKeys(reflect.TypeOf(Field{}))
)

// jsonKeys collects the wire names of a struct's tagged fields so unknown
// properties can be separated out during decoding.
func jsonKeys(t reflect.Type) map[string]struct{} {
	keys := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		keys[name] = struct{}{}
	}
	return keys
}

// UnmarshalJSON decodes the known schema properties and retains everything
// else in Extra so a later replace does not drop properties this model has
// no column for.
func (f *Form) UnmarshalJSON(data []byte) error {
	type alias Form
	aux := struct {
		ID json.RawMessage `json:"id"`
		*alias
	}{alias: (*alias)(f)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	f.ID = scalarToString(aux.ID)

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key := range formKnownKeys {
		delete(raw, key)
	}
	if len(raw) > 0 {
		f.Extra = raw
	} else {
		f.Extra = nil
	}
	return nil
}

// MarshalJSON merges the typed properties over Extra; typed values win on
// key collisions.
func (f Form) MarshalJSON() ([]byte, error) {
	type alias Form
	return mergeExtra(alias(f), f.Extra)
}

func (f *Field) UnmarshalJSON(data []byte) error {
	type alias Field
	if err := json.Unmarshal(data, (*alias)(f)); err != nil {
		return err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key := range fieldKnownKeys {
		delete(raw, key)
	}
	if len(raw) > 0 {
		f.Extra = raw
	} else {
		f.Extra = nil
	}
	return nil
}

func (f Field) MarshalJSON() ([]byte, error) {
	type alias Field
	return mergeExtra(alias(f), f.Extra)
}

func mergeExtra(v any, extra map[string]any) ([]byte, error) {
	known, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return known, nil
	}

	merged := make(map[string]any, len(extra))
	for key, value := range extra {
		merged[key] = value
	}
	var typed map[string]any
	if err := json.Unmarshal(known, &typed); err != nil {
		return nil, err
	}
	for key, value := range typed {
		merged[key] = value
	}
	return json.Marshal(merged)
}

// scalarToString renders a raw JSON scalar as its string content: quoted
// strings lose their quotes, numbers keep their literal digits.
func scalarToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	s := string(raw)
	if s == "null" {
		return ""
	}
	return s
}
