package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// FeatureKind discriminates the value held by a FeatureValue.
type FeatureKind string

const (
	FeatureBool  FeatureKind = "bool"
	FeatureCount FeatureKind = "count"
	FeatureText  FeatureKind = "text"
)

// FeatureValue is a typed resource feature: a flag ("projector"), a count
// ("whiteboards") or a text attribute ("floor"). It marshals to the plain
// JSON scalar so stored rows stay readable.
type FeatureValue struct {
	Kind  FeatureKind
	Bool  bool
	Count float64
	Text  string
}

func BoolFeature(v bool) FeatureValue     { return FeatureValue{Kind: FeatureBool, Bool: v} }
func CountFeature(v float64) FeatureValue { return FeatureValue{Kind: FeatureCount, Count: v} }
func TextFeature(v string) FeatureValue   { return FeatureValue{Kind: FeatureText, Text: v} }

// MarshalJSON encodes the value as its native scalar.
func (v FeatureValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case FeatureBool:
		return json.Marshal(v.Bool)
	case FeatureCount:
		return json.Marshal(v.Count)
	case FeatureText:
		return json.Marshal(v.Text)
	}
	return nil, fmt.Errorf("unknown feature kind %q", v.Kind)
}

// UnmarshalJSON infers the kind from the JSON scalar type.
func (v *FeatureValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch val := raw.(type) {
	case bool:
		*v = BoolFeature(val)
	case float64:
		*v = CountFeature(val)
	case string:
		*v = TextFeature(val)
	default:
		return fmt.Errorf("unsupported feature value %v", raw)
	}
	return nil
}

// Satisfies reports whether this value fulfils a required one: flags must be
// set, counts must meet the minimum, text must match exactly.
func (v FeatureValue) Satisfies(required FeatureValue) bool {
	if v.Kind != required.Kind {
		return false
	}
	switch required.Kind {
	case FeatureBool:
		return !required.Bool || v.Bool
	case FeatureCount:
		return v.Count >= required.Count
	case FeatureText:
		return v.Text == required.Text
	}
	return false
}

// FeatureMap is the features column of a Resource, stored as JSON.
type FeatureMap map[string]FeatureValue

// Satisfies reports whether the map is a superset of the required features,
// with every required value satisfied.
func (m FeatureMap) Satisfies(required FeatureMap) bool {
	for name, want := range required {
		have, ok := m[name]
		if !ok || !have.Satisfies(want) {
			return false
		}
	}
	return true
}

// Value implements driver.Valuer.
func (m FeatureMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (m *FeatureMap) Scan(src any) error {
	if src == nil {
		*m = FeatureMap{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into FeatureMap", src)
	}
	if len(data) == 0 {
		*m = FeatureMap{}
		return nil
	}
	return json.Unmarshal(data, m)
}
