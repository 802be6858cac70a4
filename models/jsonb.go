package models

import (
	"database/sql/driver"
	"encoding/json"
)

// StringList is a JSONB-backed list of strings (key points, keywords, topics)
type StringList []string

// Value implements driver.Valuer for JSONB
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB
func (l *StringList) Scan(value interface{}) error {
	bytes, ok := jsonbBytes(value)
	if !ok || len(bytes) == 0 {
		*l = make(StringList, 0)
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// JSONMap is a JSONB-backed free-form object (task output, chunk metadata)
type JSONMap map[string]interface{}

// Value implements driver.Valuer for JSONB
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(map[string]interface{}{})
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB
func (m *JSONMap) Scan(value interface{}) error {
	bytes, ok := jsonbBytes(value)
	if !ok || len(bytes) == 0 {
		*m = make(JSONMap)
		return nil
	}
	return json.Unmarshal(bytes, m)
}

// StringMap is a JSONB-backed map of strings (per-step QA feedback)
type StringMap map[string]string

// Value implements driver.Valuer for JSONB
func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(map[string]string{})
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB
func (m *StringMap) Scan(value interface{}) error {
	bytes, ok := jsonbBytes(value)
	if !ok || len(bytes) == 0 {
		*m = make(StringMap)
		return nil
	}
	return json.Unmarshal(bytes, m)
}

// BoolMap is a JSONB-backed checklist (QA review checklist items)
type BoolMap map[string]bool

// Value implements driver.Valuer for JSONB
func (m BoolMap) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(map[string]bool{})
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB
func (m *BoolMap) Scan(value interface{}) error {
	bytes, ok := jsonbBytes(value)
	if !ok || len(bytes) == 0 {
		*m = make(BoolMap)
		return nil
	}
	return json.Unmarshal(bytes, m)
}

// jsonbBytes normalizes the raw values pgx may hand to a Scanner for JSONB
func jsonbBytes(value interface{}) ([]byte, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		return nil, false
	}
}
