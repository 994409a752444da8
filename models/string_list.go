package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// StringList is a list of strings persisted as a JSON array.
//
// Older rows stored some lists as a comma joined string, either raw or as a
// JSON string value. Scan accepts every one of those forms so callers always
// see a list.
type StringList []string

// ParseStringList decodes any stored or wire representation into a list.
func ParseStringList(raw string) StringList {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return StringList{}
	}

	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			return compact(list)
		}
	}
	if strings.HasPrefix(raw, `"`) {
		var joined string
		if err := json.Unmarshal([]byte(raw), &joined); err == nil {
			raw = joined
		}
	}
	return compact(strings.Split(raw, ","))
}

// IsLegacyList reports whether a stored value predates the JSON array format.
func IsLegacyList(raw string) bool {
	raw = strings.TrimSpace(raw)
	return raw != "" && raw != "null" && !strings.HasPrefix(raw, "[")
}

func compact(items []string) StringList {
	out := make(StringList, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (l *StringList) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*l = StringList{}
	case []byte:
		*l = ParseStringList(string(v))
	case string:
		*l = ParseStringList(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
	return nil
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal([]string(l))
	return string(b), err
}

func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// UnmarshalJSON accepts a JSON array of strings, a comma joined JSON string
// or null. Anything else is rejected.
func (l *StringList) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(raw, []byte("null")):
		*l = StringList{}
	case bytes.HasPrefix(raw, []byte("[")):
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return fmt.Errorf("list must hold only strings: %w", err)
		}
		*l = compact(list)
	case bytes.HasPrefix(raw, []byte(`"`)):
		var joined string
		if err := json.Unmarshal(raw, &joined); err != nil {
			return err
		}
		*l = compact(strings.Split(joined, ","))
	default:
		return fmt.Errorf("list must be an array of strings or a comma separated string, got %s", raw)
	}
	return nil
}

func (StringList) GormDataType() string {
	return "json"
}

func (StringList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "JSONB"
	default:
		return "JSON"
	}
}
