package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Meta is an arbitrary JSON object attached to accounts, versions and file
// versions. A nil Meta is stored as NULL; an empty one as {}.
type Meta map[string]any

// Value implements driver.Valuer.
func (m Meta) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(map[string]any(m))
	if err != nil {
		return nil, fmt.Errorf("marshal meta: %w", err)
	}
	return b, nil
}

// Scan implements sql.Scanner for jsonb columns.
func (m *Meta) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("meta: unsupported scan type %T", src)
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("unmarshal meta: %w", err)
	}
	*m = out
	return nil
}
