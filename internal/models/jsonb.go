package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// scanJSONB разбирает значение jsonb-колонки в dst.
// NULL оставляет dst без изменений.
func scanJSONB(src any, dst any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("models.scanJSONB: unsupported type %T", src)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}

func valueJSONB(v any) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
