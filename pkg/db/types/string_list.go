package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList stores an ordered string sequence as a JSON text column so the
// same model works against Postgres and the sqlite test driver.
type StringList []string

func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = StringList{}
		return nil
	}

	switch v := src.(type) {
	case string:
		return l.parseFromBytes([]byte(v))
	case []byte:
		return l.parseFromBytes(v)
	default:
		return fmt.Errorf("StringList: unsupported Scan type %T", src)
	}
}

func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	encoded, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("StringList: marshal: %w", err)
	}
	return string(encoded), nil
}

func (l *StringList) parseFromBytes(raw []byte) error {
	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("StringList: parse: %w", err)
	}
	*l = StringList(out)
	return nil
}
