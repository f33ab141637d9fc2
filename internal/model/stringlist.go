package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is an ordered list of strings persisted as a JSON array inside
// a single TEXT column.
//
// WHY NOT A SEPARATE TABLE?
// Technologies and features are only ever read together with their project
// and never queried tag-by-tag. Keeping them as JSON text means one row per
// project and one query per request. The search feature even relies on this:
// it matches against the serialized text blob, not individual tags.
//
// TWO READ SHAPES, ONE WRITE SHAPE:
// Value() always writes JSON text. Scan() accepts either JSON text
// (string / []byte, what a TEXT column gives back) or an already decoded
// sequence ([]string / []any, what some drivers hand back for json/jsonb
// columns). Both normalise to the same []string in memory.
type StringList []string

// Value implements driver.Valuer. An empty or nil list is written as "[]"
// so the column never holds the JSON literal null.
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("encoding string list: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case string:
		return l.decode([]byte(v))
	case []byte:
		return l.decode(v)
	case []string:
		*l = append(StringList{}, v...)
		return nil
	case []any:
		out := make(StringList, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("scanning string list: element %d is %T, not string", i, item)
			}
			out = append(out, s)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("scanning string list: unsupported source type %T", src)
	}
}

func (l *StringList) decode(b []byte) error {
	var out []string
	if err := json.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("decoding string list: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}

// MarshalJSON keeps the wire contract stable: a nil list is sent as [] rather than null.
func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}
