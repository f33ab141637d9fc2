package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NullableString is a tri-state JSON field: absent, null, or a string.
//
// WHY NOT JUST *string?
// encoding/json leaves a *string nil both when the key is missing AND when
// it is explicitly null, so "leave unchanged" and "clear" would look the
// same. UnmarshalJSON is only called for keys that are present, which lets
// Set record presence separately from the value.
type NullableString struct {
	Set   bool    // the key appeared in the JSON object
	Value *string // nil means null
}

// NewNullableString returns a present field holding s.
func NewNullableString(s string) NullableString {
	return NullableString{Set: true, Value: &s}
}

// Null returns a present field holding null.
func Null() NullableString {
	return NullableString{Set: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected string or null: %w", err)
	}
	n.Value = &s
	return nil
}

// MarshalJSON implements json.Marshaler. Absent fields are written as null;
// use the omitzero tag on the containing struct to drop them.
func (n NullableString) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

// IsZero lets `omitzero` drop absent fields when marshalling.
func (n NullableString) IsZero() bool {
	return !n.Set
}

// CodePatch is a partial update of a project's embedded source code.
// Only fields with Set == true are written; the rest keep their stored value.
type CodePatch struct {
	HTMLCode NullableString `json:"htmlCode,omitzero"`
	CSSCode  NullableString `json:"cssCode,omitzero"`
	JSCode   NullableString `json:"jsCode,omitzero"`
}

// IsEmpty reports whether the patch would change nothing.
func (p CodePatch) IsEmpty() bool {
	return !p.HTMLCode.Set && !p.CSSCode.Set && !p.JSCode.Set
}

// Apply copies the present fields of the patch onto proj.
// Stores that cannot express a partial UPDATE (and test mocks) use this.
func (p CodePatch) Apply(proj *Project) {
	if p.HTMLCode.Set {
		proj.HTMLCode = cloneString(p.HTMLCode.Value)
	}
	if p.CSSCode.Set {
		proj.CSSCode = cloneString(p.CSSCode.Value)
	}
	if p.JSCode.Set {
		proj.JSCode = cloneString(p.JSCode.Value)
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
