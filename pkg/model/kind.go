package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind is the value type of an attribute.
type Kind string

// Attribute kinds.
const (
	KindText     Kind = "Text"
	KindInteger  Kind = "Integer"
	KindDecimal  Kind = "Decimal"
	KindCurrency Kind = "Currency"
	KindLink     Kind = "Link"
)

// legacyKinds maps the names written by older data files onto kinds.
var legacyKinds = map[string]Kind{
	"text":        KindText,
	"integer":     KindInteger,
	"ganzzahl":    KindInteger,
	"decimal":     KindDecimal,
	"dezimalzahl": KindDecimal,
	"currency":    KindCurrency,
	"währung":     KindCurrency,
	"link":        KindLink,
}

// ParseKind resolves a kind name, accepting legacy spellings in any case.
func ParseKind(s string) (Kind, error) {
	if k, ok := legacyKinds[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	return "", fmt.Errorf("unknown attribute kind %q", s)
}

// IsLink reports whether values of this kind reference other entities.
func (k Kind) IsLink() bool { return k == KindLink }

// IsNumeric reports whether values of this kind must parse as numbers.
func (k Kind) IsNumeric() bool {
	return k == KindInteger || k == KindDecimal || k == KindCurrency
}

// UnmarshalJSON accepts canonical and legacy kind names.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
