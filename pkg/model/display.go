package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/entitymap/pkg/errors"
)

// CurrencySuffix is appended to formatted currency values.
const CurrencySuffix = " €"

// FormatCurrency renders a raw currency value with two decimals. Values that
// are not finite numbers are returned unchanged.
func FormatCurrency(raw string) string {
	if raw == "" {
		return raw
	}
	f, ok := parseFinite(raw)
	if !ok {
		return raw
	}
	return strconv.FormatFloat(f, 'f', 2, 64) + CurrencySuffix
}

// parseFinite parses raw as a float, rejecting NaN and the infinities that
// strconv accepts.
func parseFinite(raw string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Preview renders a value for the compact card preview: currency values
// are formatted and empty values become "-".
func (a Attribute) Preview(raw string) string {
	if raw == "" {
		return "-"
	}
	if a.Kind == KindCurrency {
		return FormatCurrency(raw)
	}
	return raw
}

// Display renders a value for the full entity view. Link values resolve to
// "TypeName: EntityName", or "None" when the target does not exist. Other
// empty values become "-".
func (a Attribute) Display(raw string, d *Data) string {
	if raw == "" && !a.Kind.IsLink() {
		return "-"
	}
	switch a.Kind {
	case KindLink:
		target := d.Entity(raw)
		if raw == "" || target == nil {
			return "None"
		}
		typeName := "Unknown"
		if t := d.Type(target.TypeID); t != nil {
			typeName = t.Name
		}
		return fmt.Sprintf("%s: %s", typeName, target.Name)
	case KindCurrency:
		return FormatCurrency(raw)
	default:
		return raw
	}
}

// Validate checks the entity's values against its type. Empty values are
// always accepted.
func (e *Entity) Validate(t *Type) error {
	if err := errors.ValidateName("entity name", e.Name); err != nil {
		return err
	}
	if t == nil {
		return errors.New(errors.ErrCodeTypeNotFound, "type %q not found", e.TypeID)
	}
	for _, a := range t.Attributes {
		v := strings.TrimSpace(e.Attributes[a.Name])
		if v == "" {
			continue
		}
		switch a.Kind {
		case KindInteger:
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				return errors.New(errors.ErrCodeInvalidAttribute, "%s must be a whole number", a.Name)
			}
		case KindDecimal, KindCurrency:
			if _, ok := parseFinite(v); !ok {
				return errors.New(errors.ErrCodeInvalidAttribute, "%s must be a number", a.Name)
			}
		}
	}
	return nil
}
