package history

import (
	"bytes"
	"strconv"
	"strings"
)

// FlexFloat is a float64 that tolerates the numeric formats seen in raw
// statement feeds: plain numbers, quoted numbers, thousands separators,
// percent suffixes, and null-ish placeholders ("None", "N/A", "-", "",
// JSON null). Anything unparseable coerces to 0 rather than failing the
// whole statement.
type FlexFloat float64

// UnmarshalJSON implements tolerant numeric decoding.
func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))
	*f = FlexFloat(Coerce(s))
	return nil
}

// Float64 returns the underlying value.
func (f FlexFloat) Float64() float64 {
	return float64(f)
}

// Coerce converts a raw numeric token to float64. Missing, empty and
// "None"-like values become 0.0; a trailing percent sign divides by 100.
func Coerce(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	switch strings.ToLower(s) {
	case "null", "none", "nan", "n/a", "na", "-", "--":
		return 0
	}

	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	// Accounting-style negatives: (1,234.5)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	if percent {
		v /= 100
	}
	return v
}
