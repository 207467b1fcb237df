package values

import "fmt"

// CurrencyCode identifies one of the currencies supported by the exchange.
// The zero value is CurrencyNone.
type CurrencyCode int

const (
	CurrencyNone CurrencyCode = 0
	VAC          CurrencyCode = 1001
	SEK          CurrencyCode = 752
	DKK          CurrencyCode = 208
)

// ParseCurrencyCode parses a three-letter currency symbol.
func ParseCurrencyCode(s string) (CurrencyCode, error) {
	switch s {
	case "VAC":
		return VAC, nil
	case "SEK":
		return SEK, nil
	case "DKK":
		return DKK, nil
	default:
		return CurrencyNone, fmt.Errorf("unknown currency code: %q", s)
	}
}

// String returns the three-letter symbol, or NONE for the zero value.
func (c CurrencyCode) String() string {
	switch c {
	case VAC:
		return "VAC"
	case SEK:
		return "SEK"
	case DKK:
		return "DKK"
	default:
		return "NONE"
	}
}

// MarshalText implements encoding.TextMarshaler so CurrencyCode renders as
// its symbol in JSON and YAML.
func (c CurrencyCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *CurrencyCode) UnmarshalText(text []byte) error {
	if string(text) == "NONE" {
		*c = CurrencyNone
		return nil
	}
	parsed, err := ParseCurrencyCode(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
