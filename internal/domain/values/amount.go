package values

import (
	"fmt"
	"regexp"
	"strconv"

	apperrors "github.com/openbid/auction-exchange-backend/internal/domain/errors"
)

// Amount is a monetary value in whole currency units. There are no
// fractional units; arithmetic and comparison are only defined between
// amounts of the same currency.
type Amount struct {
	value    int64
	currency CurrencyCode
}

var amountPattern = regexp.MustCompile(`^([A-Z]+)([0-9]+)$`)

// NewAmount creates an Amount.
func NewAmount(value int64, currency CurrencyCode) Amount {
	return Amount{value: value, currency: currency}
}

// Zero returns the zero amount in the given currency.
func Zero(currency CurrencyCode) Amount {
	return NewAmount(0, currency)
}

// ParseAmount parses the wire form "<CURRENCY><digits>", e.g. "SEK100".
func ParseAmount(s string) (Amount, error) {
	m := amountPattern.FindStringSubmatch(s)
	if m == nil {
		return Amount{}, apperrors.NewInvalidAmount(fmt.Sprintf("Invalid amount value: %s", s))
	}
	currency, err := ParseCurrencyCode(m[1])
	if err != nil {
		return Amount{}, apperrors.NewInvalidAmount(fmt.Sprintf("Invalid currency code: %s", s))
	}
	value, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return Amount{}, apperrors.NewInvalidAmount(fmt.Sprintf("Invalid amount value: %s", s))
	}
	return NewAmount(value, currency), nil
}

// Value returns the integer amount.
func (a Amount) Value() int64 {
	return a.value
}

// Currency returns the currency code.
func (a Amount) Currency() CurrencyCode {
	return a.currency
}

// String renders the wire form, e.g. "SEK100".
func (a Amount) String() string {
	return a.currency.String() + strconv.FormatInt(a.value, 10)
}

func (a Amount) assertSameCurrency(other Amount) error {
	if a.currency != other.currency {
		return apperrors.NewCurrencyMismatch(a.currency.String(), other.currency.String())
	}
	return nil
}

// Add adds two amounts of the same currency.
func (a Amount) Add(other Amount) (Amount, error) {
	if err := a.assertSameCurrency(other); err != nil {
		return Amount{}, err
	}
	return NewAmount(a.value+other.value, a.currency), nil
}

// Sub subtracts other from a; both must share a currency.
func (a Amount) Sub(other Amount) (Amount, error) {
	if err := a.assertSameCurrency(other); err != nil {
		return Amount{}, err
	}
	return NewAmount(a.value-other.value, a.currency), nil
}

// Cmp is a partial comparison: it returns -1, 0 or 1 when the currencies
// match and ok=false otherwise. Callers must not assume totality.
func (a Amount) Cmp(other Amount) (int, bool) {
	if a.currency != other.currency {
		return 0, false
	}
	switch {
	case a.value < other.value:
		return -1, true
	case a.value > other.value:
		return 1, true
	default:
		return 0, true
	}
}

// MarshalText renders the wire form for JSON and YAML.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses the wire form.
func (a *Amount) UnmarshalText(text []byte) error {
	parsed, err := ParseAmount(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
