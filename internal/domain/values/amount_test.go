package values

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		value    int64
		currency CurrencyCode
		wantErr  bool
	}{
		{
			name:     "valid SEK amount",
			input:    "SEK100",
			value:    100,
			currency: SEK,
		},
		{
			name:     "valid VAC amount",
			input:    "VAC0",
			value:    0,
			currency: VAC,
		},
		{
			name:     "valid DKK amount",
			input:    "DKK999999",
			value:    999999,
			currency: DKK,
		},
		{
			name:    "unknown currency",
			input:   "XYZ100",
			wantErr: true,
		},
		{
			name:    "missing digits",
			input:   "SEK",
			wantErr: true,
		},
		{
			name:    "non-numeric value",
			input:   "SEKabc",
			wantErr: true,
		},
		{
			name:    "lowercase currency",
			input:   "sek100",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "negative value",
			input:   "SEK-10",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := ParseAmount(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.value, amount.Value())
			assert.Equal(t, tt.currency, amount.Currency())
		})
	}
}

func TestAmountRoundTrip(t *testing.T) {
	for _, s := range []string{"SEK100", "VAC1", "DKK0"} {
		amount, err := ParseAmount(s)
		require.NoError(t, err)
		assert.Equal(t, s, amount.String())

		reparsed, err := ParseAmount(amount.String())
		require.NoError(t, err)
		assert.Equal(t, amount, reparsed)
	}
}

func TestAmountArithmetic(t *testing.T) {
	t.Run("add same currency", func(t *testing.T) {
		sum, err := NewAmount(100, SEK).Add(NewAmount(200, SEK))
		require.NoError(t, err)
		assert.Equal(t, NewAmount(300, SEK), sum)
	})

	t.Run("sub same currency", func(t *testing.T) {
		diff, err := NewAmount(300, SEK).Sub(NewAmount(100, SEK))
		require.NoError(t, err)
		assert.Equal(t, NewAmount(200, SEK), diff)
	})

	t.Run("add different currency fails", func(t *testing.T) {
		_, err := NewAmount(100, SEK).Add(NewAmount(200, VAC))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "SEK")
		assert.Contains(t, err.Error(), "VAC")
	})

	t.Run("sub different currency fails", func(t *testing.T) {
		_, err := NewAmount(100, SEK).Sub(NewAmount(200, DKK))
		assert.Error(t, err)
	})
}

func TestAmountCmpIsPartial(t *testing.T) {
	a := NewAmount(100, SEK)
	b := NewAmount(200, SEK)
	c := NewAmount(100, VAC)

	cmp, ok := a.Cmp(b)
	require.True(t, ok)
	assert.Equal(t, -1, cmp)

	cmp, ok = b.Cmp(a)
	require.True(t, ok)
	assert.Equal(t, 1, cmp)

	cmp, ok = a.Cmp(NewAmount(100, SEK))
	require.True(t, ok)
	assert.Equal(t, 0, cmp)

	_, ok = a.Cmp(c)
	assert.False(t, ok, "different currencies must not compare")
}

func TestAmountJSON(t *testing.T) {
	data, err := json.Marshal(NewAmount(100, SEK))
	require.NoError(t, err)
	assert.Equal(t, `"SEK100"`, string(data))

	var amount Amount
	require.NoError(t, json.Unmarshal([]byte(`"DKK42"`), &amount))
	assert.Equal(t, NewAmount(42, DKK), amount)

	assert.Error(t, json.Unmarshal([]byte(`"nonsense"`), &amount))
}

func TestCurrencyCode(t *testing.T) {
	assert.Equal(t, "NONE", CurrencyNone.String())
	assert.Equal(t, CurrencyNone, CurrencyCode(0), "zero value is the sentinel")

	for _, symbol := range []string{"VAC", "SEK", "DKK"} {
		code, err := ParseCurrencyCode(symbol)
		require.NoError(t, err)
		assert.Equal(t, symbol, code.String())
	}

	_, err := ParseCurrencyCode("USD")
	assert.Error(t, err)
}
