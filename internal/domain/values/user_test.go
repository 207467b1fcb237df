package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUser(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    User
		wantErr bool
	}{
		{
			name:  "buyer or seller with name",
			input: "BuyerOrSeller|user123|John Doe",
			want:  NewBuyerOrSeller("user123", "John Doe"),
		},
		{
			name:  "buyer or seller without name",
			input: "BuyerOrSeller|user456",
			want:  NewBuyerOrSeller("user456", ""),
		},
		{
			name:  "support",
			input: "Support|support789",
			want:  NewSupport("support789"),
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "unknown kind",
			input:   "Unknown|id",
			wantErr: true,
		},
		{
			name:    "buyer or seller without id",
			input:   "BuyerOrSeller",
			wantErr: true,
		},
		{
			name:    "support without id",
			input:   "Support",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := ParseUser(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, user)
		})
	}
}

func TestUserRoundTrip(t *testing.T) {
	users := []User{
		NewBuyerOrSeller("user123", "John Doe"),
		NewBuyerOrSeller("user456", ""),
		NewSupport("support789"),
	}

	for _, user := range users {
		reparsed, err := ParseUser(user.String())
		require.NoError(t, err)
		assert.Equal(t, user, reparsed)
	}
}

func TestUserString(t *testing.T) {
	assert.Equal(t, "BuyerOrSeller|user123|John Doe", NewBuyerOrSeller("user123", "John Doe").String())
	assert.Equal(t, "BuyerOrSeller|user456", NewBuyerOrSeller("user456", "").String())
	assert.Equal(t, "Support|support789", NewSupport("support789").String())
}
