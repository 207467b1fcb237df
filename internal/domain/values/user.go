package values

import (
	"fmt"
	"strings"

	apperrors "github.com/openbid/auction-exchange-backend/internal/domain/errors"
)

// UserID is an opaque, non-empty user identifier.
type UserID string

func (u UserID) String() string {
	return string(u)
}

// UserKind discriminates the User variants.
type UserKind string

const (
	UserKindBuyerOrSeller UserKind = "BuyerOrSeller"
	UserKindSupport       UserKind = "Support"
)

// User is a tagged variant over the two user shapes. The wire encoding is
// pipe delimited: "BuyerOrSeller|<id>[|<name>]" or "Support|<id>".
type User struct {
	Kind UserKind
	ID   UserID
	// Name is the optional display name; only BuyerOrSeller carries one.
	Name string
}

// NewBuyerOrSeller creates a buyer-or-seller user. Pass an empty name when
// the display name is unknown.
func NewBuyerOrSeller(id UserID, name string) User {
	return User{Kind: UserKindBuyerOrSeller, ID: id, Name: name}
}

// NewSupport creates a support user.
func NewSupport(id UserID) User {
	return User{Kind: UserKindSupport, ID: id}
}

// ParseUser parses the pipe-delimited wire encoding.
func ParseUser(s string) (User, error) {
	parts := strings.Split(s, "|")
	if len(parts) == 0 || parts[0] == "" {
		return User{}, apperrors.NewInvalidUser("Invalid user string format")
	}
	switch parts[0] {
	case string(UserKindBuyerOrSeller):
		if len(parts) < 2 || parts[1] == "" {
			return User{}, apperrors.NewInvalidUser("Missing BuyerOrSeller ID")
		}
		name := ""
		if len(parts) > 2 {
			name = parts[2]
		}
		return NewBuyerOrSeller(UserID(parts[1]), name), nil
	case string(UserKindSupport):
		if len(parts) < 2 || parts[1] == "" {
			return User{}, apperrors.NewInvalidUser("Missing Support ID")
		}
		return NewSupport(UserID(parts[1])), nil
	default:
		return User{}, apperrors.NewInvalidUser(fmt.Sprintf("Unknown user type: %s", parts[0]))
	}
}

// String renders the wire encoding; ParseUser(u.String()) round-trips.
func (u User) String() string {
	if u.Kind == UserKindBuyerOrSeller && u.Name != "" {
		return fmt.Sprintf("%s|%s|%s", u.Kind, u.ID, u.Name)
	}
	return fmt.Sprintf("%s|%s", u.Kind, u.ID)
}

// MarshalText implements encoding.TextMarshaler.
func (u User) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *User) UnmarshalText(text []byte) error {
	parsed, err := ParseUser(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
