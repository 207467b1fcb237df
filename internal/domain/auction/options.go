package auction

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SealedBidOptions selects the pricing rule of a single sealed-bid auction.
type SealedBidOptions string

const (
	// Blind is a first-price sealed-bid auction: the highest bidder wins
	// and pays their own bid.
	Blind SealedBidOptions = "Blind"
	// Vickrey is a second-price sealed-bid auction: the highest bidder
	// wins but pays the second-highest bid.
	Vickrey SealedBidOptions = "Vickrey"
)

// ParseSealedBidOptions parses the canonical option name.
func ParseSealedBidOptions(s string) (SealedBidOptions, error) {
	switch SealedBidOptions(s) {
	case Blind, Vickrey:
		return SealedBidOptions(s), nil
	default:
		return "", fmt.Errorf("invalid sealed bid options: %q", s)
	}
}

// TimedAscendingOptions configures an English auction.
type TimedAscendingOptions struct {
	// ReservePrice is the minimum sale price set by the seller in advance.
	// If the final bid does not reach it, the item remains unsold.
	ReservePrice int64

	// MinRaise is the minimum amount by which the next bid must exceed
	// the current highest bid.
	MinRaise int64

	// TimeFrame extends the effective end of the auction from each
	// accepted bid, so a standing bid wins only after going unchallenged
	// for this long past the scheduled expiry.
	TimeFrame time.Duration
}

// String renders the canonical encoding "English|<reserve>|<minRaise>|<seconds>".
func (o TimedAscendingOptions) String() string {
	return fmt.Sprintf("English|%d|%d|%d", o.ReservePrice, o.MinRaise, int64(o.TimeFrame.Seconds()))
}

// ParseTimedAscendingOptions parses the canonical encoding produced by
// String.
func ParseTimedAscendingOptions(s string) (TimedAscendingOptions, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 4 || parts[0] != "English" {
		return TimedAscendingOptions{}, fmt.Errorf("invalid timed ascending options format: %q", s)
	}
	reserve, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return TimedAscendingOptions{}, fmt.Errorf("invalid reserve price: %q", parts[1])
	}
	minRaise, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return TimedAscendingOptions{}, fmt.Errorf("invalid min raise: %q", parts[2])
	}
	seconds, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return TimedAscendingOptions{}, fmt.Errorf("invalid time frame: %q", parts[3])
	}
	return TimedAscendingOptions{
		ReservePrice: reserve,
		MinRaise:     minRaise,
		TimeFrame:    time.Duration(seconds) * time.Second,
	}, nil
}
