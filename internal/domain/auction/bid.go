package auction

import (
	"time"

	"github.com/openbid/auction-exchange-backend/internal/domain/values"
)

// BidData is a bid as submitted, before the auction assigns it an ordinal.
type BidData struct {
	User   values.UserID
	Amount values.Amount
	At     time.Time
}

// Bid is an admitted bid. ID is a per-auction dense positive ordinal
// assigned in insertion order, starting at 1. Bids are immutable once
// admitted.
type Bid struct {
	ID int64
	BidData
}
