package marketplace

import (
	"time"

	"github.com/openbid/auction-exchange-backend/internal/domain/auction"
	"github.com/openbid/auction-exchange-backend/internal/domain/values"
)

// CreateAuctionCommand opens a new auction on behalf of the authenticated
// seller. A non-empty SealedBid selects the single sealed-bid format;
// otherwise the auction is timed ascending and the remaining options apply
// with zero defaults.
type CreateAuctionCommand struct {
	Title        string
	Currency     values.CurrencyCode
	StartsAt     time.Time
	Expiry       time.Time
	MinRaise     int64
	ReservePrice int64
	TimeFrame    time.Duration
	SealedBid    auction.SealedBidOptions
	OpenBidders  bool
}

// PlaceBidCommand submits a bid on an existing auction. The bid timestamp
// is taken from the service clock at admission, not from the caller.
type PlaceBidCommand struct {
	AuctionID int64
	Amount    values.Amount
}
