package auction

import (
	"time"

	apperrors "github.com/openbid/auction-exchange-backend/internal/domain/errors"
	"github.com/openbid/auction-exchange-backend/internal/domain/values"
)

// Config captures the seller's choices when opening an auction. A
// non-empty SealedBid selects the single sealed-bid format; otherwise the
// auction is timed ascending with the remaining options (zero defaults).
type Config struct {
	Title        string
	Currency     values.CurrencyCode
	StartsAt     time.Time
	Expiry       time.Time
	MinRaise     int64
	ReservePrice int64
	TimeFrame    time.Duration
	SealedBid    SealedBidOptions
	OpenBidders  bool
}

// New constructs an unpersisted auction (ID 0, no bids) for the given
// seller.
func New(cfg Config, seller values.UserID) (*Auction, error) {
	if seller == "" {
		return nil, apperrors.NewDomain("auction requires a seller")
	}
	if !cfg.StartsAt.Before(cfg.Expiry) {
		return nil, apperrors.NewDomain("auction must start before it expires")
	}

	a := &Auction{
		Title:       cfg.Title,
		StartsAt:    cfg.StartsAt,
		Expiry:      cfg.Expiry,
		Seller:      seller,
		Currency:    cfg.Currency,
		Bids:        []Bid{},
		OpenBidders: cfg.OpenBidders,
	}

	if cfg.SealedBid != "" {
		if _, err := ParseSealedBidOptions(string(cfg.SealedBid)); err != nil {
			return nil, apperrors.NewDomain(err.Error())
		}
		a.Kind = KindSingleSealedBid
		a.SealedBid = cfg.SealedBid
		return a, nil
	}

	a.Kind = KindTimedAscending
	a.TimedAscending = &TimedAscendingState{
		Options: TimedAscendingOptions{
			ReservePrice: cfg.ReservePrice,
			MinRaise:     cfg.MinRaise,
			TimeFrame:    cfg.TimeFrame,
		},
	}
	return a, nil
}
