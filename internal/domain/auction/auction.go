package auction

import (
	"sort"
	"time"

	apperrors "github.com/openbid/auction-exchange-backend/internal/domain/errors"
	"github.com/openbid/auction-exchange-backend/internal/domain/values"
)

// Kind discriminates the auction variants. The names are canonical: the
// persisted auction_type column carries them verbatim.
type Kind string

const (
	KindTimedAscending  Kind = "TimedAscending"
	KindSingleSealedBid Kind = "SingleSealedBid"
)

// ParseKind parses the persisted discriminant.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindTimedAscending, KindSingleSealedBid:
		return Kind(s), nil
	default:
		return "", apperrors.NewDomain("unknown auction type: " + s)
	}
}

// TimedAscendingState is the per-format state of an English auction.
type TimedAscendingState struct {
	Options TimedAscendingOptions

	// EndsAt is the soft-close extended end time. It is nil until a bid
	// extends the auction and thereafter non-decreasing and never before
	// Expiry.
	EndsAt *time.Time
}

// Auction is the domain entity: a tagged variant over the two formats
// sharing a common base. An Auction is not safe for concurrent use; each
// request works on its own copy loaded from the repository.
type Auction struct {
	// ID is assigned by the repository on first persist; 0 before that.
	ID       int64
	Title    string
	StartsAt time.Time
	Expiry   time.Time
	Seller   values.UserID
	Currency values.CurrencyCode
	Bids     []Bid

	// OpenBidders governs whether bidder identities are revealed at the
	// projection boundary. The entity stores identities unconditionally.
	OpenBidders bool

	Kind           Kind
	TimedAscending *TimedAscendingState // set when Kind is KindTimedAscending
	SealedBid      SealedBidOptions     // set when Kind is KindSingleSealedBid
}

// validateBid accumulates every applicable pre-check flag so the caller
// learns all reasons a bid is invalid in one response.
func (a *Auction) validateBid(bid BidData) apperrors.BidErrors {
	errs := apperrors.BidErrNone

	if bid.User == a.Seller {
		errs |= apperrors.BidErrSellerCannotBid
	}
	if bid.Amount.Currency() != a.Currency {
		errs |= apperrors.BidErrCurrencyConversion
	}
	if bid.At.Before(a.StartsAt) {
		errs |= apperrors.BidErrAuctionHasNotStarted
	}
	if bid.At.After(a.Expiry) {
		errs |= apperrors.BidErrAuctionHasEnded
	}

	return errs
}

// TryAddBid validates bid against the auction state at time now and, on
// success, appends it with the next dense ordinal. For timed ascending
// auctions an accepted bid pushes the effective end time forward by one
// TimeFrame from now (soft close). The returned set is BidErrNone on
// success.
func (a *Auction) TryAddBid(now time.Time, bid BidData) apperrors.BidErrors {
	if errs := a.validateBid(bid); !errs.IsNone() {
		return errs
	}

	if now.After(a.Expiry) {
		return apperrors.BidErrAuctionHasEnded
	}
	if now.Before(a.StartsAt) {
		return apperrors.BidErrAuctionHasNotStarted
	}

	switch a.Kind {
	case KindSingleSealedBid:
		for _, b := range a.Bids {
			if b.User == bid.User {
				return apperrors.BidErrAlreadyPlacedBid
			}
		}

	case KindTimedAscending:
		opts := a.TimedAscending.Options
		if highest, ok := a.highestBid(); ok {
			if bid.Amount.Value() <= highest.Amount.Value() {
				return apperrors.BidErrMustBeatHighestBid
			}
			if bid.Amount.Value() < highest.Amount.Value()+opts.MinRaise {
				return apperrors.BidErrMustRaiseWithAtLeast
			}
		}

		extended := now.Add(opts.TimeFrame)
		if extended.After(a.effectiveEnd()) {
			a.TimedAscending.EndsAt = &extended
		}
	}

	a.Bids = append(a.Bids, Bid{ID: int64(len(a.Bids)) + 1, BidData: bid})
	return apperrors.BidErrNone
}

// GetBids returns the ordered bid list visible at time now, or nil while
// the policy hides it. Timed ascending bids are public from the start;
// sealed bids stay hidden until strictly after expiry.
func (a *Auction) GetBids(now time.Time) []Bid {
	switch a.Kind {
	case KindSingleSealedBid:
		if now.Before(a.StartsAt) || !now.After(a.Expiry) {
			return nil
		}
	case KindTimedAscending:
		if now.Before(a.StartsAt) {
			return nil
		}
	}
	return a.Bids
}

// TryGetAmountAndWinner resolves the winner and the price owed at time
// now. It yields nothing while the auction has not ended, has no bids, or
// (for English auctions) the reserve price was not met.
func (a *Auction) TryGetAmountAndWinner(now time.Time) (values.Amount, values.UserID, bool) {
	if !now.After(a.Expiry) || len(a.Bids) == 0 {
		return values.Amount{}, "", false
	}

	switch a.Kind {
	case KindSingleSealedBid:
		if a.SealedBid == Vickrey && len(a.Bids) > 1 {
			sorted := make([]Bid, len(a.Bids))
			copy(sorted, a.Bids)
			sort.SliceStable(sorted, func(i, j int) bool {
				return sorted[i].Amount.Value() > sorted[j].Amount.Value()
			})
			// Highest bidder wins but pays the second-highest price.
			return sorted[1].Amount, sorted[0].User, true
		}
		highest, _ := a.highestBid()
		return highest.Amount, highest.User, true

	case KindTimedAscending:
		highest, _ := a.highestBid()
		if highest.Amount.Value() >= a.TimedAscending.Options.ReservePrice {
			return highest.Amount, highest.User, true
		}
	}

	return values.Amount{}, "", false
}

// HasEnded reports whether the auction is over at time now. For timed
// ascending auctions the soft-close extended end counts.
func (a *Auction) HasEnded(now time.Time) bool {
	if a.Kind == KindTimedAscending {
		return now.After(a.effectiveEnd())
	}
	return now.After(a.Expiry)
}

// effectiveEnd is the extended end time if a bid pushed it, else Expiry.
func (a *Auction) effectiveEnd() time.Time {
	if a.Kind == KindTimedAscending && a.TimedAscending.EndsAt != nil {
		return *a.TimedAscending.EndsAt
	}
	return a.Expiry
}

// highestBid returns the first bid with the maximum amount, keeping the
// tie-break stable with respect to insertion order.
func (a *Auction) highestBid() (Bid, bool) {
	if len(a.Bids) == 0 {
		return Bid{}, false
	}
	highest := a.Bids[0]
	for _, b := range a.Bids[1:] {
		if b.Amount.Value() > highest.Amount.Value() {
			highest = b
		}
	}
	return highest, true
}
