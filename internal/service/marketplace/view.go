package marketplace

import (
	"time"

	"github.com/openbid/auction-exchange-backend/internal/domain/auction"
	"github.com/openbid/auction-exchange-backend/internal/domain/values"
)

// AuctionView is the external projection of an auction at a reference
// time: the visible bid list and, once the auction has ended, the winner
// and the price owed.
type AuctionView struct {
	ID       int64               `json:"id"`
	StartsAt time.Time           `json:"startsAt"`
	Title    string              `json:"title"`
	Expiry   time.Time           `json:"expiry"`
	Seller   values.UserID       `json:"seller"`
	Currency values.CurrencyCode `json:"currency"`
	Bids     []BidView           `json:"bids"`
	Price    *values.Amount      `json:"price,omitempty"`
	Winner   *values.UserID      `json:"winner,omitempty"`
	HasEnded bool                `json:"hasEnded"`
}

// BidView is one visible bid. At is the offset from the auction start.
type BidView struct {
	Amount values.Amount `json:"amount"`
	Bidder values.UserID `json:"bidder"`
	At     string        `json:"at"`
}

// View projects an auction into its external model as of now. The bid
// list is empty, never null, while the visibility policy hides it.
// Bidder identities are redacted until the auction ends unless the
// seller opted into open bidders; the winner and price follow the same
// gate, so a soft-close extension past the scheduled expiry does not
// reveal the identity the bid list still hides.
func View(a *auction.Auction, now time.Time) *AuctionView {
	ended := a.HasEnded(now)
	revealBidders := a.OpenBidders || ended

	bids := []BidView{}
	for _, b := range a.GetBids(now) {
		bidder := b.User
		if !revealBidders {
			bidder = ""
		}
		bids = append(bids, BidView{
			Amount: b.Amount,
			Bidder: bidder,
			At:     b.At.Sub(a.StartsAt).String(),
		})
	}

	v := &AuctionView{
		ID:       a.ID,
		StartsAt: a.StartsAt,
		Title:    a.Title,
		Expiry:   a.Expiry,
		Seller:   a.Seller,
		Currency: a.Currency,
		Bids:     bids,
		HasEnded: ended,
	}

	if ended {
		if amount, winner, ok := a.TryGetAmountAndWinner(now); ok {
			v.Price = &amount
			v.Winner = &winner
		}
	}

	return v
}
