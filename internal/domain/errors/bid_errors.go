package errors

import "strings"

// BidErrors is a bit set of reasons a bid or auction command is invalid.
// Admission checks accumulate every applicable flag with bitwise OR so a
// caller learns all of them in one response.
type BidErrors uint16

const (
	BidErrNone                 BidErrors = 0
	BidErrUnknownAuction       BidErrors = 1 << 0
	BidErrAuctionAlreadyExists BidErrors = 1 << 1
	BidErrAuctionHasEnded      BidErrors = 1 << 2
	BidErrAuctionHasNotStarted BidErrors = 1 << 3
	BidErrAuctionNotFound      BidErrors = 1 << 4
	BidErrSellerCannotBid      BidErrors = 1 << 5
	BidErrCurrencyConversion   BidErrors = 1 << 6
	BidErrInvalidUserData      BidErrors = 1 << 7
	BidErrMustBeatHighestBid   BidErrors = 1 << 8
	BidErrAlreadyPlacedBid     BidErrors = 1 << 9
	BidErrMustRaiseWithAtLeast BidErrors = 1 << 10
	BidErrMustSpecifyAmount    BidErrors = 1 << 11
)

var bidErrorMessages = []struct {
	flag BidErrors
	msg  string
}{
	{BidErrUnknownAuction, "Unknown auction"},
	{BidErrAuctionAlreadyExists, "Auction already exists"},
	{BidErrAuctionHasEnded, "Auction has ended"},
	{BidErrAuctionHasNotStarted, "Auction has not started"},
	{BidErrAuctionNotFound, "Auction not found"},
	{BidErrSellerCannotBid, "Seller cannot place bids"},
	{BidErrCurrencyConversion, "Bid currency conversion error"},
	{BidErrInvalidUserData, "Invalid user data"},
	{BidErrMustBeatHighestBid, "Must place bid over highest bid"},
	{BidErrAlreadyPlacedBid, "Already placed bid"},
	{BidErrMustRaiseWithAtLeast, "Must raise with at least minimum raise amount"},
	{BidErrMustSpecifyAmount, "Must specify amount"},
}

// IsNone reports whether no flag is set.
func (e BidErrors) IsNone() bool {
	return e == BidErrNone
}

// Has reports whether every flag in mask is set.
func (e BidErrors) Has(mask BidErrors) bool {
	return e&mask == mask
}

// String renders the human-readable message for every set flag, joined
// with ", ".
func (e BidErrors) String() string {
	if e.IsNone() {
		return "No error"
	}
	var msgs []string
	for _, m := range bidErrorMessages {
		if e.Has(m.flag) {
			msgs = append(msgs, m.msg)
		}
	}
	return strings.Join(msgs, ", ")
}
