package marketplace

import (
	"context"

	"github.com/openbid/auction-exchange-backend/internal/domain/auction"
)

// AuctionRepository is the persistence port for auctions and their bids.
// Bids are append-only: Update may add bids and adjust the end times, but
// an implementation must refuse to drop bids that were already persisted.
type AuctionRepository interface {
	// GetByID loads an auction with its full bid history.
	GetByID(ctx context.Context, id int64) (*auction.Auction, error)

	// List returns all auctions with their bids, ordered by id.
	List(ctx context.Context) ([]*auction.Auction, error)

	// Create persists a new auction and assigns its ID.
	Create(ctx context.Context, a *auction.Auction) error

	// Update persists the state changes made by an admitted bid.
	Update(ctx context.Context, a *auction.Auction) error
}
