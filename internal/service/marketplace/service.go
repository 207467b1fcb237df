package marketplace

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/openbid/auction-exchange-backend/internal/domain/auction"
	apperrors "github.com/openbid/auction-exchange-backend/internal/domain/errors"
	"github.com/openbid/auction-exchange-backend/internal/domain/values"
)

// Service orchestrates the auction commands and queries. It is safe for
// concurrent use; all mutable state lives in the repository.
type Service struct {
	repo   AuctionRepository
	clock  clockwork.Clock
	logger *zap.Logger
}

// NewService creates the marketplace service.
func NewService(repo AuctionRepository, clock clockwork.Clock, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		clock:  clock,
		logger: logger,
	}
}

// CreateAuction opens an auction for the authenticated seller and returns
// its projected view.
func (s *Service) CreateAuction(ctx context.Context, principal *values.User, cmd CreateAuctionCommand) (*AuctionView, error) {
	if principal == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}

	a, err := auction.New(auction.Config{
		Title:        cmd.Title,
		Currency:     cmd.Currency,
		StartsAt:     cmd.StartsAt,
		Expiry:       cmd.Expiry,
		MinRaise:     cmd.MinRaise,
		ReservePrice: cmd.ReservePrice,
		TimeFrame:    cmd.TimeFrame,
		SealedBid:    cmd.SealedBid,
		OpenBidders:  cmd.OpenBidders,
	}, principal.ID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("auction created",
		zap.Int64("auction_id", a.ID),
		zap.String("seller", string(a.Seller)),
		zap.String("auction_type", string(a.Kind)))

	return View(a, s.clock.Now()), nil
}

// PlaceBid admits a bid on an auction and persists the post-state. The
// bid timestamp and the admission reference time are the same clock read.
func (s *Service) PlaceBid(ctx context.Context, principal *values.User, cmd PlaceBidCommand) error {
	a, err := s.repo.GetByID(ctx, cmd.AuctionID)
	if err != nil {
		return err
	}
	if a == nil {
		return apperrors.NewValidation(apperrors.BidErrUnknownAuction)
	}

	if principal == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	now := s.clock.Now()
	if errs := a.TryAddBid(now, auction.BidData{
		User:   principal.ID,
		Amount: cmd.Amount,
		At:     now,
	}); !errs.IsNone() {
		return apperrors.NewValidation(errs)
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return err
	}

	s.logger.Info("bid placed",
		zap.Int64("auction_id", a.ID),
		zap.String("bidder", string(principal.ID)),
		zap.String("amount", cmd.Amount.String()))

	return nil
}

// GetAuction returns the view of one auction, or a not-found error.
func (s *Service) GetAuction(ctx context.Context, id int64) (*AuctionView, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperrors.NewNotFound(fmt.Sprintf("auction %d not found", id))
	}
	return View(a, s.clock.Now()), nil
}

// ListAuctions returns the views of every auction, ordered by id.
func (s *Service) ListAuctions(ctx context.Context) ([]*AuctionView, error) {
	auctions, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	views := make([]*AuctionView, 0, len(auctions))
	for _, a := range auctions {
		views = append(views, View(a, now))
	}
	return views, nil
}
