package marketplace

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openbid/auction-exchange-backend/internal/domain/auction"
	apperrors "github.com/openbid/auction-exchange-backend/internal/domain/errors"
	"github.com/openbid/auction-exchange-backend/internal/domain/values"
)

type memoryRepo struct {
	auctions map[int64]*auction.Auction
	nextID   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{auctions: make(map[int64]*auction.Auction), nextID: 1}
}

func (r *memoryRepo) GetByID(_ context.Context, id int64) (*auction.Auction, error) {
	a, ok := r.auctions[id]
	if !ok {
		return nil, nil
	}
	clone := *a
	clone.Bids = append([]auction.Bid{}, a.Bids...)
	if a.TimedAscending != nil {
		state := *a.TimedAscending
		clone.TimedAscending = &state
	}
	return &clone, nil
}

func (r *memoryRepo) List(ctx context.Context) ([]*auction.Auction, error) {
	out := make([]*auction.Auction, 0, len(r.auctions))
	for id := int64(1); id < r.nextID; id++ {
		if a, err := r.GetByID(ctx, id); err == nil && a != nil {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memoryRepo) Create(_ context.Context, a *auction.Auction) error {
	a.ID = r.nextID
	r.nextID++
	r.auctions[a.ID] = a
	return nil
}

func (r *memoryRepo) Update(_ context.Context, a *auction.Auction) error {
	stored, ok := r.auctions[a.ID]
	if !ok {
		return apperrors.NewRepository("auction not found")
	}
	if len(a.Bids) < len(stored.Bids) {
		return apperrors.NewInternal("Should not be able to delete bids")
	}
	r.auctions[a.ID] = a
	return nil
}

var (
	testStart  = time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
	testExpiry = time.Date(2016, 2, 1, 0, 0, 0, 0, time.UTC)
)

func newTestService(t *testing.T) (*Service, *memoryRepo, *clockwork.FakeClock) {
	t.Helper()
	repo := newMemoryRepo()
	clock := clockwork.NewFakeClockAt(testStart.Add(time.Hour))
	return NewService(repo, clock, zap.NewNop()), repo, clock
}

func sellerPrincipal() *values.User {
	u := values.NewBuyerOrSeller("x1", "Seller")
	return &u
}

func buyerPrincipal(id values.UserID) *values.User {
	u := values.NewBuyerOrSeller(id, "Buyer")
	return &u
}

func createCmd() CreateAuctionCommand {
	return CreateAuctionCommand{
		Title:    "First auction",
		Currency: values.SEK,
		StartsAt: testStart,
		Expiry:   testExpiry,
	}
}

func TestCreateAuctionRequiresPrincipal(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateAuction(context.Background(), nil, createCmd())
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeUnauthorized, appErr.Type)
}

func TestCreateAuctionAssignsID(t *testing.T) {
	svc, _, _ := newTestService(t)

	view, err := svc.CreateAuction(context.Background(), sellerPrincipal(), createCmd())
	require.NoError(t, err)
	assert.Equal(t, int64(1), view.ID)
	assert.Equal(t, values.UserID("x1"), view.Seller)
	assert.NotNil(t, view.Bids)
	assert.Empty(t, view.Bids)
	assert.False(t, view.HasEnded)
}

func TestCreateAuctionRejectsInvalidPeriod(t *testing.T) {
	svc, _, _ := newTestService(t)

	cmd := createCmd()
	cmd.StartsAt, cmd.Expiry = cmd.Expiry, cmd.StartsAt
	_, err := svc.CreateAuction(context.Background(), sellerPrincipal(), cmd)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeDomain, appErr.Type)
}

func TestPlaceBidOnUnknownAuction(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.PlaceBid(context.Background(), buyerPrincipal("x2"), PlaceBidCommand{
		AuctionID: 42,
		Amount:    values.NewAmount(100, values.SEK),
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	assert.True(t, appErr.Validation.Has(apperrors.BidErrUnknownAuction))
}

func TestPlaceBidRequiresPrincipal(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateAuction(context.Background(), sellerPrincipal(), createCmd())
	require.NoError(t, err)

	err = svc.PlaceBid(context.Background(), nil, PlaceBidCommand{
		AuctionID: 1,
		Amount:    values.NewAmount(100, values.SEK),
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeUnauthorized, appErr.Type)
}

func TestPlaceBidPersistsAndProjects(t *testing.T) {
	svc, repo, clock := newTestService(t)

	_, err := svc.CreateAuction(context.Background(), sellerPrincipal(), createCmd())
	require.NoError(t, err)

	clock.Advance(time.Hour)
	require.NoError(t, svc.PlaceBid(context.Background(), buyerPrincipal("x2"), PlaceBidCommand{
		AuctionID: 1,
		Amount:    values.NewAmount(100, values.SEK),
	}))

	stored, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, stored.Bids, 1)
	assert.Equal(t, int64(1), stored.Bids[0].ID)
	assert.Equal(t, clock.Now(), stored.Bids[0].At)

	view, err := svc.GetAuction(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, view.Bids, 1)
	assert.Equal(t, "2h0m0s", view.Bids[0].At)
}

func TestPlaceBidRejectionCarriesErrorSet(t *testing.T) {
	svc, _, clock := newTestService(t)

	_, err := svc.CreateAuction(context.Background(), sellerPrincipal(), createCmd())
	require.NoError(t, err)

	clock.Advance(time.Hour)
	err = svc.PlaceBid(context.Background(), sellerPrincipal(), PlaceBidCommand{
		AuctionID: 1,
		Amount:    values.NewAmount(100, values.DKK),
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	assert.True(t, appErr.Validation.Has(apperrors.BidErrSellerCannotBid))
	assert.True(t, appErr.Validation.Has(apperrors.BidErrCurrencyConversion))
}

func TestGetAuctionNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetAuction(context.Background(), 7)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestListAuctionsOrderedByID(t *testing.T) {
	svc, _, _ := newTestService(t)

	for _, title := range []string{"first", "second"} {
		cmd := createCmd()
		cmd.Title = title
		_, err := svc.CreateAuction(context.Background(), sellerPrincipal(), cmd)
		require.NoError(t, err)
	}

	views, err := svc.ListAuctions(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, int64(1), views[0].ID)
	assert.Equal(t, "first", views[0].Title)
	assert.Equal(t, int64(2), views[1].ID)
}

func TestViewRedactsBiddersWhileRunning(t *testing.T) {
	svc, _, clock := newTestService(t)

	_, err := svc.CreateAuction(context.Background(), sellerPrincipal(), createCmd())
	require.NoError(t, err)

	require.NoError(t, svc.PlaceBid(context.Background(), buyerPrincipal("x2"), PlaceBidCommand{
		AuctionID: 1,
		Amount:    values.NewAmount(100, values.SEK),
	}))

	view, err := svc.GetAuction(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, view.Bids, 1)
	assert.Empty(t, view.Bids[0].Bidder)

	// After expiry the identities are revealed along with the result.
	clock.Advance(testExpiry.Sub(clock.Now()) + time.Hour)
	view, err = svc.GetAuction(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, view.Bids, 1)
	assert.Equal(t, values.UserID("x2"), view.Bids[0].Bidder)
	require.NotNil(t, view.Winner)
	assert.Equal(t, values.UserID("x2"), *view.Winner)
	require.NotNil(t, view.Price)
	assert.Equal(t, values.NewAmount(100, values.SEK), *view.Price)
	assert.True(t, view.HasEnded)
}

func TestViewHidesResultDuringSoftClose(t *testing.T) {
	svc, _, clock := newTestService(t)

	cmd := createCmd()
	cmd.TimeFrame = 2 * time.Hour
	_, err := svc.CreateAuction(context.Background(), sellerPrincipal(), cmd)
	require.NoError(t, err)

	// A bid just before expiry extends the auction past it.
	clock.Advance(testExpiry.Sub(clock.Now()) - time.Minute)
	require.NoError(t, svc.PlaceBid(context.Background(), buyerPrincipal("x2"), PlaceBidCommand{
		AuctionID: 1,
		Amount:    values.NewAmount(100, values.SEK),
	}))

	// Past the scheduled expiry but inside the extension the auction is
	// still running: no winner, no price, bidder still redacted.
	clock.Advance(time.Hour)
	view, err := svc.GetAuction(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, view.HasEnded)
	assert.Nil(t, view.Winner)
	assert.Nil(t, view.Price)
	require.Len(t, view.Bids, 1)
	assert.Empty(t, view.Bids[0].Bidder)

	clock.Advance(2 * time.Hour)
	view, err = svc.GetAuction(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, view.HasEnded)
	require.NotNil(t, view.Winner)
	assert.Equal(t, values.UserID("x2"), *view.Winner)
	require.Len(t, view.Bids, 1)
	assert.Equal(t, values.UserID("x2"), view.Bids[0].Bidder)
}

func TestViewShowsBiddersWhenOpen(t *testing.T) {
	svc, _, _ := newTestService(t)

	cmd := createCmd()
	cmd.OpenBidders = true
	_, err := svc.CreateAuction(context.Background(), sellerPrincipal(), cmd)
	require.NoError(t, err)

	require.NoError(t, svc.PlaceBid(context.Background(), buyerPrincipal("x2"), PlaceBidCommand{
		AuctionID: 1,
		Amount:    values.NewAmount(100, values.SEK),
	}))

	view, err := svc.GetAuction(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, view.Bids, 1)
	assert.Equal(t, values.UserID("x2"), view.Bids[0].Bidder)
}

func TestSealedAuctionViewHidesBidsUntilEnded(t *testing.T) {
	svc, _, clock := newTestService(t)

	cmd := createCmd()
	cmd.SealedBid = auction.Vickrey
	_, err := svc.CreateAuction(context.Background(), sellerPrincipal(), cmd)
	require.NoError(t, err)

	require.NoError(t, svc.PlaceBid(context.Background(), buyerPrincipal("x2"), PlaceBidCommand{
		AuctionID: 1,
		Amount:    values.NewAmount(150, values.SEK),
	}))
	require.NoError(t, svc.PlaceBid(context.Background(), buyerPrincipal("x3"), PlaceBidCommand{
		AuctionID: 1,
		Amount:    values.NewAmount(200, values.SEK),
	}))

	view, err := svc.GetAuction(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, view.Bids)
	assert.Nil(t, view.Winner)

	clock.Advance(testExpiry.Sub(clock.Now()) + time.Hour)
	view, err = svc.GetAuction(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, view.Bids, 2)
	require.NotNil(t, view.Winner)
	assert.Equal(t, values.UserID("x3"), *view.Winner)
	require.NotNil(t, view.Price)
	assert.Equal(t, values.NewAmount(150, values.SEK), *view.Price)
}
