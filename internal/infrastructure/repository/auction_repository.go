package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/openbid/auction-exchange-backend/internal/domain/auction"
	apperrors "github.com/openbid/auction-exchange-backend/internal/domain/errors"
	"github.com/openbid/auction-exchange-backend/internal/domain/values"
	"github.com/openbid/auction-exchange-backend/internal/infrastructure/database"
	"github.com/openbid/auction-exchange-backend/internal/service/marketplace"
)

// auctionRepository implements marketplace.AuctionRepository on PostgreSQL.
type auctionRepository struct {
	pool *database.Pool
}

// NewAuctionRepository creates the pgx-backed auction repository.
func NewAuctionRepository(pool *database.Pool) marketplace.AuctionRepository {
	return &auctionRepository{pool: pool}
}

const auctionColumns = `id, title, starts_at, expiry, user_id, currency, auction_type, options, ends_at, open_bidders`

// GetByID loads one auction with its bids; (nil, nil) when absent.
func (r *auctionRepository) GetByID(ctx context.Context, id int64) (*auction.Auction, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+auctionColumns+` FROM auctions WHERE id = $1`, id)

	a, err := scanAuction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewRepository("loading auction").WithCause(err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, at, amount_value, amount_currency, user_id
		 FROM bids WHERE auction_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, apperrors.NewRepository("loading bids").WithCause(err)
	}
	defer rows.Close()

	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, apperrors.NewRepository("scanning bid").WithCause(err)
		}
		a.Bids = append(a.Bids, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewRepository("loading bids").WithCause(err)
	}
	return a, nil
}

// List loads every auction with its bids, ordered by id.
func (r *auctionRepository) List(ctx context.Context) ([]*auction.Auction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+auctionColumns+` FROM auctions ORDER BY id`)
	if err != nil {
		return nil, apperrors.NewRepository("listing auctions").WithCause(err)
	}
	defer rows.Close()

	auctions := []*auction.Auction{}
	byID := map[int64]*auction.Auction{}
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, apperrors.NewRepository("scanning auction").WithCause(err)
		}
		auctions = append(auctions, a)
		byID[a.ID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewRepository("listing auctions").WithCause(err)
	}

	bidRows, err := r.pool.Query(ctx,
		`SELECT auction_id, id, at, amount_value, amount_currency, user_id
		 FROM bids ORDER BY auction_id, id`)
	if err != nil {
		return nil, apperrors.NewRepository("listing bids").WithCause(err)
	}
	defer bidRows.Close()

	for bidRows.Next() {
		var auctionID int64
		var b auction.Bid
		var value int64
		var currency, user string
		if err := bidRows.Scan(&auctionID, &b.ID, &b.At, &value, &currency, &user); err != nil {
			return nil, apperrors.NewRepository("scanning bid").WithCause(err)
		}
		code, err := values.ParseCurrencyCode(currency)
		if err != nil {
			return nil, apperrors.NewRepository("parsing bid currency").WithCause(err)
		}
		b.Amount = values.NewAmount(value, code)
		b.User = values.UserID(user)
		if a, ok := byID[auctionID]; ok {
			a.Bids = append(a.Bids, b)
		}
	}
	if err := bidRows.Err(); err != nil {
		return nil, apperrors.NewRepository("listing bids").WithCause(err)
	}
	return auctions, nil
}

// Create persists a new auction and writes the assigned id back.
func (r *auctionRepository) Create(ctx context.Context, a *auction.Auction) error {
	options, err := encodeOptions(a)
	if err != nil {
		return err
	}

	err = r.pool.WithTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`INSERT INTO auctions (title, starts_at, expiry, user_id, currency, auction_type, options, ends_at, open_bidders)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 RETURNING id`,
			a.Title, a.StartsAt, a.Expiry, string(a.Seller), a.Currency.String(),
			string(a.Kind), options, endsAt(a), a.OpenBidders)
		if err := row.Scan(&a.ID); err != nil {
			return err
		}
		return insertBids(ctx, tx, a.ID, a.Bids)
	})
	if err != nil {
		return apperrors.NewRepository("creating auction").WithCause(err)
	}
	return nil
}

// Update persists the changes an admitted bid made: the new bid rows plus
// the mutable end times. The auction row is locked for the duration of
// the transaction so concurrent admissions serialize; the composite bid
// key backstops anything that slips past the lock.
func (r *auctionRepository) Update(ctx context.Context, a *auction.Auction) error {
	err := r.pool.WithTx(ctx, func(tx pgx.Tx) error {
		var id int64
		row := tx.QueryRow(ctx, `SELECT id FROM auctions WHERE id = $1 FOR UPDATE`, a.ID)
		if err := row.Scan(&id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound(fmt.Sprintf("auction %d not found", a.ID))
			}
			return err
		}

		rows, err := tx.Query(ctx, `SELECT id FROM bids WHERE auction_id = $1 ORDER BY id`, a.ID)
		if err != nil {
			return err
		}
		stored := []int64{}
		for rows.Next() {
			var bidID int64
			if err := rows.Scan(&bidID); err != nil {
				rows.Close()
				return err
			}
			stored = append(stored, bidID)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		fresh, err := newBids(stored, a.Bids)
		if err != nil {
			return err
		}
		if err := insertBids(ctx, tx, a.ID, fresh); err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE auctions SET expiry = $2, ends_at = $3 WHERE id = $1`,
			a.ID, a.Expiry, endsAt(a))
		return err
	})
	return classifyUpdateError(err)
}

// classifyUpdateError maps update transaction failures onto repository
// errors. A duplicate (auction_id, id) key means a concurrent admission
// won the bid-id race; the row lock makes that exceptional, but the
// composite key is the backstop and its violation gets its own message.
func classifyUpdateError(err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}
	if IsDuplicateKeyViolation(err) {
		return apperrors.NewRepository("concurrent bid admission: bid id already taken").WithCause(err)
	}
	return apperrors.NewRepository("updating auction").WithCause(err)
}

// newBids returns the bids whose ids are not yet stored. Bids are
// append-only: every stored id must still be present in the incoming
// list.
func newBids(stored []int64, incoming []auction.Bid) ([]auction.Bid, error) {
	present := make(map[int64]bool, len(incoming))
	for _, b := range incoming {
		present[b.ID] = true
	}
	for _, id := range stored {
		if !present[id] {
			return nil, apperrors.NewInternal("Should not be able to delete bids")
		}
	}

	known := make(map[int64]bool, len(stored))
	for _, id := range stored {
		known[id] = true
	}
	fresh := []auction.Bid{}
	for _, b := range incoming {
		if !known[b.ID] {
			fresh = append(fresh, b)
		}
	}
	return fresh, nil
}

func insertBids(ctx context.Context, tx pgx.Tx, auctionID int64, bids []auction.Bid) error {
	for _, b := range bids {
		_, err := tx.Exec(ctx,
			`INSERT INTO bids (auction_id, id, at, amount_value, amount_currency, user_id)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			auctionID, b.ID, b.At, b.Amount.Value(), b.Amount.Currency().String(), string(b.User))
		if err != nil {
			return err
		}
	}
	return nil
}

// encodeOptions renders the canonical options string as the jsonb value.
func encodeOptions(a *auction.Auction) ([]byte, error) {
	var s string
	switch a.Kind {
	case auction.KindTimedAscending:
		s = a.TimedAscending.Options.String()
	case auction.KindSingleSealedBid:
		s = string(a.SealedBid)
	default:
		return nil, apperrors.NewInternal("unknown auction type: " + string(a.Kind))
	}
	return json.Marshal(s)
}

func endsAt(a *auction.Auction) *time.Time {
	if a.Kind == auction.KindTimedAscending {
		return a.TimedAscending.EndsAt
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAuction(row rowScanner) (*auction.Auction, error) {
	var (
		a           auction.Auction
		seller      string
		currency    string
		kind        string
		optionsJSON []byte
		ends        *time.Time
	)
	if err := row.Scan(&a.ID, &a.Title, &a.StartsAt, &a.Expiry, &seller,
		&currency, &kind, &optionsJSON, &ends, &a.OpenBidders); err != nil {
		return nil, err
	}

	code, err := values.ParseCurrencyCode(currency)
	if err != nil {
		return nil, err
	}
	a.Seller = values.UserID(seller)
	a.Currency = code
	a.Bids = []auction.Bid{}

	a.Kind, err = auction.ParseKind(kind)
	if err != nil {
		return nil, err
	}

	var options string
	if err := json.Unmarshal(optionsJSON, &options); err != nil {
		return nil, fmt.Errorf("decoding options: %w", err)
	}
	switch a.Kind {
	case auction.KindTimedAscending:
		opts, err := auction.ParseTimedAscendingOptions(options)
		if err != nil {
			return nil, err
		}
		a.TimedAscending = &auction.TimedAscendingState{Options: opts, EndsAt: ends}
	case auction.KindSingleSealedBid:
		sealed, err := auction.ParseSealedBidOptions(options)
		if err != nil {
			return nil, err
		}
		a.SealedBid = sealed
	}
	return &a, nil
}

func scanBid(row rowScanner) (auction.Bid, error) {
	var (
		b        auction.Bid
		value    int64
		currency string
		user     string
	)
	if err := row.Scan(&b.ID, &b.At, &value, &currency, &user); err != nil {
		return auction.Bid{}, err
	}
	code, err := values.ParseCurrencyCode(currency)
	if err != nil {
		return auction.Bid{}, err
	}
	b.Amount = values.NewAmount(value, code)
	b.User = values.UserID(user)
	return b, nil
}
