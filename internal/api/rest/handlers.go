package rest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/openbid/auction-exchange-backend/internal/domain/auction"
	apperrors "github.com/openbid/auction-exchange-backend/internal/domain/errors"
	"github.com/openbid/auction-exchange-backend/internal/domain/values"
	"github.com/openbid/auction-exchange-backend/internal/service/marketplace"
)

// Handler serves the auction HTTP API.
type Handler struct {
	service  *marketplace.Service
	validate *validator.Validate
	logger   *zap.Logger
}

// NewHandler creates the API handler.
func NewHandler(service *marketplace.Service, logger *zap.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// Routes assembles the router with the full middleware stack.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /auctions", h.listAuctions)
	mux.HandleFunc("GET /auctions/{id}", h.getAuction)
	mux.HandleFunc("POST /auction", h.createAuction)
	mux.HandleFunc("POST /auctions/{id}/bids", h.placeBid)

	mux.HandleFunc("GET /healthz", h.health)
	mux.Handle("GET /metrics", promhttp.Handler())

	limiter := newRateLimiter(100, 200)
	return chain(mux,
		requestIDMiddleware,
		loggingMiddleware(h.logger),
		recoveryMiddleware(h.logger),
		metricsMiddleware,
		tracingMiddleware,
		limiter.middleware,
		authMiddleware,
	)
}

// createAuctionRequest is the POST /auction body. Optional numeric
// options default to zero; a sealed-bid option switches the format.
type createAuctionRequest struct {
	Title                  string    `json:"title" validate:"required"`
	Currency               string    `json:"currency" validate:"required"`
	StartsAt               time.Time `json:"startsAt" validate:"required"`
	EndsAt                 time.Time `json:"endsAt" validate:"required"`
	MinRaise               int64     `json:"minRaise"`
	ReservePrice           int64     `json:"reservePrice"`
	TimeFrame              int64     `json:"timeFrame"`
	SingleSealedBidOptions string    `json:"singleSealedBidOptions" validate:"omitempty,oneof=Blind Vickrey"`
	OpenBidders            bool      `json:"openBidders"`
}

type placeBidRequest struct {
	Amount string `json:"amount" validate:"required"`
}

func (h *Handler) createAuction(w http.ResponseWriter, r *http.Request) {
	var req createAuctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}
	currency, err := values.ParseCurrencyCode(req.Currency)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_CURRENCY", "Unknown currency: "+req.Currency)
		return
	}

	view, err := h.service.CreateAuction(r.Context(), principalFrom(r.Context()), marketplace.CreateAuctionCommand{
		Title:        req.Title,
		Currency:     currency,
		StartsAt:     req.StartsAt,
		Expiry:       req.EndsAt,
		MinRaise:     req.MinRaise,
		ReservePrice: req.ReservePrice,
		TimeFrame:    time.Duration(req.TimeFrame) * time.Second,
		SealedBid:    auction.SealedBidOptions(req.SingleSealedBidOptions),
		OpenBidders:  req.OpenBidders,
	})
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *Handler) placeBid(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Invalid auction id")
		return
	}

	var req placeBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_FAILED",
			apperrors.BidErrMustSpecifyAmount.String())
		return
	}
	amount, err := values.ParseAmount(req.Amount)
	if err != nil {
		h.writeAppError(w, err)
		return
	}

	if err := h.service.PlaceBid(r.Context(), principalFrom(r.Context()), marketplace.PlaceBidCommand{
		AuctionID: id,
		Amount:    amount,
	}); err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok")
}

func (h *Handler) getAuction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Invalid auction id")
		return
	}

	view, err := h.service.GetAuction(r.Context(), id)
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) listAuctions(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ListAuctions(r.Context())
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeAppError maps structured errors onto responses. An unknown
// auction reads as 404 even though admission reports it as a validation
// flag; anything unstructured is a 500.
func (h *Handler) writeAppError(w http.ResponseWriter, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		h.logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	status := appErr.StatusCode
	if appErr.Type == apperrors.ErrorTypeValidation && appErr.Validation.Has(apperrors.BidErrUnknownAuction) {
		status = http.StatusNotFound
	}
	if status >= 500 {
		h.logger.Error("request failed", zap.String("code", appErr.Code), zap.Error(appErr))
		writeError(w, status, appErr.Code, "An internal error occurred")
		return
	}
	writeError(w, status, appErr.Code, appErr.Message)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]errorBody{"error": {Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
