// Donation HTTP handlers.
//
// This file exposes REST endpoints for donation resources:
//   - POST   /donations             (register, donors)
//   - GET    /donations             (available feed, recipients, ETag support)
//   - POST   /donations/{id}/accept (claim, recipients)
//
// Handlers are transport-thin: they assemble the caller's AuthContext,
// call the allocation workflow, and translate results into HTTP
// responses (including conditional responses).
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodbridge/go-donation-backend/internal/domain"
	"github.com/foodbridge/go-donation-backend/internal/geo"
	"github.com/foodbridge/go-donation-backend/internal/http/middleware"
	"github.com/foodbridge/go-donation-backend/internal/publicdata"
	"github.com/foodbridge/go-donation-backend/internal/repo"
	"github.com/foodbridge/go-donation-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// AllocationWorkflow defines the donation and match operations consumed
// by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type AllocationWorkflow interface {
	// RegisterDonation creates a donation for the authenticated donor.
	RegisterDonation(ctx context.Context, auth domain.AuthContext, itemName, category string, quantity int, expiration time.Time) (*domain.Donation, error)
	// ListAvailableDonations returns the claimable feed, proximity-ranked
	// when origin is given.
	ListAvailableDonations(ctx context.Context, auth domain.AuthContext, origin *geo.Point) ([]repo.DonationWithRestaurant, error)
	// AcceptDonation claims a donation on behalf of a recipient.
	AcceptDonation(ctx context.Context, auth domain.AuthContext, donationID string) (*services.MatchSummary, error)
	// ReviewMatch applies a food bank's decision to a match and returns
	// the updated match.
	ReviewMatch(ctx context.Context, auth domain.AuthContext, matchID, decision string) (*services.MatchSummary, error)
	// ListPendingMatches returns the review queue for food banks.
	ListPendingMatches(ctx context.Context, auth domain.AuthContext) ([]repo.MatchDetail, error)
	// ListAcceptedMatches returns the caller's accepted matches.
	ListAcceptedMatches(ctx context.Context, auth domain.AuthContext) ([]repo.MatchDetail, error)
	// MatchHistory returns the audit trail for one match.
	MatchHistory(ctx context.Context, auth domain.AuthContext, matchID string) ([]domain.MatchLog, error)
}

// Directory defines read-only access to the public reference-data pools.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type Directory interface {
	ListRestaurants(ctx context.Context) ([]publicdata.Record, error)
	ListRecipients(ctx context.Context) ([]publicdata.Record, error)
	ListFoodbanks(ctx context.Context) ([]publicdata.Record, error)
	SearchRestaurants(ctx context.Context, term string) ([]publicdata.Record, error)
	SearchRecipients(ctx context.Context, term string) ([]publicdata.Record, error)
	SearchFoodbanks(ctx context.Context, term string) ([]publicdata.Record, error)
	NearbyRestaurants(ctx context.Context, origin geo.Point, limit int) ([]publicdata.Record, error)
	NearbyRecipients(ctx context.Context, origin geo.Point, limit int) ([]publicdata.Record, error)
	NearbyFoodbanks(ctx context.Context, origin geo.Point, limit int) ([]publicdata.Record, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for donations, matches, and the public
// reference-data directory. It depends on abstract service interfaces to
// keep transport concerns separate from business logic.
type Handlers struct {
	alloc     AllocationWorkflow
	directory Directory
}

// New constructs and returns a Handlers instance bound to the given
// workflow and directory.
func New(alloc AllocationWorkflow, directory Directory) *Handlers {
	return &Handlers{alloc: alloc, directory: directory}
}

//
// DTOs
//

// CreateDonationRequest is the JSON payload for registering a donation.
type CreateDonationRequest struct {
	// ItemName describes the donated food item.
	ItemName string `json:"item_name" binding:"required,min=1,max=255" example:"Sourdough loaves"`
	// Category groups the item for recipients browsing the feed.
	Category string `json:"category" example:"Bakery"`
	// Quantity is the number of units donated (must be positive).
	Quantity int `json:"quantity" binding:"required" example:"12"`
	// ExpirationDate is the RFC 3339 instant after which the food is unsafe.
	ExpirationDate time.Time `json:"expiration_date" binding:"required" example:"2025-11-02T18:00:00Z"`
}

//
// Helpers
//

// auth assembles the caller identity stashed by the AuthContext
// middleware.
func auth(c *gin.Context) domain.AuthContext {
	return middleware.AuthFrom(c)
}

// parseOrigin reads optional lat/lng query params. Both must be present
// and parseable to yield an origin; a lone or malformed coordinate is
// reported as a binding error.
func parseOrigin(c *gin.Context) (*geo.Point, error) {
	latStr := strings.TrimSpace(c.Query("lat"))
	lngStr := strings.TrimSpace(c.Query("lng"))
	if latStr == "" && lngStr == "" {
		return nil, nil
	}
	if latStr == "" || lngStr == "" {
		return nil, errors.New("lat and lng must be provided together")
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid lat %q", latStr)
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid lng %q", lngStr)
	}
	return &geo.Point{Lat: lat, Lng: lng}, nil
}

//
// Handlers
//

// CreateDonation godoc
// @ID          createDonation
// @Summary     Register a donation
// @Description Registers a surplus-food donation for the donor's restaurant and returns the donation resource.
// @Tags        Donations
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID    header  string  true  "Donor user ID"  example(user123)
// @Param       X-User-Role  header  string  true  "Caller role"    example(DONOR)
// @Param       body         body    handlers.CreateDonationRequest  true  "Donation payload"
//
// @Success     201  {object}  domain.Donation
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse  "Caller is not a donor"
// @Failure     404  {object}  handlers.ErrorResponse  "Donor has no restaurant"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /donations [post]
func (h *Handlers) CreateDonation(c *gin.Context) {
	var req CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	d, err := h.alloc.RegisterDonation(c.Request.Context(), auth(c),
		req.ItemName, req.Category, req.Quantity, req.ExpirationDate)
	switch {
	case err == nil:
		ok(c, http.StatusCreated, d)
	case errors.Is(err, services.ErrForbidden):
		fail(c, http.StatusForbidden, ErrCodeForbidden, "donor role required")
	case errors.Is(err, services.ErrInvalidItemName):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "item name is required")
	case errors.Is(err, services.ErrInvalidQuantity):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "quantity must be positive")
	case errors.Is(err, services.ErrInvalidDate):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "expiration date must be in the future")
	case errors.Is(err, services.ErrRestaurantNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "no restaurant registered for this donor")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
	}
}

// ListDonations godoc
// @ID          listDonations
// @Summary     List available donations
// @Description Returns unexpired AVAILABLE donations with restaurant details, proximity-ranked when lat/lng are given. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Donations
// @Produce     json
//
// @Param       X-User-ID      header  string  true   "Recipient user ID"            example(user123)
// @Param       X-User-Role    header  string  true   "Caller role"                  example(RECIPIENT)
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"   example(W/\"abc123\")
// @Param       lat            query   number  false  "Origin latitude"
// @Param       lng            query   number  false  "Origin longitude"
//
// @Success     200  {array}  repo.DonationWithRestaurant
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     403  {object} handlers.ErrorResponse "Caller is not a recipient"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /donations [get]
func (h *Handlers) ListDonations(c *gin.Context) {
	ctx := c.Request.Context()

	origin, err := parseOrigin(c)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	// ETag pre-check (best effort).
	if db := h.workflowDB(); db != nil {
		count, maxTS, err := repo.DonationsStats(ctx, db, time.Now().UTC())
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"donations:%d:%d"`, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, err := h.alloc.ListAvailableDonations(ctx, auth(c), origin)
	switch {
	case err == nil:
		ok(c, http.StatusOK, items)
	case errors.Is(err, services.ErrForbidden):
		fail(c, http.StatusForbidden, ErrCodeForbidden, "recipient role required")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
	}
}

// AcceptDonation godoc
// @ID          acceptDonation
// @Summary     Claim a donation
// @Description Claims an AVAILABLE donation for the recipient, routes it to the nearest food bank, and returns the created match.
// @Tags        Donations
// @Produce     json
//
// @Param       X-User-ID        header  string  true   "Recipient user ID"   example(user123)
// @Param       X-User-Role      header  string  true   "Caller role"         example(RECIPIENT)
// @Param       Idempotency-Key  header  string  false  "Client retry token"
// @Param       id               path    string  true   "Donation ID (UUID)"  format(uuid)
//
// @Success     201  {object}  services.MatchSummary
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse  "Caller is not a recipient"
// @Failure     404  {object}  handlers.ErrorResponse  "Donation or food bank not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Donation already claimed or expired"
// @Failure     502  {object}  handlers.ErrorResponse  "Reference data unavailable"
// @Router      /donations/{id}/accept [post]
func (h *Handlers) AcceptDonation(c *gin.Context) {
	ctx := c.Request.Context()
	caller := auth(c)

	donationID := c.Param("id")
	if _, err := uuid.Parse(donationID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "donation id must be a UUID")
		return
	}

	// Replay path: a valid key with a stored record serves the match
	// created by the first attempt instead of re-running the claim.
	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey != "" {
		if db := h.workflowDB(); db != nil {
			if rec, err := repo.GetIdempotency(ctx, db, caller.UserID, donationID, idemKey, time.Now().UTC()); err == nil && rec != nil {
				if prev, err2 := repo.GetMatch(ctx, db, rec.MatchID); err2 == nil {
					c.Header("Idempotency-Replayed", "true")
					ok(c, rec.Status, services.MatchSummary{
						MatchID:     prev.ID,
						DonationID:  prev.DonationID,
						RecipientID: prev.RecipientID,
						FoodBankID:  prev.FoodBankID,
						Status:      prev.Status,
						CreatedAt:   prev.CreatedAt,
					})
					return
				}
			}
		}
	}

	summary, err := h.alloc.AcceptDonation(ctx, caller, donationID)
	switch {
	case err == nil:
		// Store path, best effort. A failed insert only costs the
		// client its replay.
		if idemKey != "" {
			if db := h.workflowDB(); db != nil {
				ttl := 24 * time.Hour
				_, _ = repo.CreateIdempotency(ctx, db, caller.UserID, donationID, idemKey, summary.MatchID, http.StatusCreated, ttl)
			}
		}
		ok(c, http.StatusCreated, summary)
	case errors.Is(err, services.ErrForbidden):
		fail(c, http.StatusForbidden, ErrCodeForbidden, "recipient role required")
	case errors.Is(err, services.ErrDonationNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "donation not found")
	case errors.Is(err, services.ErrNoFoodBankAvailable):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "no food bank available nearby")
	case errors.Is(err, services.ErrDonationExpired):
		fail(c, http.StatusConflict, ErrCodeDonationExpired, "donation has expired")
	case errors.Is(err, services.ErrDonationNotAvailable), errors.Is(err, services.ErrDuplicateMatch):
		fail(c, http.StatusConflict, ErrCodeConflict, "donation already claimed")
	case errors.Is(err, publicdata.ErrUpstreamUnavailable):
		fail(c, http.StatusBadGateway, ErrCodeUpstreamUnavailable, "reference data unavailable")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// workflowDB returns the underlying *gorm.DB when the workflow is the
// concrete service, enabling cheap stat queries for conditional
// responses. Returns nil for test doubles.
func (h *Handlers) workflowDB() *gorm.DB {
	svc, ok := h.alloc.(*services.AllocationService)
	if !ok || svc.Donations == nil {
		return nil
	}
	return svc.Donations.DB
}
