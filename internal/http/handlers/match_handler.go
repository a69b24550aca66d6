// Match HTTP handlers.
//
// This file exposes REST endpoints for match review by food banks:
//   - GET    /matches/pending        (review queue)
//   - GET    /matches/accepted       (owned matches, enriched, ETag support)
//   - POST   /matches/{id}/accept    (decision)
//   - POST   /matches/{id}/reject    (decision)
//   - POST   /matches/{id}/complete  (decision)
//   - GET    /matches/{id}/history   (audit trail)
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodbridge/go-donation-backend/internal/repo"
	"github.com/foodbridge/go-donation-backend/internal/services"
)

// ListPendingMatches godoc
// @ID          listPendingMatches
// @Summary     List pending matches
// @Description Returns all PENDING matches with donation, restaurant, and recipient details, oldest first.
// @Tags        Matches
// @Produce     json
//
// @Param       X-User-ID    header  string  true  "Food bank user ID"  example(fb-1)
// @Param       X-User-Role  header  string  true  "Caller role"        example(FOOD_BANK)
//
// @Success     200  {array}  repo.MatchDetail
// @Failure     403  {object} handlers.ErrorResponse "Caller is not a food bank"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /matches/pending [get]
func (h *Handlers) ListPendingMatches(c *gin.Context) {
	items, err := h.alloc.ListPendingMatches(c.Request.Context(), auth(c))
	switch {
	case err == nil:
		ok(c, http.StatusOK, items)
	case errors.Is(err, services.ErrForbidden):
		fail(c, http.StatusForbidden, ErrCodeForbidden, "food bank role required")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
	}
}

// ListAcceptedMatches godoc
// @ID          listAcceptedMatches
// @Summary     List accepted matches
// @Description Returns the caller's ACCEPTED matches with recipient contact details merged from the public directory. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Matches
// @Produce     json
//
// @Param       X-User-ID      header  string  true   "Food bank user ID"           example(fb-1)
// @Param       X-User-Role    header  string  true   "Caller role"                 example(FOOD_BANK)
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"  example(W/\"abc123\")
//
// @Success     200  {array}  repo.MatchDetail
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     403  {object} handlers.ErrorResponse "Caller is not a food bank"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /matches/accepted [get]
func (h *Handlers) ListAcceptedMatches(c *gin.Context) {
	ctx := c.Request.Context()
	caller := auth(c)

	// ETag pre-check (best effort).
	if db := h.workflowDB(); db != nil && caller.UserID != "" {
		count, maxTS, err := repo.MatchesStats(ctx, db, caller.UserID)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"matches:%s:%d:%d"`, caller.UserID, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, err := h.alloc.ListAcceptedMatches(ctx, caller)
	switch {
	case err == nil:
		ok(c, http.StatusOK, items)
	case errors.Is(err, services.ErrForbidden):
		fail(c, http.StatusForbidden, ErrCodeForbidden, "food bank role required")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
	}
}

// AcceptMatch godoc
// @ID          acceptMatch
// @Summary     Accept a match
// @Description Accepts a PENDING match routed to the calling food bank. The donation stays REQUESTED until the hand-off is completed.
// @Tags        Matches
// @Produce     json
//
// @Param       X-User-ID    header  string  true  "Food bank user ID"  example(fb-1)
// @Param       X-User-Role  header  string  true  "Caller role"        example(FOOD_BANK)
// @Param       id           path    string  true  "Match ID (UUID)"    format(uuid)
//
// @Success     200  {object} services.MatchSummary
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     403  {object} handlers.ErrorResponse "Caller may not decide this match"
// @Failure     404  {object} handlers.ErrorResponse "Match not found"
// @Failure     409  {object} handlers.ErrorResponse "Match not pending or donation expired"
// @Router      /matches/{id}/accept [post]
func (h *Handlers) AcceptMatch(c *gin.Context) {
	h.reviewMatch(c, services.DecisionAccept)
}

// RejectMatch godoc
// @ID          rejectMatch
// @Summary     Reject a match
// @Description Rejects a PENDING match. The donation does not return to the available feed.
// @Tags        Matches
// @Produce     json
//
// @Param       X-User-ID    header  string  true  "Food bank user ID"  example(fb-1)
// @Param       X-User-Role  header  string  true  "Caller role"        example(FOOD_BANK)
// @Param       id           path    string  true  "Match ID (UUID)"    format(uuid)
//
// @Success     200  {object} services.MatchSummary
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     403  {object} handlers.ErrorResponse "Caller is not a food bank"
// @Failure     404  {object} handlers.ErrorResponse "Match not found"
// @Failure     409  {object} handlers.ErrorResponse "Match not pending"
// @Router      /matches/{id}/reject [post]
func (h *Handlers) RejectMatch(c *gin.Context) {
	h.reviewMatch(c, services.DecisionReject)
}

// CompleteMatch godoc
// @ID          completeMatch
// @Summary     Complete a match
// @Description Records the physical hand-off for an ACCEPTED match owned by the calling food bank and confirms the underlying donation.
// @Tags        Matches
// @Produce     json
//
// @Param       X-User-ID    header  string  true  "Food bank user ID"  example(fb-1)
// @Param       X-User-Role  header  string  true  "Caller role"        example(FOOD_BANK)
// @Param       id           path    string  true  "Match ID (UUID)"    format(uuid)
//
// @Success     200  {object} services.MatchSummary
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     403  {object} handlers.ErrorResponse "Caller may not decide this match"
// @Failure     404  {object} handlers.ErrorResponse "Match not found"
// @Failure     409  {object} handlers.ErrorResponse "Match not accepted"
// @Router      /matches/{id}/complete [post]
func (h *Handlers) CompleteMatch(c *gin.Context) {
	h.reviewMatch(c, services.DecisionComplete)
}

// reviewMatch validates the path parameter, applies a decision through
// the workflow, and maps the outcome onto the HTTP error taxonomy.
func (h *Handlers) reviewMatch(c *gin.Context, decision string) {
	matchID := c.Param("id")
	if _, err := uuid.Parse(matchID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "match id must be a UUID")
		return
	}

	summary, err := h.alloc.ReviewMatch(c.Request.Context(), auth(c), matchID, decision)
	switch {
	case err == nil:
		ok(c, http.StatusOK, summary)
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrMissingActor):
		fail(c, http.StatusForbidden, ErrCodeForbidden, "food bank role required for this match")
	case errors.Is(err, services.ErrMatchNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "match not found")
	case errors.Is(err, services.ErrDonationExpired):
		fail(c, http.StatusConflict, ErrCodeDonationExpired, "donation has expired")
	case errors.Is(err, services.ErrInvalidState):
		fail(c, http.StatusConflict, ErrCodeConflict, "match is not in a state that allows this decision")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// MatchHistory godoc
// @ID          matchHistory
// @Summary     Match audit trail
// @Description Returns the append-only status log for a match, oldest first.
// @Tags        Matches
// @Produce     json
//
// @Param       X-User-ID    header  string  true  "Food bank user ID"  example(fb-1)
// @Param       X-User-Role  header  string  true  "Caller role"        example(FOOD_BANK)
// @Param       id           path    string  true  "Match ID (UUID)"    format(uuid)
//
// @Success     200  {array}  domain.MatchLog
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     403  {object} handlers.ErrorResponse "Caller is not a food bank"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /matches/{id}/history [get]
func (h *Handlers) MatchHistory(c *gin.Context) {
	matchID := c.Param("id")
	if _, err := uuid.Parse(matchID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "match id must be a UUID")
		return
	}

	logs, err := h.alloc.MatchHistory(c.Request.Context(), auth(c), matchID)
	switch {
	case err == nil:
		ok(c, http.StatusOK, logs)
	case errors.Is(err, services.ErrForbidden):
		fail(c, http.StatusForbidden, ErrCodeForbidden, "food bank role required")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
	}
}
