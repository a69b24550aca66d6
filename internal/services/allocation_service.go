// Package services: AllocationService.
//
// This file implements AllocationService, the top-level workflow that
// the HTTP boundary calls. It enforces who may do what (role and
// identity guards on the caller's AuthContext), delegates the actual
// state changes to DonationService and MatchService, and counts
// outcomes for Prometheus.
//
// The workflow never reads the HTTP request itself; the boundary builds
// an AuthContext and passes it in.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/foodbridge/go-donation-backend/internal/domain"
	"github.com/foodbridge/go-donation-backend/internal/geo"
	"github.com/foodbridge/go-donation-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Review decisions accepted by ReviewMatch.
const (
	DecisionAccept   = "accept"
	DecisionReject   = "reject"
	DecisionComplete = "complete"
)

var (
	matchesCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "donation_matches_created_total",
		Help: "Matches created by the allocation workflow.",
	})
	matchesDecidedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "donation_matches_decided_total",
		Help: "Match decisions by outcome.",
	}, []string{"decision"})
	allocationFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "donation_allocation_failures_total",
		Help: "Allocation attempts that failed, by reason.",
	}, []string{"reason"})
)

func init() {
	prometheus.MustRegister(matchesCreatedTotal, matchesDecidedTotal, allocationFailuresTotal)
}

// MatchSummary is the workflow-level view of a match, returned to the
// boundary after a claim or a review decision.
type MatchSummary struct {
	MatchID     string             `json:"match_id"`
	DonationID  string             `json:"donation_id"`
	RecipientID string             `json:"recipient_id"`
	FoodBankID  *string            `json:"food_bank_id,omitempty"`
	Status      domain.MatchStatus `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
}

// summarize flattens a match row into the boundary view.
func summarize(m *domain.Match) *MatchSummary {
	return &MatchSummary{
		MatchID:     m.ID,
		DonationID:  m.DonationID,
		RecipientID: m.RecipientID,
		FoodBankID:  m.FoodBankID,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
	}
}

// AllocationService wires the donation and match ledgers into the two
// user-facing flows: recipients claiming donations and food banks
// reviewing the resulting matches.
type AllocationService struct {
	Donations *DonationService
	Matches   *MatchService
}

// AcceptDonation claims donationID on behalf of the authenticated
// recipient. Non-recipient callers get ErrForbidden. On success the
// donation is REQUESTED and a PENDING match exists.
func (s *AllocationService) AcceptDonation(ctx context.Context, auth domain.AuthContext, donationID string) (*MatchSummary, error) {
	tr := otel.Tracer("services/AllocationService")
	ctx, span := tr.Start(ctx, "AcceptDonation",
		trace.WithAttributes(
			attribute.String("donation.id", donationID),
			attribute.String("user.id", auth.UserID),
		),
	)
	defer span.End()

	if auth.UserID == "" || !auth.Is(domain.RoleRecipient) {
		allocationFailuresTotal.WithLabelValues("forbidden").Inc()
		return nil, ErrForbidden
	}

	match, err := s.Matches.CreateForDonation(ctx, auth.UserID, donationID)
	if err != nil {
		allocationFailuresTotal.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}

	matchesCreatedTotal.Inc()
	return summarize(match), nil
}

// ReviewMatch applies a food bank's decision to a match.
//
// Semantics:
//   - The caller must be a food bank (ErrForbidden).
//   - For accept and complete, the caller must be the food bank the
//     match was routed to; a mismatch is ErrForbidden. A match whose
//     routed food bank was never recorded may be accepted by any food
//     bank, which then becomes its owner.
//   - Unknown decisions return ErrInvalidState.
//
// On success the updated match is returned as a summary.
func (s *AllocationService) ReviewMatch(ctx context.Context, auth domain.AuthContext, matchID, decision string) (*MatchSummary, error) {
	tr := otel.Tracer("services/AllocationService")
	ctx, span := tr.Start(ctx, "ReviewMatch",
		trace.WithAttributes(
			attribute.String("match.id", matchID),
			attribute.String("decision", decision),
		),
	)
	defer span.End()

	if auth.UserID == "" || !auth.Is(domain.RoleFoodBank) {
		return nil, ErrForbidden
	}

	if decision == DecisionAccept || decision == DecisionComplete {
		match, err := s.Matches.Get(ctx, matchID)
		if err != nil {
			return nil, err
		}
		if match.FoodBankID != nil && *match.FoodBankID != auth.UserID {
			return nil, ErrForbidden
		}
	}

	var err error
	switch decision {
	case DecisionAccept:
		err = s.Matches.Accept(ctx, auth.UserID, matchID)
	case DecisionReject:
		err = s.Matches.Reject(ctx, auth.UserID, matchID)
	case DecisionComplete:
		err = s.Matches.Complete(ctx, auth.UserID, matchID)
	default:
		return nil, ErrInvalidState
	}
	if err != nil {
		return nil, err
	}

	matchesDecidedTotal.WithLabelValues(decision).Inc()

	match, err := s.Matches.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return summarize(match), nil
}

// RegisterDonation creates a donation for the authenticated donor.
func (s *AllocationService) RegisterDonation(ctx context.Context, auth domain.AuthContext, itemName, category string, quantity int, expiration time.Time) (*domain.Donation, error) {
	if auth.UserID == "" || !auth.Is(domain.RoleDonor) {
		return nil, ErrForbidden
	}
	return s.Donations.Create(ctx, auth.UserID, itemName, category, quantity, expiration)
}

// ListAvailableDonations returns the claimable feed for a recipient,
// proximity-ranked when origin is given.
func (s *AllocationService) ListAvailableDonations(ctx context.Context, auth domain.AuthContext, origin *geo.Point) ([]repo.DonationWithRestaurant, error) {
	if auth.UserID == "" || !auth.Is(domain.RoleRecipient) {
		return nil, ErrForbidden
	}
	return s.Donations.ListAvailable(ctx, origin)
}

// ListPendingMatches returns the review queue for a food bank.
func (s *AllocationService) ListPendingMatches(ctx context.Context, auth domain.AuthContext) ([]repo.MatchDetail, error) {
	if auth.UserID == "" || !auth.Is(domain.RoleFoodBank) {
		return nil, ErrForbidden
	}
	return s.Matches.ListPendingForReview(ctx)
}

// ListAcceptedMatches returns the caller's accepted matches.
func (s *AllocationService) ListAcceptedMatches(ctx context.Context, auth domain.AuthContext) ([]repo.MatchDetail, error) {
	if auth.UserID == "" || !auth.Is(domain.RoleFoodBank) {
		return nil, ErrForbidden
	}
	return s.Matches.ListAcceptedFor(ctx, auth.UserID)
}

// MatchHistory returns the audit trail for one match. Food banks only.
func (s *AllocationService) MatchHistory(ctx context.Context, auth domain.AuthContext, matchID string) ([]domain.MatchLog, error) {
	if auth.UserID == "" || !auth.Is(domain.RoleFoodBank) {
		return nil, ErrForbidden
	}
	return s.Matches.History(ctx, matchID)
}

// failureReason maps an allocation error to a low-cardinality metric
// label.
func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrDonationNotFound):
		return "not_found"
	case errors.Is(err, ErrDonationNotAvailable):
		return "not_available"
	case errors.Is(err, ErrDonationExpired):
		return "expired"
	case errors.Is(err, ErrDuplicateMatch):
		return "duplicate"
	case errors.Is(err, ErrNoFoodBankAvailable):
		return "no_foodbank"
	default:
		return "other"
	}
}
