// Package services: MatchService.
//
// This file implements MatchService, the component that owns the match
// lifecycle: claiming a donation on behalf of a recipient, resolving
// the nearest food bank from the reference-data gateway, adjudicating
// pending matches, and maintaining the append-only audit trail.
//
// The claim path runs in a single transaction so the match insert, the
// donation status swap, and the first audit row commit or roll back
// together. Nearest-food-bank resolution happens before any write: a
// gateway outage aborts the claim without side effects.
//
// Observability: all public methods are OpenTelemetry-instrumented.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/foodbridge/go-donation-backend/internal/domain"
	"github.com/foodbridge/go-donation-backend/internal/geo"
	"github.com/foodbridge/go-donation-backend/internal/publicdata"
	"github.com/foodbridge/go-donation-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// noDataPlaceholder stands in for recipient contact fields the
// reference pools cannot resolve. List views degrade to it instead of
// failing.
const noDataPlaceholder = "no data"

// Gateway is the slice of the reference-data client the match lifecycle
// needs. *publicdata.Client satisfies it; tests substitute a double.
type Gateway interface {
	ListRecipients(ctx context.Context) ([]publicdata.Record, error)
	NearbyFoodbanks(ctx context.Context, origin geo.Point, limit int) ([]publicdata.Record, error)
}

// MatchService implements the use-cases around donation claims and
// their adjudication.
type MatchService struct {
	// DB is the database handle used for all match operations.
	DB *gorm.DB

	// Directory resolves food banks and recipient contact data from the
	// external reference pools.
	Directory Gateway
}

// CreateForDonation claims donationID on behalf of recipientID.
//
// Semantics:
//   - The donation must exist (ErrDonationNotFound), be AVAILABLE
//     (ErrDonationNotAvailable), and not be expired (ErrDonationExpired).
//   - The nearest food bank is resolved from the gateway using the
//     donating restaurant's coordinates. A gateway failure aborts with
//     publicdata.ErrUpstreamUnavailable; an empty pool, or a restaurant
//     without coordinates, aborts with ErrNoFoodBankAvailable. Nothing
//     is written in either case.
//   - The match insert, the AVAILABLE→REQUESTED donation swap, and the
//     first audit row are one transaction. A concurrent claim loses on
//     the matches.donation_id unique index and gets ErrDuplicateMatch.
func (s *MatchService) CreateForDonation(ctx context.Context, recipientID, donationID string) (*domain.Match, error) {
	tr := otel.Tracer("services/MatchService")
	ctx, span := tr.Start(ctx, "CreateForDonation",
		trace.WithAttributes(
			attribute.String("donation.id", donationID),
			attribute.String("user.id", recipientID),
		),
	)
	defer span.End()

	donation, err := repo.GetDonation(ctx, s.DB, donationID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrDonationNotFound
		}
		return nil, err
	}
	if donation.Status != domain.DonationAvailable {
		return nil, ErrDonationNotAvailable
	}
	if donation.Expired(time.Now().UTC()) {
		return nil, ErrDonationExpired
	}

	foodBankID, err := s.resolveFoodBank(ctx, donation.RestaurantID)
	if err != nil {
		return nil, err
	}

	var match *domain.Match
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := repo.CreateMatch(ctx, tx, donationID, recipientID, &foodBankID)
		if err != nil {
			if isDuplicate(err) {
				return ErrDuplicateMatch
			}
			return err
		}
		match = m

		if err := repo.UpdateDonationStatus(ctx, tx, donationID, domain.DonationAvailable, domain.DonationRequested); err != nil {
			if isNotFound(err) {
				return ErrDonationNotAvailable
			}
			return err
		}

		_, err = repo.AppendMatchLog(ctx, tx, m.ID, recipientID, "", domain.MatchPending, "claim created")
		return err
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

// Accept marks a pending match ACCEPTED by foodBankID.
//
// Semantics:
//   - foodBankID must be non-empty (ErrMissingActor).
//   - The match must exist (ErrMatchNotFound) and be PENDING
//     (ErrInvalidState).
//   - The donation must not have expired in the meantime
//     (ErrDonationExpired).
//   - The match swap and the audit row are one transaction. The
//     accepting food bank's ID is recorded on the match, replacing the
//     one resolved at claim time. The donation stays REQUESTED; it is
//     confirmed only when the hand-off completes.
func (s *MatchService) Accept(ctx context.Context, foodBankID, matchID string) error {
	tr := otel.Tracer("services/MatchService")
	ctx, span := tr.Start(ctx, "Accept",
		trace.WithAttributes(
			attribute.String("match.id", matchID),
			attribute.String("foodbank.id", foodBankID),
		),
	)
	defer span.End()

	if foodBankID == "" {
		return ErrMissingActor
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		match, err := repo.GetMatch(ctx, tx, matchID)
		if err != nil {
			if isNotFound(err) {
				return ErrMatchNotFound
			}
			return err
		}
		if !match.Status.CanTransitionTo(domain.MatchAccepted) {
			return ErrInvalidState
		}

		donation, err := repo.GetDonation(ctx, tx, match.DonationID)
		if err != nil {
			if isNotFound(err) {
				return ErrDonationNotFound
			}
			return err
		}
		if donation.Expired(time.Now().UTC()) {
			return ErrDonationExpired
		}

		if err := repo.UpdateMatchStatus(ctx, tx, matchID, domain.MatchPending, domain.MatchAccepted, &foodBankID); err != nil {
			if isNotFound(err) {
				return ErrInvalidState
			}
			return err
		}

		_, err = repo.AppendMatchLog(ctx, tx, matchID, foodBankID, domain.MatchPending, domain.MatchAccepted, "accepted by food bank")
		return err
	})
}

// Reject marks a pending match REJECTED. The donation keeps its
// REQUESTED status: each donation is claimable exactly once, and
// re-listing a rejected lot is an administrative action, not an
// automatic one.
func (s *MatchService) Reject(ctx context.Context, foodBankID, matchID string) error {
	tr := otel.Tracer("services/MatchService")
	ctx, span := tr.Start(ctx, "Reject",
		trace.WithAttributes(
			attribute.String("match.id", matchID),
			attribute.String("foodbank.id", foodBankID),
		),
	)
	defer span.End()

	if foodBankID == "" {
		return ErrMissingActor
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		match, err := repo.GetMatch(ctx, tx, matchID)
		if err != nil {
			if isNotFound(err) {
				return ErrMatchNotFound
			}
			return err
		}
		if !match.Status.CanTransitionTo(domain.MatchRejected) {
			return ErrInvalidState
		}

		if err := repo.UpdateMatchStatus(ctx, tx, matchID, domain.MatchPending, domain.MatchRejected, nil); err != nil {
			if isNotFound(err) {
				return ErrInvalidState
			}
			return err
		}

		_, err = repo.AppendMatchLog(ctx, tx, matchID, foodBankID, domain.MatchPending, domain.MatchRejected, "rejected by food bank")
		return err
	})
}

// Complete marks an accepted match COMPLETED once the hand-off
// finished, and confirms the donation (REQUESTED→CONFIRMED) in the
// same transaction.
func (s *MatchService) Complete(ctx context.Context, foodBankID, matchID string) error {
	tr := otel.Tracer("services/MatchService")
	ctx, span := tr.Start(ctx, "Complete",
		trace.WithAttributes(attribute.String("match.id", matchID)),
	)
	defer span.End()

	if foodBankID == "" {
		return ErrMissingActor
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		match, err := repo.GetMatch(ctx, tx, matchID)
		if err != nil {
			if isNotFound(err) {
				return ErrMatchNotFound
			}
			return err
		}
		if !match.Status.CanTransitionTo(domain.MatchCompleted) {
			return ErrInvalidState
		}

		if err := repo.UpdateMatchStatus(ctx, tx, matchID, domain.MatchAccepted, domain.MatchCompleted, nil); err != nil {
			if isNotFound(err) {
				return ErrInvalidState
			}
			return err
		}
		if err := repo.UpdateDonationStatus(ctx, tx, match.DonationID, domain.DonationRequested, domain.DonationConfirmed); err != nil {
			if isNotFound(err) {
				return ErrInvalidState
			}
			return err
		}

		_, err = repo.AppendMatchLog(ctx, tx, matchID, foodBankID, domain.MatchAccepted, domain.MatchCompleted, "hand-off completed")
		return err
	})
}

// Get returns a match by ID or ErrMatchNotFound.
func (s *MatchService) Get(ctx context.Context, id string) (*domain.Match, error) {
	m, err := repo.GetMatch(ctx, s.DB, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

// History returns the audit trail for one match, oldest first.
func (s *MatchService) History(ctx context.Context, matchID string) ([]domain.MatchLog, error) {
	if _, err := s.Get(ctx, matchID); err != nil {
		return nil, err
	}
	return repo.ListMatchLogs(ctx, s.DB, matchID)
}

// ListPendingForReview returns every pending match as a denormalized
// triage row, oldest first.
func (s *MatchService) ListPendingForReview(ctx context.Context) ([]repo.MatchDetail, error) {
	tr := otel.Tracer("services/MatchService")
	ctx, span := tr.Start(ctx, "ListPendingForReview")
	defer span.End()

	rows, err := repo.ListPendingMatches(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	s.enrichRecipientContact(ctx, rows)
	return rows, nil
}

// ListAcceptedFor returns the accepted matches owned by foodBankID,
// enriched with recipient contact data from the reference pools.
func (s *MatchService) ListAcceptedFor(ctx context.Context, foodBankID string) ([]repo.MatchDetail, error) {
	tr := otel.Tracer("services/MatchService")
	ctx, span := tr.Start(ctx, "ListAcceptedFor",
		trace.WithAttributes(attribute.String("foodbank.id", foodBankID)),
	)
	defer span.End()

	if foodBankID == "" {
		return nil, ErrMissingActor
	}
	rows, err := repo.ListAcceptedMatches(ctx, s.DB, foodBankID)
	if err != nil {
		return nil, err
	}
	s.enrichRecipientContact(ctx, rows)
	return rows, nil
}

// enrichRecipientContact merges recipient phone numbers from the
// reference pool into detail rows, by recipient ID. Misses and gateway
// outages degrade to a placeholder; listing never fails on enrichment.
func (s *MatchService) enrichRecipientContact(ctx context.Context, rows []repo.MatchDetail) {
	if len(rows) == 0 || s.Directory == nil {
		for i := range rows {
			if rows[i].RecipientPhone == "" {
				rows[i].RecipientPhone = noDataPlaceholder
			}
		}
		return
	}

	byID := map[string]publicdata.Record{}
	if pool, err := s.Directory.ListRecipients(ctx); err == nil {
		for _, rec := range pool {
			byID[rec.ID] = rec
		}
	}

	for i := range rows {
		if rec, ok := byID[rows[i].RecipientID]; ok && rec.Phone != "" {
			rows[i].RecipientPhone = rec.Phone
			continue
		}
		rows[i].RecipientPhone = noDataPlaceholder
	}
}

// isDuplicate detects unique-constraint violations in a driver-agnostic
// way, via the repo sentinel with GORM's as a fallback.
func isDuplicate(err error) bool {
	return errors.Is(err, repo.ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey)
}

// resolveFoodBank finds the food bank nearest to the donating
// restaurant. There is no fallback: a restaurant without coordinates or
// an empty pool yields ErrNoFoodBankAvailable.
func (s *MatchService) resolveFoodBank(ctx context.Context, restaurantID string) (string, error) {
	if s.Directory == nil {
		return "", ErrNoFoodBankAvailable
	}

	restaurant, err := repo.GetRestaurant(ctx, s.DB, restaurantID)
	if err != nil {
		if isNotFound(err) {
			return "", ErrRestaurantNotFound
		}
		return "", err
	}
	if restaurant.Latitude == nil || restaurant.Longitude == nil {
		return "", ErrNoFoodBankAvailable
	}

	origin := geo.Point{Lat: *restaurant.Latitude, Lng: *restaurant.Longitude}
	pool, err := s.Directory.NearbyFoodbanks(ctx, origin, 1)
	if err != nil {
		// publicdata.ErrUpstreamUnavailable propagates untouched.
		return "", err
	}
	if len(pool) == 0 || !pool[0].HasCoords {
		return "", ErrNoFoodBankAvailable
	}
	return pool[0].ID, nil
}
