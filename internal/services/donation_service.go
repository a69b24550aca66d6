// Package services: DonationService.
//
// This file implements DonationService, the application-level component
// that owns the donation lifecycle. It validates inputs (quantity,
// expiration), resolves the acting donor's restaurant, and applies
// status transitions through the state machine encoded in
// domain.DonationStatus.
//
// Observability: all public methods are OpenTelemetry-instrumented;
// spans include donation and restaurant identifiers where applicable.
package services

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/foodbridge/go-donation-backend/internal/domain"
	"github.com/foodbridge/go-donation-backend/internal/geo"
	"github.com/foodbridge/go-donation-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DonationService implements the use-cases around donation registration
// and listing. The service is context-aware and safe for concurrent use.
type DonationService struct {
	// DB is the database handle used for all donation operations.
	// The handle may be a plain *gorm.DB or a transaction-bound handle.
	DB *gorm.DB
}

// Create registers a new donation for the restaurant managed by donorID.
//
// Semantics and validation:
//   - itemName must be non-blank (ErrInvalidItemName) and quantity
//     strictly positive (ErrInvalidQuantity).
//   - expiration must be strictly in the future; otherwise ErrInvalidDate.
//   - donorID must manage a restaurant; otherwise ErrRestaurantNotFound.
//   - The new donation starts AVAILABLE.
func (s *DonationService) Create(ctx context.Context, donorID, itemName, category string, quantity int, expiration time.Time) (*domain.Donation, error) {
	tr := otel.Tracer("services/DonationService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(
			attribute.String("user.id", donorID),
			attribute.Int("donation.quantity", quantity),
		),
	)
	defer span.End()

	itemName = strings.TrimSpace(itemName)
	category = strings.TrimSpace(category)
	if itemName == "" {
		return nil, ErrInvalidItemName
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if expiration.IsZero() || !expiration.After(time.Now().UTC()) {
		return nil, ErrInvalidDate
	}

	restaurant, err := repo.GetRestaurantByManager(ctx, s.DB, donorID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	return repo.CreateDonation(ctx, s.DB, restaurant.ID, itemName, category, quantity, expiration)
}

// Get returns a donation by ID or ErrDonationNotFound.
func (s *DonationService) Get(ctx context.Context, id string) (*domain.Donation, error) {
	tr := otel.Tracer("services/DonationService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(attribute.String("donation.id", id)),
	)
	defer span.End()

	d, err := repo.GetDonation(ctx, s.DB, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrDonationNotFound
		}
		return nil, err
	}
	return d, nil
}

// UpdateStatus transitions a donation along a legal state-machine edge.
// Illegal edges (including self-transitions and anything leaving a
// terminal state) return ErrInvalidTransition before touching the
// database; a lost compare-and-swap surfaces as ErrDonationNotAvailable.
func (s *DonationService) UpdateStatus(ctx context.Context, id string, next domain.DonationStatus) error {
	tr := otel.Tracer("services/DonationService")
	ctx, span := tr.Start(ctx, "UpdateStatus",
		trace.WithAttributes(
			attribute.String("donation.id", id),
			attribute.String("donation.next_status", string(next)),
		),
	)
	defer span.End()

	if !next.Valid() {
		return ErrInvalidTransition
	}

	d, err := repo.GetDonation(ctx, s.DB, id)
	if err != nil {
		if isNotFound(err) {
			return ErrDonationNotFound
		}
		return err
	}
	if !d.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}

	if err := repo.UpdateDonationStatus(ctx, s.DB, id, d.Status, next); err != nil {
		if isNotFound(err) {
			return ErrDonationNotAvailable
		}
		return err
	}
	return nil
}

// ListAvailable returns unexpired AVAILABLE donations. When origin is
// non-nil the rows are re-ranked by haversine distance from origin to
// the donating restaurant, nearest first; rows whose restaurant has no
// coordinates rank last. Without an origin the rows keep their
// newest-first ordering from the repository.
func (s *DonationService) ListAvailable(ctx context.Context, origin *geo.Point) ([]repo.DonationWithRestaurant, error) {
	tr := otel.Tracer("services/DonationService")
	ctx, span := tr.Start(ctx, "ListAvailable",
		trace.WithAttributes(attribute.Bool("geo.ranked", origin != nil)),
	)
	defer span.End()

	rows, err := repo.ListAvailableDonations(ctx, s.DB, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if origin == nil || len(rows) < 2 {
		return rows, nil
	}

	dist := func(r repo.DonationWithRestaurant) float64 {
		if r.RestaurantLatitude == nil || r.RestaurantLongitude == nil {
			return math.Inf(1)
		}
		return geo.Haversine(*origin, geo.Point{Lat: *r.RestaurantLatitude, Lng: *r.RestaurantLongitude})
	}
	sort.SliceStable(rows, func(i, j int) bool { return dist(rows[i]) < dist(rows[j]) })
	return rows, nil
}

// isNotFound treats repo-level not found sentinels as "not found" in a
// driver-agnostic way. It also checks gorm.ErrRecordNotFound for safety.
func isNotFound(err error) bool {
	if errors.Is(err, repo.ErrNotFound) {
		return true
	}
	return errors.Is(err, gorm.ErrRecordNotFound)
}
