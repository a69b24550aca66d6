// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Match
// model and its denormalized review views.
//
// Error semantics:
//   - A second match for the same donation violates the unique index on
//     matches.donation_id; CreateMatch translates that into ErrDuplicate
//     so the service layer does not need driver-specific sniffing.
//   - Missing rows return gorm.ErrRecordNotFound (ErrNotFound).
//   - Other DB errors propagate raw.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodbridge/go-donation-backend/internal/domain"
)

// MatchDetail is the denormalized triage row for food-bank review
// queues: the claim plus recipient, restaurant, and donation context.
// Contact fields are filled from the reference-data gateway by the
// service layer and default to a placeholder when the recipient cannot
// be resolved there.
type MatchDetail struct {
	MatchID           string             `json:"match_id"`
	Status            domain.MatchStatus `json:"status"`
	FoodBankID        *string            `json:"food_bank_id,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	RecipientID       string             `json:"recipient_id"`
	RecipientName     string             `json:"recipient_name"`
	RecipientAddress  string             `json:"recipient_address"`
	RecipientPhone    string             `json:"recipient_phone,omitempty"`
	RestaurantName    string             `json:"restaurant_name"`
	RestaurantAddress string             `json:"restaurant_address"`
	ItemName          string             `json:"item_name"`
	Category          string             `json:"category"`
	Quantity          int                `json:"quantity"`
	ExpirationDate    time.Time          `json:"expiration_date"`
}

// CreateMatch inserts a PENDING match for the donation. The unique index
// on donation_id makes the insert the serialization point for concurrent
// claims of the same donation: the loser gets ErrDuplicate.
func CreateMatch(ctx context.Context, db *gorm.DB, donationID, recipientID string, foodBankID *string) (*domain.Match, error) {
	m := &domain.Match{
		ID:          uuid.NewString(),
		DonationID:  donationID,
		RecipientID: recipientID,
		FoodBankID:  foodBankID,
		Status:      domain.MatchPending,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return m, nil
}

// GetMatch fetches a single match by ID, or ErrNotFound.
func GetMatch(ctx context.Context, db *gorm.DB, id string) (*domain.Match, error) {
	var m domain.Match
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMatchByDonation fetches the match claiming donationID, or ErrNotFound.
func GetMatchByDonation(ctx context.Context, db *gorm.DB, donationID string) (*domain.Match, error) {
	var m domain.Match
	if err := db.WithContext(ctx).Where("donation_id = ?", donationID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateMatchStatus moves a match from the expected current status to
// next, optionally recording the adjudicating food bank. Compare-and-swap
// on the current status: a concurrent transition leaves zero rows
// affected and returns ErrNotFound.
func UpdateMatchStatus(ctx context.Context, db *gorm.DB, id string, current, next domain.MatchStatus, foodBankID *string) error {
	updates := map[string]any{"status": next}
	if foodBankID != nil {
		updates["food_bank_id"] = *foodBankID
	}
	res := db.WithContext(ctx).
		Model(&domain.Match{}).
		Where("id = ? AND status = ?", id, current).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// matchDetailQuery composes the three-way join shared by the review
// views.
func matchDetailQuery(ctx context.Context, db *gorm.DB) *gorm.DB {
	return db.WithContext(ctx).
		Model(&domain.Match{}).
		Select(`matches.id AS match_id, matches.status, matches.food_bank_id, matches.created_at,
			matches.recipient_id,
			users.name AS recipient_name, users.address AS recipient_address,
			restaurants.name AS restaurant_name, restaurants.address AS restaurant_address,
			donations.item_name, donations.category, donations.quantity, donations.expiration_date`).
		Joins("LEFT JOIN users ON users.id = matches.recipient_id").
		Joins("LEFT JOIN donations ON donations.id = matches.donation_id").
		Joins("LEFT JOIN restaurants ON restaurants.id = donations.restaurant_id")
}

// ListPendingMatches returns every PENDING match as a triage row,
// oldest first so queues are worked in arrival order.
func ListPendingMatches(ctx context.Context, db *gorm.DB) ([]MatchDetail, error) {
	var out []MatchDetail
	err := matchDetailQuery(ctx, db).
		Where("matches.status = ?", domain.MatchPending).
		Order("matches.created_at ASC").
		Scan(&out).Error
	return out, err
}

// ListAcceptedMatches returns the ACCEPTED matches owned by one food
// bank, most recently accepted first.
func ListAcceptedMatches(ctx context.Context, db *gorm.DB, foodBankID string) ([]MatchDetail, error) {
	var out []MatchDetail
	err := matchDetailQuery(ctx, db).
		Where("matches.status = ? AND matches.food_bank_id = ?", domain.MatchAccepted, foodBankID).
		Order("matches.updated_at DESC").
		Scan(&out).Error
	return out, err
}

// AppendMatchLog writes one audit-trail row. Rows are append-only; there
// is deliberately no update or delete counterpart.
func AppendMatchLog(ctx context.Context, db *gorm.DB, matchID, actorID string, prev, next domain.MatchStatus, note string) (*domain.MatchLog, error) {
	entry := &domain.MatchLog{
		ID:             uuid.NewString(),
		MatchID:        matchID,
		ActorID:        actorID,
		PreviousStatus: prev,
		NewStatus:      next,
		Note:           note,
		CreatedAt:      time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// ListMatchLogs returns the audit trail for one match, oldest first.
func ListMatchLogs(ctx context.Context, db *gorm.DB, matchID string) ([]domain.MatchLog, error) {
	var out []domain.MatchLog
	err := db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

// isUniqueViolation detects unique-constraint violations across drivers
// that may not map to gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// glebarez/sqlite often returns plain-text errors for UNIQUE violations;
	// Postgres says "duplicate key value violates unique constraint".
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "constraint failed: unique") ||
		strings.Contains(msg, "duplicate key")
}
