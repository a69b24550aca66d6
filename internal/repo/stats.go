// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer. Each function is context-aware and safe to call from services or
// handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/foodbridge/go-donation-backend/internal/domain"
)

// DonationsStats returns aggregate metadata for the listable donation
// feed: the number of unexpired AVAILABLE rows and the maximum UpdatedAt
// timestamp among them.
//
// When no donations are listable, the returned count is 0 and
// maxUpdatedAt is nil.
//
// Return values:
//   - count:        total listable donations
//   - maxUpdatedAt: pointer to the greatest UpdatedAt, or nil if no rows
//   - err:          database error, if any
func DonationsStats(ctx context.Context, db *gorm.DB, now time.Time) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).
		Model(&domain.Donation{}).
		Where("status = ? AND expiration_date > ?", domain.DonationAvailable, now)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// MatchesStats returns aggregate metadata for one food bank's ACCEPTED
// matches: the total number of rows and the maximum UpdatedAt timestamp
// among those rows. When the food bank has no accepted matches, the
// returned count is 0 and maxUpdatedAt is nil.
func MatchesStats(ctx context.Context, db *gorm.DB, foodBankID string) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).
		Model(&domain.Match{}).
		Where("status = ? AND food_bank_id = ?", domain.MatchAccepted, foodBankID)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
