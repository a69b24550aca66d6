// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Donation model.
//
// All functions are context-aware and accept a *gorm.DB handle, making
// them safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only
// CRUD persistence and query composition. State-machine rules live in
// the service layer; the one persistence-level guard here is that
// UpdateDonationStatus is compare-and-swap on the expected current
// status, so a lost race surfaces as ErrNotFound rather than a silent
// double transition.
//
// Error semantics:
//   - When a donation is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodbridge/go-donation-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// DonationWithRestaurant is the list-view row joining a donation with
// its owning restaurant's display and location fields.
type DonationWithRestaurant struct {
	ID                  string                `json:"donation_id"`
	ItemName            string                `json:"item_name"`
	Category            string                `json:"category"`
	Quantity            int                   `json:"quantity"`
	ExpirationDate      time.Time             `json:"expiration_date"`
	Status              domain.DonationStatus `json:"status"`
	CreatedAt           time.Time             `json:"created_at"`
	RestaurantName      string                `json:"restaurant_name"`
	RestaurantAddress   string                `json:"restaurant_address"`
	RestaurantLatitude  *float64              `json:"restaurant_latitude,omitempty"`
	RestaurantLongitude *float64              `json:"restaurant_longitude,omitempty"`
}

// CreateDonation inserts a new Donation row for the given restaurant
// with status AVAILABLE. The donation ID is a randomly generated UUID
// and CreatedAt is set to UTC.
func CreateDonation(ctx context.Context, db *gorm.DB, restaurantID, itemName, category string, quantity int, expiration time.Time) (*domain.Donation, error) {
	d := &domain.Donation{
		ID:             uuid.NewString(),
		RestaurantID:   restaurantID,
		ItemName:       itemName,
		Category:       category,
		Quantity:       quantity,
		ExpirationDate: expiration,
		Status:         domain.DonationAvailable,
		CreatedAt:      time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(d).Error; err != nil {
		return nil, err
	}
	return d, nil
}

// GetDonation fetches a single donation by ID, or ErrNotFound.
func GetDonation(ctx context.Context, db *gorm.DB, id string) (*domain.Donation, error) {
	var d domain.Donation
	if err := db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// UpdateDonationStatus moves a donation from the expected current status
// to next. The WHERE clause on the current status makes the update a
// compare-and-swap: if another writer got there first, no rows are
// affected and ErrNotFound is returned.
func UpdateDonationStatus(ctx context.Context, db *gorm.DB, id string, current, next domain.DonationStatus) error {
	res := db.WithContext(ctx).
		Model(&domain.Donation{}).
		Where("id = ? AND status = ?", id, current).
		Update("status", next)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListAvailableDonations returns unexpired AVAILABLE donations joined
// with their restaurant's name, address, and coordinates, ordered by
// creation time descending (most recent first). Proximity ordering, when
// requested, is applied by the service layer on top of this result.
func ListAvailableDonations(ctx context.Context, db *gorm.DB, now time.Time) ([]DonationWithRestaurant, error) {
	var out []DonationWithRestaurant
	err := db.WithContext(ctx).
		Model(&domain.Donation{}).
		Select(`donations.id, donations.item_name, donations.category, donations.quantity,
			donations.expiration_date, donations.status, donations.created_at,
			restaurants.name AS restaurant_name, restaurants.address AS restaurant_address,
			restaurants.latitude AS restaurant_latitude, restaurants.longitude AS restaurant_longitude`).
		Joins("LEFT JOIN restaurants ON restaurants.id = donations.restaurant_id").
		Where("donations.status = ? AND donations.expiration_date > ?", domain.DonationAvailable, now).
		Order("donations.created_at DESC").
		Scan(&out).Error
	return out, err
}
