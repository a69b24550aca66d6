// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User
// and Restaurant models.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodbridge/go-donation-backend/internal/domain"
)

// CreateUser inserts a new account with the given role and contact
// details. Coordinates may be nil when geocoding has not run yet.
func CreateUser(ctx context.Context, db *gorm.DB, role domain.Role, name, address, phone string, lat, lng *float64) (*domain.User, error) {
	u := &domain.User{
		ID:        uuid.NewString(),
		Role:      role,
		Name:      name,
		Address:   address,
		Phone:     phone,
		Latitude:  lat,
		Longitude: lng,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// GetUser fetches a single user by ID, or ErrNotFound.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUserLocation sets the user's coordinates. Used after geocoding
// an address or when the client reports a device fix.
func UpdateUserLocation(ctx context.Context, db *gorm.DB, id string, lat, lng float64) error {
	res := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"latitude": lat, "longitude": lng})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
