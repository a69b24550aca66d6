// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Restaurant model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodbridge/go-donation-backend/internal/domain"
)

// CreateRestaurant inserts a restaurant owned by the given donor
// account.
func CreateRestaurant(ctx context.Context, db *gorm.DB, managerID, name, address string, lat, lng *float64) (*domain.Restaurant, error) {
	r := &domain.Restaurant{
		ID:        uuid.NewString(),
		ManagerID: managerID,
		Name:      name,
		Address:   address,
		Latitude:  lat,
		Longitude: lng,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// GetRestaurant fetches a single restaurant by ID, or ErrNotFound.
func GetRestaurant(ctx context.Context, db *gorm.DB, id string) (*domain.Restaurant, error) {
	var r domain.Restaurant
	if err := db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// GetRestaurantByManager fetches the restaurant managed by the given
// donor account, or ErrNotFound. One donor manages one restaurant.
func GetRestaurantByManager(ctx context.Context, db *gorm.DB, managerID string) (*domain.Restaurant, error) {
	var r domain.Restaurant
	if err := db.WithContext(ctx).Where("manager_id = ?", managerID).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateRestaurantLocation sets the restaurant's coordinates.
func UpdateRestaurantLocation(ctx context.Context, db *gorm.DB, id string, lat, lng float64) error {
	res := db.WithContext(ctx).
		Model(&domain.Restaurant{}).
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
