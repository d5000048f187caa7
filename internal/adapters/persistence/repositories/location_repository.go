package repositories

import (
	"context"

	"pharmalink-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// locationRepository implements LocationRepository interface
type locationRepository struct {
	db *gorm.DB
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

// ListCities lists cities with their areas, both sorted by name
func (r *locationRepository) ListCities(ctx context.Context) ([]*models.City, error) {
	var cities []*models.City
	err := r.db.WithContext(ctx).
		Preload("Areas", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		Order("name ASC").
		Find(&cities).Error
	return cities, err
}

// GetCity gets a city by ID
func (r *locationRepository) GetCity(ctx context.Context, id string) (*models.City, error) {
	var city models.City
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&city).Error
	if err != nil {
		return nil, err
	}
	return &city, nil
}

// ListAreas lists the areas of a city
func (r *locationRepository) ListAreas(ctx context.Context, cityID string) ([]*models.Area, error) {
	var areas []*models.Area
	err := r.db.WithContext(ctx).Where("city_id = ?", cityID).Order("name ASC").Find(&areas).Error
	return areas, err
}
