package services

import (
	"context"
	"errors"

	"pharmalink-api/internal/adapters/persistence/models"
	"pharmalink-api/internal/adapters/persistence/repositories"
	"pharmalink-api/internal/core/domain"

	"gorm.io/gorm"
)

// LocationService serves the city and area lookup tables
type LocationService struct {
	store *repositories.Store
}

// NewLocationService creates a new location service
func NewLocationService(store *repositories.Store) *LocationService {
	return &LocationService{store: store}
}

// CitiesOutput lists cities with their areas
type CitiesOutput struct {
	Cities      []*models.City `json:"cities"`
	TotalCities int            `json:"totalCities"`
	TotalAreas  int            `json:"totalAreas"`
}

// AreasOutput lists the areas of one city
type AreasOutput struct {
	City  *models.City   `json:"city"`
	Areas []*models.Area `json:"areas"`
	Total int            `json:"total"`
}

// ListCities lists all cities with their areas
func (s *LocationService) ListCities(ctx context.Context) (*CitiesOutput, error) {
	cities, err := s.store.Locations.ListCities(ctx)
	if err != nil {
		return nil, domain.Internal(err, "failed to list cities")
	}

	out := &CitiesOutput{Cities: cities, TotalCities: len(cities)}
	for _, c := range cities {
		out.TotalAreas += len(c.Areas)
	}
	return out, nil
}

// ListAreas lists the areas of a city
func (s *LocationService) ListAreas(ctx context.Context, cityID string) (*AreasOutput, error) {
	city, err := s.store.Locations.GetCity(ctx, cityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCityNotFound
		}
		return nil, domain.Internal(err, "failed to load city")
	}

	areas, err := s.store.Locations.ListAreas(ctx, city.ID)
	if err != nil {
		return nil, domain.Internal(err, "failed to list areas")
	}
	return &AreasOutput{City: city, Areas: areas, Total: len(areas)}, nil
}
