package services

import (
	"context"
	"testing"

	"pharmalink-api/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocations(t *testing.T) {
	f := newFixture(t)
	svc := NewLocationService(f.store)

	cities, err := svc.ListCities(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, cities.Cities)
	assert.Equal(t, len(cities.Cities), cities.TotalCities)

	areaCount := 0
	for _, c := range cities.Cities {
		areaCount += len(c.Areas)
	}
	assert.Equal(t, areaCount, cities.TotalAreas)

	first := cities.Cities[0]
	areas, err := svc.ListAreas(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Name, areas.City.Name)
	assert.Len(t, areas.Areas, len(first.Areas))

	_, err = svc.ListAreas(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrCityNotFound)
}
