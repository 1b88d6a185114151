package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *CityRegistry {
	t.Helper()
	r, err := NewCityRegistry([]CityReference{
		{Name: "Adana", Latitude: 37.0, Longitude: 35.3213, Ordinal: 0, PlateCode: 1},
		{Name: "Ankara", Latitude: 39.9208, Longitude: 32.8541, Ordinal: 1, PlateCode: 6},
		{Name: "Istanbul", Latitude: 41.0082, Longitude: 28.9784, Ordinal: 2, PlateCode: 34},
	})
	require.NoError(t, err)
	return r
}

func TestCityRegistry_Lookup(t *testing.T) {
	r := testRegistry(t)

	c, ok := r.Lookup("Ankara")
	require.True(t, ok)
	assert.Equal(t, 1, c.Ordinal)

	c, ok = r.Lookup("  istanbul ")
	require.True(t, ok)
	assert.Equal(t, "Istanbul", c.Name)

	_, ok = r.Lookup("Atlantis")
	assert.False(t, ok)

	assert.Equal(t, 3, r.Len())
}

func TestCityRegistry_CitiesIsACopy(t *testing.T) {
	r := testRegistry(t)
	cities := r.Cities()
	cities[0].Name = "Changed"

	c, ok := r.Lookup("Adana")
	require.True(t, ok)
	assert.Equal(t, "Adana", c.Name)
}

func TestNewCityRegistry_Rejects(t *testing.T) {
	t.Run("duplicate name", func(t *testing.T) {
		_, err := NewCityRegistry([]CityReference{
			{Name: "Adana", Ordinal: 0},
			{Name: "Adana", Ordinal: 1},
		})
		require.ErrorIs(t, err, ErrMissingReferenceData)
	})

	t.Run("ordinal mismatch", func(t *testing.T) {
		_, err := NewCityRegistry([]CityReference{
			{Name: "Adana", Ordinal: 1},
		})
		require.ErrorIs(t, err, ErrMissingReferenceData)
	})
}

func TestCityFromShardName(t *testing.T) {
	assert.Equal(t, "Adana", CityFromShardName("01_Adana.csv"))
	assert.Equal(t, "Istanbul", CityFromShardName("/data/city_weather_data/34_Istanbul.csv"))
	assert.Equal(t, "Afyon Karahisar", CityFromShardName("03_Afyon Karahisar.csv"))
	assert.Empty(t, CityFromShardName("Adana.csv"))
	assert.Empty(t, CityFromShardName("01_Adana.parquet"))
}
