package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/couchcryptid/turkey-weather-etl/internal/domain"
	"github.com/go-playground/validator/v10"
)

var (
	refNameColumns  = []string{"city_name", "city", "name"}
	refLatColumns   = []string{"latitude", "lat"}
	refLonColumns   = []string{"longitude", "lon", "lng"}
	refPlateColumns = []string{"plaka", "plate_code", "plate"}
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// referenceRow is a reference line before type conversion.
type referenceRow struct {
	Name  string `validate:"required"`
	Lat   string `validate:"required,latitude"`
	Lon   string `validate:"required,longitude"`
	Plate string `validate:"omitempty,number"`
}

// LoadReference reads the city reference file at path.
func LoadReference(path string, expected int) (*domain.CityRegistry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMissingReferenceData, err)
	}
	defer f.Close()
	return ReadReference(f, expected)
}

// ReadReference parses a city reference table. Row order defines the city
// ordinals. It fails unless exactly expected distinct cities are present and
// every row carries valid coordinates.
func ReadReference(r io.Reader, expected int) (*domain.CityRegistry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	first, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %w", domain.ErrMissingReferenceData, err)
	}
	h := newHeader(first)
	nameIdx, latIdx, lonIdx := h.find(refNameColumns...), h.find(refLatColumns...), h.find(refLonColumns...)
	if nameIdx < 0 || latIdx < 0 || lonIdx < 0 {
		return nil, fmt.Errorf("%w: header %v needs city name, latitude and longitude columns", domain.ErrMissingReferenceData, h.names)
	}
	plateIdx := h.find(refPlateColumns...)

	var cities []domain.CityReference
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrMissingReferenceData, err)
		}
		line, _ := cr.FieldPos(0)

		row := referenceRow{
			Name:  cell(rec, nameIdx),
			Lat:   cell(rec, latIdx),
			Lon:   cell(rec, lonIdx),
			Plate: cell(rec, plateIdx),
		}
		city, err := row.toCity(len(cities))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", domain.ErrMissingReferenceData, line, err)
		}
		cities = append(cities, city)
	}

	registry, err := domain.NewCityRegistry(cities)
	if err != nil {
		return nil, err
	}
	if registry.Len() != expected {
		return nil, fmt.Errorf("%w: found %d cities, want %d", domain.ErrMissingReferenceData, registry.Len(), expected)
	}
	return registry, nil
}

func (row referenceRow) toCity(ordinal int) (domain.CityReference, error) {
	if err := validate.Struct(row); err != nil {
		return domain.CityReference{}, err
	}
	lat, err := strconv.ParseFloat(row.Lat, 64)
	if err != nil {
		return domain.CityReference{}, err
	}
	lon, err := strconv.ParseFloat(row.Lon, 64)
	if err != nil {
		return domain.CityReference{}, err
	}
	city := domain.CityReference{Name: row.Name, Latitude: lat, Longitude: lon, Ordinal: ordinal}
	if row.Plate != "" {
		if city.PlateCode, err = strconv.Atoi(row.Plate); err != nil {
			return domain.CityReference{}, err
		}
	}
	return city, nil
}
