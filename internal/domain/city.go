package domain

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// shardNameRe matches the scraper's file naming convention, e.g. "06_Ankara.csv".
var shardNameRe = regexp.MustCompile(`^\d{1,2}_(.+)\.csv$`)

// CityReference is one row of the reference file.
type CityReference struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Ordinal   int     `json:"ordinal"`
	PlateCode int     `json:"plate_code,omitempty"`
}

// CityRegistry is the read-only set of reference cities for one run.
type CityRegistry struct {
	cities []CityReference
	byName map[string]int
}

// NewCityRegistry indexes cities by name. Ordinals must match slice positions
// and names must be unique.
func NewCityRegistry(cities []CityReference) (*CityRegistry, error) {
	r := &CityRegistry{
		cities: make([]CityReference, len(cities)),
		byName: make(map[string]int, len(cities)),
	}
	copy(r.cities, cities)

	for i, c := range r.cities {
		if c.Ordinal != i {
			return nil, fmt.Errorf("%w: city %q has ordinal %d at position %d", ErrMissingReferenceData, c.Name, c.Ordinal, i)
		}
		if _, dup := r.byName[c.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate city %q", ErrMissingReferenceData, c.Name)
		}
		r.byName[c.Name] = i
	}
	return r, nil
}

// Lookup finds a city by exact name, then case-insensitively.
func (r *CityRegistry) Lookup(name string) (CityReference, bool) {
	name = strings.TrimSpace(name)
	if i, ok := r.byName[name]; ok {
		return r.cities[i], true
	}
	for _, c := range r.cities {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return CityReference{}, false
}

func (r *CityRegistry) Len() int { return len(r.cities) }

// Cities returns the reference cities in ordinal order.
func (r *CityRegistry) Cities() []CityReference {
	out := make([]CityReference, len(r.cities))
	copy(out, r.cities)
	return out
}

// CityFromShardName extracts the city from a shard file name such as
// "34_Istanbul.csv". It returns "" when the name does not follow the convention.
func CityFromShardName(name string) string {
	m := shardNameRe.FindStringSubmatch(filepath.Base(name))
	if len(m) != 2 {
		return ""
	}
	return m[1]
}
