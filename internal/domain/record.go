package domain

import (
	"cmp"
	"time"
)

// DateLayout is the calendar date format used in the master dataset.
const DateLayout = "2006-01-02"

// Field is a passthrough column value.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// RawWeatherRecord is one untyped shard row as read from disk.
type RawWeatherRecord struct {
	Line           int
	City           string
	Date           string
	MaxTemperature string
	ConditionCode  string
	Aux            []Field
}

// MasterRecord is a validated, typed row of the master dataset.
type MasterRecord struct {
	City           CityReference
	Date           time.Time // midnight UTC of the calendar day
	MaxTemperature float64
	Condition      Condition
	Outlier        bool
	Aux            []Field
}

// RecordKey identifies a (city, date) pair.
type RecordKey struct {
	Ordinal int
	Day     int64
}

// Key returns the dedup key of the record.
func (r MasterRecord) Key() RecordKey {
	return RecordKey{Ordinal: r.City.Ordinal, Day: r.Date.Unix() / 86400}
}

// CompareMaster orders records by date, then city ordinal.
func CompareMaster(a, b MasterRecord) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	return cmp.Compare(a.City.Ordinal, b.City.Ordinal)
}
