// Package domain models the daily weather shards collected for the 81
// provinces of Türkiye and the master dataset merged from them.
//
// # Data Source
//
// Shards are produced by an external scraper that queries the Open-Meteo
// historical archive once per province and writes one CSV per city, named
// after the province plate code and city name:
//
//	01_Adana.csv, 02_Adiyaman.csv, ..., 81_Duzce.csv
//
// A typical shard header is:
//
//	date,city,plate_code,max_temp,min_temp,precipitation,wind_speed,weather_code,weather_desc
//
// Only the date, maximum temperature and condition columns are mandatory.
// Everything else is carried through to the master file untouched.
//
// # Reference Data
//
// The city reference file lists every province with its coordinates. Its row
// order defines the city ordinal (0–80) used as the secondary sort key of the
// master dataset:
//
//	plaka,city_name,lat,lon
//	1,Adana,37.0000,35.3213
//
// # Date Conventions
//
// The scraper requests daily values with timezone=auto and serializes the
// local midnight as a UTC instant, so a row for 2003-01-01 in Istanbul is
// written as "2002-12-31 21:00:00+00:00". Later rows are that first instant
// plus whole days, so every row of a shard shares one UTC time of day even
// across the clock changes Türkiye observed until 2016. Timestamps carrying
// an offset are therefore rounded to the nearest midnight in their own offset
// instead of being passed through zone rules. Plain dates ("2003-01-01") are
// used as written.
//
// The configured shard time zone only decides which day is "today".
//
// Covered range: 2003-01-01 up to and including the current day.
//
// # Condition Codes
//
// The provider reports WMO weather interpretation codes. They are collapsed
// into four classes by [ConditionTable]:
//
//	Sunny:  0 1 2
//	Cloudy: 3 45 48
//	Snow:   66 67 71 73 75 77 85 86
//	Rain:   51 53 55 56 57 61 63 65 80 81 82 95 96 99
//
// Freezing rain (66, 67) is grouped with snow because it only occurs in
// sub-zero conditions. Codes outside the table are rejected rather than
// guessed. Pandas writes the numeric column as a float, so "3.0" is accepted
// for code 3. Canonical labels ("Sunny", "rain") are accepted as-is.
//
// # Temperature Outliers
//
// Daily maxima below -50°C or above 60°C are physically implausible for
// Türkiye. Such rows are kept and marked as outliers unless the caller opts
// into dropping them.
//
// # Duplicates
//
// Re-running the scraper for a city can produce overlapping shards. When two
// rows share (city, date), the row from the shard processed later wins and
// the overwrite is counted in that shard's summary.
package domain
