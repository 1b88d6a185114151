// Command genmock writes a synthetic city reference file and per-city shards
// in the scraper's on-disk layout, for local runs and test fixtures. Output is
// fully determined by the flags, so the same seed always yields the same files.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out data/mock \
//	  -days 730 \
//	  -dirty 0.01
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/couchcryptid/turkey-weather-etl/internal/domain"
)

var shardHeader = []string{"date", "city", "plate_code", "max_temp", "min_temp", "precipitation", "wind_speed", "weather_code", "weather_desc"}

var wmoDescriptions = map[int]string{
	0: "Clear sky", 1: "Mainly clear", 2: "Partly cloudy", 3: "Overcast",
	45: "Fog", 48: "Depositing rime fog", 51: "Drizzle: Light", 53: "Drizzle: Moderate",
	55: "Drizzle: Dense", 56: "Freezing Drizzle: Light", 57: "Freezing Drizzle: Dense",
	61: "Rain: Slight", 63: "Rain: Moderate", 65: "Rain: Heavy", 66: "Freezing Rain: Light",
	67: "Freezing Rain: Heavy", 71: "Snow fall: Slight", 73: "Snow fall: Moderate",
	75: "Snow fall: Heavy", 77: "Snow grains", 80: "Rain showers: Slight",
	81: "Rain showers: Moderate", 82: "Rain showers: Violent", 85: "Snow showers: Slight",
	86: "Snow showers: Heavy", 95: "Thunderstorm: Slight or moderate",
	96: "Thunderstorm with slight hail", 99: "Thunderstorm with heavy hail",
}

type config struct {
	out      string
	cities   int
	start    time.Time
	days     int
	seed     uint64
	dirty    float64
	timezone *time.Location
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output directory (receives locations.csv and city_weather_data/)")
	cities := flag.Int("cities", len(provinces), "number of provinces to generate, in plate order")
	start := flag.String("start", domain.CoverageStart.Format(domain.DateLayout), "first calendar day")
	days := flag.Int("days", 365, "number of days per shard")
	seed := flag.Uint64("seed", 1, "random seed")
	dirty := flag.Float64("dirty", 0, "fraction of rows to corrupt (0..1)")
	tz := flag.String("tz", "Europe/Istanbul", "time zone whose first midnight starts the UTC timestamps")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *cities < 1 || *cities > len(provinces) {
		return fmt.Errorf("-cities must be between 1 and %d", len(provinces))
	}
	if *dirty < 0 || *dirty > 1 {
		return fmt.Errorf("-dirty must be between 0 and 1")
	}
	startDay, err := time.Parse(domain.DateLayout, *start)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}
	loc, err := time.LoadLocation(*tz)
	if err != nil {
		return fmt.Errorf("invalid -tz: %w", err)
	}

	cfg := config{out: *out, cities: *cities, start: startDay, days: *days, seed: *seed, dirty: *dirty, timezone: loc}
	return generate(cfg)
}

func generate(cfg config) error {
	shardDir := filepath.Join(cfg.out, "city_weather_data")
	if err := os.MkdirAll(shardDir, 0o755); err != nil {
		return err
	}

	selected := provinces[:cfg.cities]
	if err := writeReference(filepath.Join(cfg.out, "locations.csv"), selected); err != nil {
		return fmt.Errorf("writing reference: %w", err)
	}

	codes := codesByCondition(domain.WMOConditionTable())
	var rows, corrupted int
	for _, p := range selected {
		rng := rand.New(rand.NewPCG(cfg.seed, uint64(p.plate)))
		path := filepath.Join(shardDir, fmt.Sprintf("%02d_%s.csv", p.plate, p.name))
		n, bad, err := writeShard(path, p, cfg, codes, rng)
		if err != nil {
			return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
		}
		rows += n
		corrupted += bad
	}

	log.Printf("wrote %d shards, %d rows (%d corrupted) to %s", len(selected), rows, corrupted, cfg.out)
	return nil
}

func writeReference(path string, cities []province) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"plaka", "city_name", "lat", "lon"}); err != nil {
		return err
	}
	for _, c := range cities {
		rec := []string{strconv.Itoa(c.plate), c.name, formatCoord(c.lat), formatCoord(c.lon)}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func writeShard(path string, p province, cfg config, codes map[domain.Condition][]int, rng *rand.Rand) (int, int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(shardHeader); err != nil {
		return 0, 0, err
	}

	// Stamps advance in fixed 24h steps from the first local midnight, as the
	// scraper's date_range does, and ignore later clock changes.
	first := time.Date(cfg.start.Year(), cfg.start.Month(), cfg.start.Day(), 0, 0, 0, 0, cfg.timezone).UTC()

	var corrupted int
	for i := range cfg.days {
		day := cfg.start.AddDate(0, 0, i)
		stamp := first.Add(time.Duration(i) * 24 * time.Hour)
		rec := synthesize(p, day, stamp, codes, rng)
		if cfg.dirty > 0 && rng.Float64() < cfg.dirty {
			corrupt(rec, rng)
			corrupted++
		}
		if err := w.Write(rec); err != nil {
			return 0, 0, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return 0, 0, err
	}
	return cfg.days, corrupted, f.Close()
}

// synthesize builds one scraper row for day, dated with the UTC stamp.
func synthesize(p province, day, stamp time.Time, codes map[domain.Condition][]int, rng *rand.Rand) []string {

	season := math.Cos(2 * math.Pi * float64(day.YearDay()-200) / 365.25)
	base := 34 - 0.9*(p.lat-36) - 0.004*p.elevation
	maxTemp := base - 14*(1-season) + rng.NormFloat64()*3
	minTemp := maxTemp - 8 - rng.Float64()*6

	cond := pickCondition(maxTemp, season, rng)
	code := codes[cond][rng.IntN(len(codes[cond]))]

	var precip float64
	if cond == domain.ConditionRain || cond == domain.ConditionSnow {
		precip = rng.ExpFloat64() * 6
	}

	return []string{
		stamp.Format("2006-01-02 15:04:05+00:00"),
		p.name,
		strconv.Itoa(p.plate),
		strconv.FormatFloat(math.Round(maxTemp*10)/10, 'f', 1, 64),
		strconv.FormatFloat(math.Round(minTemp*10)/10, 'f', 1, 64),
		strconv.FormatFloat(math.Round(precip*10)/10, 'f', 1, 64),
		strconv.FormatFloat(math.Round((5+rng.Float64()*25)*10)/10, 'f', 1, 64),
		strconv.Itoa(code),
		wmoDescriptions[code],
	}
}

func pickCondition(maxTemp, season float64, rng *rand.Rand) domain.Condition {
	wet := 0.15 + 0.2*(1-season)/2
	switch r := rng.Float64(); {
	case r < wet && maxTemp < 2:
		return domain.ConditionSnow
	case r < wet:
		return domain.ConditionRain
	case r < wet+0.25:
		return domain.ConditionCloudy
	default:
		return domain.ConditionSunny
	}
}

// corrupt damages one field the way real scraper output goes wrong.
func corrupt(rec []string, rng *rand.Rand) {
	switch rng.IntN(4) {
	case 0:
		rec[0] = "not-a-date"
	case 1:
		rec[3] = ""
	case 2:
		rec[3] = "NaN"
	default:
		rec[7] = "42"
	}
}

func codesByCondition(table domain.ConditionTable) map[domain.Condition][]int {
	out := make(map[domain.Condition][]int)
	for code := range wmoDescriptions {
		if c, ok := table.Normalize(strconv.Itoa(code)); ok {
			out[c] = append(out[c], code)
		}
	}
	for c := range out {
		slices.Sort(out[c])
	}
	return out
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
