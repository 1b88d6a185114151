package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/couchcryptid/turkey-weather-etl/internal/domain"
)

var (
	dateColumns      = []string{"date", "time"}
	maxTempColumns   = []string{"max_temperature", "max_temp", "temperature_2m_max"}
	conditionColumns = []string{"condition_code", "weather_code", "condition_label", "condition"}
	cityColumns      = []string{"city_name", "city"}
)

// reservedColumns are emitted by the master writer and never passed through.
var reservedColumns = []string{"date", "city_name", "max_temperature", "condition_label", "latitude", "longitude", "outlier"}

var errConsumed = errors.New("shard already consumed")

type auxColumn struct {
	name string
	idx  int
}

// ShardReader streams the rows of one per-city shard file.
type ShardReader struct {
	name   string
	r      *csv.Reader
	closer io.Closer

	dateIdx, tempIdx, condIdx, cityIdx int
	aux                                []auxColumn

	consumed bool
}

// OpenShard opens the shard at path. The caller must Close it.
func OpenShard(path string) (*ShardReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	s, err := NewShardReader(filepath.Base(path), f)
	if err != nil {
		f.Close()
		return nil, err
	}
	s.closer = f
	return s, nil
}

// NewShardReader reads the header of a shard. Missing date, temperature or
// condition columns are a shard format error. The city column is optional;
// without it the city is taken from the file name.
func NewShardReader(name string, r io.Reader) (*ShardReader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	first, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: empty file", domain.ErrShardFormat, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read header: %w", domain.ErrShardFormat, name, err)
	}
	h := newHeader(first)

	s := &ShardReader{
		name:    name,
		r:       cr,
		dateIdx: h.find(dateColumns...),
		tempIdx: h.find(maxTempColumns...),
		condIdx: h.find(conditionColumns...),
		cityIdx: h.find(cityColumns...),
	}
	var missing []string
	if s.dateIdx < 0 {
		missing = append(missing, "date")
	}
	if s.tempIdx < 0 {
		missing = append(missing, "max_temperature")
	}
	if s.condIdx < 0 {
		missing = append(missing, "condition_code")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s: missing columns %s", domain.ErrShardFormat, name, strings.Join(missing, ", "))
	}

	for i, col := range h.names {
		if i == s.dateIdx || i == s.tempIdx || i == s.condIdx || i == s.cityIdx || col == "" {
			continue
		}
		key := strings.ToLower(col)
		if slices.Contains(reservedColumns, key) || h.index[key] != i {
			continue
		}
		s.aux = append(s.aux, auxColumn{name: key, idx: i})
	}
	return s, nil
}

func (s *ShardReader) Name() string { return s.name }

func (s *ShardReader) AuxColumns() []string {
	names := make([]string, len(s.aux))
	for i, a := range s.aux {
		names[i] = a.name
	}
	return names
}

// Records yields the data rows lazily. A row the CSV parser rejects is
// reported as domain.ErrMalformedLine and reading continues; any other read
// error ends the sequence.
func (s *ShardReader) Records() iter.Seq2[domain.RawWeatherRecord, error] {
	return func(yield func(domain.RawWeatherRecord, error) bool) {
		if s.consumed {
			yield(domain.RawWeatherRecord{}, fmt.Errorf("%s: %w", s.name, errConsumed))
			return
		}
		s.consumed = true

		for {
			rec, err := s.r.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				if !yield(domain.RawWeatherRecord{Line: pe.Line}, fmt.Errorf("%w: %w", domain.ErrMalformedLine, pe.Err)) {
					return
				}
				continue
			}
			if err != nil {
				yield(domain.RawWeatherRecord{}, err)
				return
			}
			if !yield(s.record(rec), nil) {
				return
			}
		}
	}
}

func (s *ShardReader) record(rec []string) domain.RawWeatherRecord {
	line, _ := s.r.FieldPos(0)
	out := domain.RawWeatherRecord{
		Line:           line,
		City:           cell(rec, s.cityIdx),
		Date:           cell(rec, s.dateIdx),
		MaxTemperature: cell(rec, s.tempIdx),
		ConditionCode:  cell(rec, s.condIdx),
	}
	if len(s.aux) > 0 {
		out.Aux = make([]domain.Field, len(s.aux))
		for i, a := range s.aux {
			out.Aux[i] = domain.Field{Name: a.name, Value: cell(rec, a.idx)}
		}
	}
	return out
}

func (s *ShardReader) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// ListShards returns the base names of the *.csv files in dir, sorted.
func ListShards(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		names = append(names, e.Name())
	}
	slices.Sort(names)
	return names, nil
}
