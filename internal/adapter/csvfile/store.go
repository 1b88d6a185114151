// Package csvfile reads the city reference table and per-city shards from
// the local filesystem and publishes the merged master dataset.
package csvfile

import (
	"context"
	"path/filepath"

	"github.com/couchcryptid/turkey-weather-etl/internal/domain"
)

// Store serves the reference file and the shard directory.
type Store struct {
	shardDir       string
	referencePath  string
	expectedCities int
}

func NewStore(shardDir, referencePath string, expectedCities int) *Store {
	return &Store{shardDir: shardDir, referencePath: referencePath, expectedCities: expectedCities}
}

func (s *Store) LoadReference(context.Context) (*domain.CityRegistry, error) {
	return LoadReference(s.referencePath, s.expectedCities)
}

func (s *Store) ListShards(context.Context) ([]string, error) {
	return ListShards(s.shardDir)
}

func (s *Store) OpenShard(_ context.Context, name string) (domain.ShardStream, error) {
	r, err := OpenShard(filepath.Join(s.shardDir, name))
	if err != nil {
		return nil, err
	}
	return r, nil
}
