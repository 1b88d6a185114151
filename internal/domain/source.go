package domain

import "iter"

// ShardStream is an opened shard. Records is a single pass: once the sequence
// has been consumed the shard must be reopened to be read again.
type ShardStream interface {
	// AuxColumns lists the passthrough columns in header order.
	AuxColumns() []string

	Records() iter.Seq2[RawWeatherRecord, error]

	Close() error
}
