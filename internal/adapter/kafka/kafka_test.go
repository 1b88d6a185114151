package kafka

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/turkey-weather-etl/internal/config"
	"github.com/couchcryptid/turkey-weather-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeReport(t *testing.T) {
	finished := time.Date(2025, 6, 15, 12, 0, 3, 0, time.UTC)
	report := domain.RunReport{
		RunID:       "2f1c6d0e-run",
		OutputPath:  "data/turkey_weather_master.csv",
		FinishedAt:  finished,
		RowsWritten: 665742,
		Shards:      []domain.ShardSummary{{Shard: "01_Adana.csv", City: "Adana", Accepted: 8219}},
	}

	msg, err := serializeReport(report)
	require.NoError(t, err)

	assert.Equal(t, []byte("2f1c6d0e-run"), msg.Key)
	assert.Contains(t, string(msg.Value), `"rows_written":665742`)
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "output_path", msg.Headers[0].Key)
	assert.Equal(t, []byte("data/turkey_weather_master.csv"), msg.Headers[0].Value)
	assert.Equal(t, []byte("665742"), msg.Headers[1].Value)
	assert.Equal(t, []byte(finished.Format(time.RFC3339)), msg.Headers[2].Value)

	var decoded domain.RunReport
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "Adana", decoded.Shards[0].City)
}

func TestNewReportPublisher(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"b1:9092", "b2:9092"}, KafkaReportTopic: "weather-master-runs"}
	p := NewReportPublisher(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.Equal(t, "weather-master-runs", p.writer.Topic)
	require.NoError(t, p.Close())
}
