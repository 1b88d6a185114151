package pipeline

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/turkey-weather-etl/internal/domain"
	"github.com/couchcryptid/turkey-weather-etl/internal/observability"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

// ReferenceLoader provides the city reference table.
type ReferenceLoader interface {
	LoadReference(ctx context.Context) (*domain.CityRegistry, error)
}

// ShardSource lists and opens the per-city shard files.
type ShardSource interface {
	ListShards(ctx context.Context) ([]string, error)
	OpenShard(ctx context.Context, name string) (domain.ShardStream, error)
}

// MasterSink publishes the merged dataset.
type MasterSink interface {
	WriteMaster(ctx context.Context, records []domain.MasterRecord, aux []string) error
	Path() string
}

// ReportSink receives the run report once the master has been written.
type ReportSink interface {
	PublishReport(ctx context.Context, report domain.RunReport) error
}

// Options tunes validation and fan-out. Zero values fall back to defaults.
type Options struct {
	Location            *time.Location
	MinTemp, MaxTemp    float64
	DropOutliers        bool
	RequireFullCoverage bool
	Workers             int
	Conditions          *domain.ConditionTable
	Clock               clockwork.Clock
}

// Pipeline runs the reference → shards → validate → merge → write sequence.
type Pipeline struct {
	reference ReferenceLoader
	shards    ShardSource
	master    MasterSink
	reports   []ReportSink
	opts      Options
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics

	mu   sync.Mutex
	last atomic.Pointer[domain.RunReport]
}

// New creates a Pipeline with the given stages and observability.
func New(ref ReferenceLoader, shards ShardSource, master MasterSink, logger *slog.Logger, metrics *observability.Metrics, opts Options, reports ...ReportSink) *Pipeline {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.MinTemp == 0 && opts.MaxTemp == 0 {
		opts.MinTemp, opts.MaxTemp = domain.DefaultMinTemp, domain.DefaultMaxTemp
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Pipeline{
		reference: ref,
		shards:    shards,
		master:    master,
		reports:   reports,
		opts:      opts,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once a master dataset has been published.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.last.Load() == nil {
		return errors.New("no master dataset published yet")
	}
	return nil
}

// LastReport returns the report of the most recent successful run.
func (p *Pipeline) LastReport() (domain.RunReport, bool) {
	r := p.last.Load()
	if r == nil {
		return domain.RunReport{}, false
	}
	return *r, true
}

// Run performs one complete merge. Concurrent calls are serialized. Fatal
// errors are returned as *StageError; the previous master file is left in
// place whenever the write stage was not reached or failed.
func (p *Pipeline) Run(ctx context.Context) (domain.RunReport, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.metrics.MergeRunning.Set(1)
	defer p.metrics.MergeRunning.Set(0)

	report := domain.RunReport{
		RunID:      uuid.NewString(),
		StartedAt:  p.clock.Now().UTC(),
		OutputPath: p.master.Path(),
	}
	logger := p.logger.With("run_id", report.RunID)
	logger.Info("merge started", "workers", p.opts.Workers)

	err := p.merge(ctx, logger, &report)
	report.FinishedAt = p.clock.Now().UTC()
	if err == nil {
		published := report
		p.last.Store(&published)
		err = p.publish(ctx, report)
	}
	p.metrics.RecordRun(report, report.FinishedAt.Sub(report.StartedAt), err)

	if err != nil {
		logger.Error("merge failed", "error", err)
		return report, err
	}
	logger.Info("merge complete",
		"shards", len(report.Shards),
		"accepted", report.Accepted,
		"dropped", report.Dropped,
		"outliers", report.Outliers,
		"overwritten", report.Overwritten,
		"rows_written", report.RowsWritten,
		"first_date", report.FirstDate,
		"last_date", report.LastDate,
		"missing_cities", len(report.MissingCities),
	)
	return report, nil
}

type shardResult struct {
	shard domain.ValidatedShard
	aux   []string
}

func (p *Pipeline) merge(ctx context.Context, logger *slog.Logger, report *domain.RunReport) error {
	cities, err := p.reference.LoadReference(ctx)
	if err != nil {
		return stageErr(StageReference, err)
	}

	names, err := p.shards.ListShards(ctx)
	if err != nil {
		return stageErr(StageShard, err)
	}
	if len(names) == 0 {
		return stageErr(StageShard, domain.ErrNoShards)
	}

	rules := p.rules()
	report.ConditionTable = rules.Conditions.Version()

	results := make([]shardResult, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for i, name := range names {
		g.Go(func() error {
			res, err := p.processShard(gctx, logger, name, cities, rules)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stageErr(StageShard, err)
	}

	validated := make([]domain.ValidatedShard, len(results))
	for i, r := range results {
		validated[i] = r.shard
	}

	report.MissingCities = missingCities(cities, validated)
	if len(report.MissingCities) > 0 {
		if p.opts.RequireFullCoverage {
			return stageErr(StageMerge, fmt.Errorf("%w: %s", domain.ErrMissingShard, strings.Join(report.MissingCities, ", ")))
		}
		logger.Warn("cities without shard", "cities", report.MissingCities)
	}

	merged := domain.Merge(validated)
	aux := unionAux(results)

	if err := p.master.WriteMaster(ctx, merged, aux); err != nil {
		return stageErr(StageWrite, err)
	}

	report.Shards = make([]domain.ShardSummary, len(validated))
	for i, v := range validated {
		report.Shards[i] = v.Summary
		p.metrics.RecordShard(v.Summary)
	}
	report.Tally()
	report.RowsWritten = len(merged)
	report.FirstDate, report.LastDate = domain.DateSpan(merged)
	return nil
}

func (p *Pipeline) rules() domain.ValidationRules {
	rules := domain.DefaultRules(p.clock.Now(), p.opts.Location)
	rules.MinTemp, rules.MaxTemp = p.opts.MinTemp, p.opts.MaxTemp
	rules.DropOutliers = p.opts.DropOutliers
	if p.opts.Conditions != nil {
		rules.Conditions = *p.opts.Conditions
	}
	return rules
}

func (p *Pipeline) processShard(ctx context.Context, logger *slog.Logger, name string, cities *domain.CityRegistry, rules domain.ValidationRules) (shardResult, error) {
	stream, err := p.shards.OpenShard(ctx, name)
	if err != nil {
		return shardResult{}, fmt.Errorf("open %s: %w", name, err)
	}
	defer stream.Close()

	warn := func(w domain.RowWarning) {
		logger.Debug("row dropped", "shard", w.Shard, "line", w.Line, "issue", w.Issue, "value", w.Value)
	}
	validated, err := domain.ValidateShard(name, withContext(ctx, stream.Records()), cities, rules, warn)
	if err != nil {
		return shardResult{}, err
	}

	s := validated.Summary
	logger.Info("shard validated",
		"shard", s.Shard,
		"city", s.City,
		"accepted", s.Accepted,
		"dropped", s.Dropped,
		"outliers", s.Outliers,
	)
	return shardResult{shard: validated, aux: stream.AuxColumns()}, nil
}

// withContext stops a row sequence once ctx is done.
func withContext(ctx context.Context, rows iter.Seq2[domain.RawWeatherRecord, error]) iter.Seq2[domain.RawWeatherRecord, error] {
	return func(yield func(domain.RawWeatherRecord, error) bool) {
		for rec, err := range rows {
			if cerr := ctx.Err(); cerr != nil {
				yield(domain.RawWeatherRecord{}, cerr)
				return
			}
			if !yield(rec, err) {
				return
			}
		}
	}
}

func (p *Pipeline) publish(ctx context.Context, report domain.RunReport) error {
	var errs []error
	for _, sink := range p.reports {
		if err := sink.PublishReport(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return stageErr(StageReport, errors.Join(errs...))
	}
	return nil
}

// missingCities lists reference cities no shard declared, in ordinal order.
func missingCities(cities *domain.CityRegistry, shards []domain.ValidatedShard) []string {
	seen := make(map[string]bool, len(shards))
	for _, s := range shards {
		seen[s.Summary.City] = true
	}
	var missing []string
	for _, c := range cities.Cities() {
		if !seen[c.Name] {
			missing = append(missing, c.Name)
		}
	}
	return missing
}

// unionAux merges the passthrough columns of all shards in first-seen order.
// Names are compared case-insensitively, like shard headers.
func unionAux(results []shardResult) []string {
	var out []string
	for _, r := range results {
		for _, name := range r.aux {
			name = strings.ToLower(name)
			if !slices.Contains(out, name) {
				out = append(out, name)
			}
		}
	}
	return out
}
