// services/pipeline_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/clearglobal/hdx-scraper/metrics"
	"github.com/clearglobal/hdx-scraper/models"
)

// ErrRunInProgress is returned when Run is called while another run is active.
var ErrRunInProgress = errors.New("a pipeline run is already in progress")

// StateStore persists the run state between runs.
type StateStore interface {
	Load(ctx context.Context) (models.RunState, error)
	Save(ctx context.Context, state models.RunState) error
}

// Publisher hands a finished dataset to the catalog.
type Publisher interface {
	Publish(ctx context.Context, dataset *models.Dataset) error
}

// Skip records a country that was detected but not published.
type Skip struct {
	Country string
	Reason  string
	Err     error
}

type RunSummary struct {
	Started   time.Time
	Finished  time.Time
	Detected  []string
	Published []string
	Skipped   []Skip
}

// Pipeline runs detection then per-country generation and publication, one
// country at a time.
type Pipeline struct {
	detector  *ChangeDetector
	generator *DatasetGenerator
	publisher Publisher
	store     StateStore
	metrics   *metrics.Registry
	rollback  bool

	running sync.Mutex
}

type PipelineOptions struct {
	Detector  *ChangeDetector
	Generator *DatasetGenerator
	Publisher Publisher
	Store     StateStore
	Metrics   *metrics.Registry
	// RollbackOnFailure restores the pre-run watermark of every country that
	// was detected but not published, so it is retried on the next run.
	RollbackOnFailure bool
}

func NewPipeline(opts PipelineOptions) *Pipeline {
	m := opts.Metrics
	if m == nil {
		m = metrics.NewRegistry()
	}
	return &Pipeline{
		detector:  opts.Detector,
		generator: opts.Generator,
		publisher: opts.Publisher,
		store:     opts.Store,
		metrics:   m,
		rollback:  opts.RollbackOnFailure,
	}
}

func (p *Pipeline) Metrics() *metrics.Registry { return p.metrics }

// Run performs one full pass. Per-country failures are recorded in the
// summary and never abort the run; failures loading, detecting or saving
// state do.
func (p *Pipeline) Run(ctx context.Context) (*RunSummary, error) {
	if !p.running.TryLock() {
		return nil, ErrRunInProgress
	}
	defer p.running.Unlock()

	summary := &RunSummary{Started: time.Now().UTC()}
	state, err := p.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load run state: %w", err)
	}
	prior := state.Clone()

	changed, err := p.detector.DetectChangedLocations(ctx, state)
	if err != nil {
		p.metrics.RunFailed()
		return nil, err
	}
	summary.Detected = changed
	p.metrics.Detected(len(changed))

	for _, iso3 := range changed {
		if err := ctx.Err(); err != nil {
			if p.rollback {
				// Countries not reached keep their old watermark.
				for _, rest := range changed[len(summary.Published)+len(summary.Skipped):] {
					state.Restore(prior, rest)
				}
			}
			break
		}
		if err := p.processCountry(ctx, iso3); err != nil {
			reason := SkipReason(err)
			slog.ErrorContext(ctx, "skipping country", "country", iso3, "reason", reason, "err", err)
			summary.Skipped = append(summary.Skipped, Skip{Country: iso3, Reason: reason, Err: err})
			p.metrics.Skipped(reason)
			if p.rollback {
				state.Restore(prior, iso3)
			}
			continue
		}
		summary.Published = append(summary.Published, iso3)
		p.metrics.Published()
	}

	if err := p.store.Save(context.WithoutCancel(ctx), state); err != nil {
		p.metrics.RunFailed()
		return nil, fmt.Errorf("failed to save run state: %w", err)
	}
	summary.Finished = time.Now().UTC()
	p.metrics.RunCompleted(summary.Finished.Sub(summary.Started))
	slog.InfoContext(ctx, "pipeline run complete", "detected", len(summary.Detected),
		"published", len(summary.Published), "skipped", len(summary.Skipped))
	return summary, ctx.Err()
}

func (p *Pipeline) processCountry(ctx context.Context, iso3 string) error {
	dataset, err := p.generator.GenerateDataset(ctx, iso3)
	if err != nil {
		return err
	}
	for _, r := range dataset.Resources {
		p.metrics.RowsFetched(r.Level, len(r.Rows))
	}
	if err := p.publisher.Publish(ctx, dataset); err != nil {
		return fmt.Errorf("%w: %s: %w", errPublish, iso3, err)
	}
	return nil
}
