package analysis

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/argusintel/argus/internal/detect"
	"github.com/argusintel/argus/internal/domain/finding"
	"github.com/argusintel/argus/internal/domain/record"
	"github.com/argusintel/argus/internal/infrastructure/config"
	"github.com/argusintel/argus/internal/infrastructure/telemetry"
	"github.com/argusintel/argus/internal/service/correlation"
	"github.com/argusintel/argus/internal/service/scoring"
)

// IdentityResult bundles everything the engine derived for one identity.
type IdentityResult struct {
	Identity string
	Findings []*finding.Finding
	Score    *finding.RiskScore
	Links    []*finding.CorrelationLink
	Chain    *finding.EvidenceChain
}

// Report is the full outcome of one analysis run, ordered by identity key.
type Report struct {
	Results []*IdentityResult
}

// Result returns one identity's result or nil.
func (r *Report) Result(identity string) *IdentityResult {
	for _, res := range r.Results {
		if res.Identity == identity {
			return res
		}
	}
	return nil
}

// Engine orchestrates one analysis run: stream validation, per-identity
// detection across a worker pool, cross-identity detection on the merged
// timeline, then scoring, correlation and evidence chain assembly.
//
// The engine is deterministic: identical datasets and configuration
// produce byte-identical reports regardless of worker count.
type Engine struct {
	cfg            *config.Config
	logger         *zap.Logger
	metrics        *telemetry.Metrics
	detectors      []detect.Detector
	crossDetectors []detect.CrossDetector
	scorer         *scoring.Scorer
	correlator     *correlation.Correlator
}

func NewEngine(cfg *config.Config, logger *zap.Logger, metrics *telemetry.Metrics) *Engine {
	return &Engine{
		cfg:            cfg,
		logger:         logger,
		metrics:        metrics,
		detectors:      DefaultDetectors(),
		crossDetectors: DefaultCrossDetectors(),
		scorer:         scoring.NewScorer(&cfg.Scoring, logger),
		correlator:     correlation.NewCorrelator(cfg, logger),
	}
}

// Run analyzes the dataset. Unsorted streams and scoring configuration
// gaps abort the run; an individual detector failure skips only that
// detector's findings for that identity.
func (e *Engine) Run(ctx context.Context, ds *record.Dataset) (*Report, error) {
	started := time.Now()
	keys := ds.Keys()

	for _, key := range keys {
		if err := ds.Streams(key).VerifySorted(); err != nil {
			return nil, err
		}
	}

	timeline := detect.BuildTimeline(ds)
	crossFindings := e.runCrossDetectors(timeline)

	results := make([]*IdentityResult, len(keys))
	errs := make([]error, len(keys))

	workers := e.cfg.Analysis.Workers
	if workers > len(keys) {
		workers = len(keys)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				key := keys[i]
				results[i], errs[i] = e.analyzeIdentity(key, ds.Streams(key), crossFindings[key])
			}
		}()
	}

	for i := range keys {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	e.metrics.AnalysisDuration.Observe(time.Since(started).Seconds())
	e.logger.Info("analysis run complete",
		zap.Int("identities", len(keys)),
		zap.Duration("elapsed", time.Since(started)))
	return &Report{Results: results}, nil
}

// runCrossDetectors executes the multi-identity detectors once and groups
// their findings by identity key.
func (e *Engine) runCrossDetectors(timeline *detect.Timeline) map[string][]*finding.Finding {
	grouped := make(map[string][]*finding.Finding)
	for _, d := range e.crossDetectors {
		e.metrics.DetectorRuns.WithLabelValues(d.Name()).Inc()
		found, err := d.DetectAll(timeline, e.cfg)
		if err != nil {
			e.metrics.DetectorFailures.WithLabelValues(d.Name()).Inc()
			e.logger.Warn("cross detector failed, skipping its findings",
				zap.String("detector", d.Name()), zap.Error(err))
			continue
		}
		for _, f := range found {
			grouped[f.Identity] = append(grouped[f.Identity], f)
			e.metrics.FindingsEmitted.WithLabelValues(f.Pattern).Inc()
		}
	}
	return grouped
}

func (e *Engine) analyzeIdentity(key string, streams *record.Streams, crossFindings []*finding.Finding) (*IdentityResult, error) {
	var findings []*finding.Finding
	for _, d := range e.detectors {
		e.metrics.DetectorRuns.WithLabelValues(d.Name()).Inc()
		found, err := d.Detect(key, streams, e.cfg)
		if err != nil {
			e.metrics.DetectorFailures.WithLabelValues(d.Name()).Inc()
			e.logger.Warn("detector failed, skipping its findings",
				zap.String("detector", d.Name()),
				zap.String("identity", key),
				zap.Error(err))
			continue
		}
		for _, f := range found {
			e.metrics.FindingsEmitted.WithLabelValues(f.Pattern).Inc()
		}
		findings = append(findings, found...)
	}
	findings = append(findings, crossFindings...)
	sortFindings(findings)

	score, err := e.scorer.Score(key, findings)
	if err != nil {
		return nil, err
	}
	e.metrics.IdentitiesScored.Inc()

	links := e.correlator.Correlate(key, streams)
	for range links {
		e.metrics.LinksEmitted.Inc()
	}

	return &IdentityResult{
		Identity: key,
		Findings: findings,
		Score:    score,
		Links:    links,
		Chain:    correlation.BuildChain(key, findings, links),
	}, nil
}

// sortFindings fixes the canonical finding order: chronological, then
// category declaration order, then pattern name, then derived ID.
func sortFindings(findings []*finding.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if !a.Timestamp().Equal(b.Timestamp()) {
			return a.Timestamp().Before(b.Timestamp())
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.Pattern != b.Pattern {
			return a.Pattern < b.Pattern
		}
		return a.ID.String() < b.ID.String()
	})
}
