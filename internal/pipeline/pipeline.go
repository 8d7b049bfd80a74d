// Package pipeline orchestrates one spreadsheet end to end: parse, normalize
// columns, build and resolve records, generate recommendations, filter by
// phase.
package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/vendamais/followup-cli/internal/config"
	"github.com/vendamais/followup-cli/internal/deal"
	"github.com/vendamais/followup-cli/internal/schema"
	"github.com/vendamais/followup-cli/internal/strategy"
	"github.com/vendamais/followup-cli/internal/tabular"
)

// Adviser generates a recommendation for one resolved record.
type Adviser interface {
	Advise(ctx context.Context, r *deal.Record) (string, error)
}

// Pipeline processes uploaded spreadsheets into coached deal records.
type Pipeline struct {
	schema  *schema.Schema
	builder *deal.Builder
	adviser Adviser
	cfg     config.BatchConfig
	limiter *rate.Limiter
	group   singleflight.Group
}

// New creates a Pipeline. RequestDelay spaces generation requests; a
// MaxConcurrent above 1 opts into a bounded worker pool, otherwise records
// are processed strictly in input order.
func New(s *schema.Schema, adviser Adviser, cfg config.BatchConfig) *Pipeline {
	limit := rate.Inf
	if cfg.RequestDelay > 0 {
		limit = rate.Every(cfg.RequestDelay)
	}

	return &Pipeline{
		schema:  s,
		builder: deal.NewBuilder(s),
		adviser: adviser,
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Result is the outcome of processing one spreadsheet.
type Result struct {
	// Records are the coached records after the phase filter, in input order.
	Records []deal.Record
	// Total counts records built before the phase filter.
	Total int
	// Skipped counts input rows dropped as empty.
	Skipped int
}

// Process runs the full pipeline over raw spreadsheet bytes. Parse failures
// surface as *tabular.FormatError; generation failures never abort the batch,
// the affected record carries a fallback recommendation instead.
func (p *Pipeline) Process(ctx context.Context, data []byte, filename string) (*Result, error) {
	table, err := tabular.Load(data, filename)
	if err != nil {
		return nil, err
	}

	normalized := p.schema.Apply(table)
	records, skipped := p.builder.BuildRecords(normalized)
	for i := range records {
		deal.Resolve(&records[i])
	}

	zap.L().Info("pipeline: advising records",
		zap.String("filename", filename),
		zap.Int("records", len(records)),
		zap.Int("max_concurrent", p.cfg.MaxConcurrent),
	)

	if err := p.advise(ctx, records); err != nil {
		return nil, err
	}

	filtered := deal.FilterByPhase(records)
	return &Result{
		Records: filtered,
		Total:   len(records),
		Skipped: skipped,
	}, nil
}

func (p *Pipeline) advise(ctx context.Context, records []deal.Record) error {
	if p.cfg.MaxConcurrent <= 1 {
		for i := range records {
			if err := p.adviseOne(ctx, &records[i]); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.MaxConcurrent)
	for i := range records {
		rec := &records[i]
		g.Go(func() error {
			return p.adviseOne(gctx, rec)
		})
	}
	return g.Wait()
}

// adviseOne fills one record's recommendation. Identical rows in flight at
// the same time share a single generation via singleflight.
func (p *Pipeline) adviseOne(ctx context.Context, r *deal.Record) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "pipeline: rate limiter")
	}

	out, err, shared := p.group.Do(r.Fingerprint(), func() (any, error) {
		return p.adviser.Advise(ctx, r)
	})
	if err != nil {
		if ctx.Err() != nil {
			return eris.Wrap(ctx.Err(), "pipeline: advise canceled")
		}
		zap.L().Warn("pipeline: generation failed, using fallback",
			zap.String("business", r.BusinessName),
			zap.Error(err),
		)
		r.Recommendation = strategy.FallbackAdvice(r)
		return nil
	}

	if shared {
		zap.L().Debug("pipeline: shared generation for duplicate row",
			zap.String("business", r.BusinessName),
		)
	}
	r.Recommendation = out.(string)
	return nil
}
