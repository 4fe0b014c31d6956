// Package pipeline runs raw OCR text through normalization, classification,
// validation and prize checking.
package pipeline

import (
	"context"
	"fmt"

	"github.com/okian/ticketscan/internal/domain/classify"
	"github.com/okian/ticketscan/internal/domain/model"
	"github.com/okian/ticketscan/internal/domain/normalize"
	"github.com/okian/ticketscan/internal/domain/prize"
	"github.com/okian/ticketscan/internal/domain/types"
	"github.com/okian/ticketscan/internal/domain/validate"
	"github.com/okian/ticketscan/pkg/logger"
)

// Pipeline composes the four stages. It is safe for concurrent use: the
// stages are stateless and the winning table is never written after New.
type Pipeline struct {
	normalizer *normalize.Normalizer
	classifier *classify.Classifier
	validator  *validate.Validator
	winning    model.WinningNumbers
	logger     logger.Logger
}

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithNormalizer replaces the default normalizer.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(p *Pipeline) {
		if n != nil {
			p.normalizer = n
		}
	}
}

// WithClassifier replaces the default classifier.
func WithClassifier(c *classify.Classifier) Option {
	return func(p *Pipeline) {
		if c != nil {
			p.classifier = c
		}
	}
}

// WithValidator replaces the default validator.
func WithValidator(v *validate.Validator) Option {
	return func(p *Pipeline) {
		if v != nil {
			p.validator = v
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a Pipeline that checks tickets against w.
func New(w model.WinningNumbers, opts ...Option) *Pipeline {
	p := &Pipeline{
		normalizer: normalize.New(),
		classifier: classify.New(),
		validator:  validate.New(),
		winning:    w,
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Winning returns the table the pipeline checks against.
func (p *Pipeline) Winning() model.WinningNumbers { return p.winning }

// Process runs one ticket's OCR text through every stage. The first stage
// that fails ends the run; its error wraps one of the model rejections.
func (p *Pipeline) Process(ctx context.Context, raw string) (model.TicketResult, error) {
	set, err := p.normalizer.Normalize(ctx, raw)
	if err != nil {
		return p.reject(ctx, "normalize", err)
	}

	c, err := p.classifier.Classify(ctx, raw, set)
	if err != nil {
		return p.reject(ctx, "classify", err)
	}

	ticket, err := p.validator.Validate(ctx, c, set)
	if err != nil {
		return p.reject(ctx, "validate", err)
	}

	res := prize.Check(ticket, p.winning)

	out := model.TicketResult{
		GameType:         ticket.Game(),
		ExtractedNumbers: ticket.Numbers(),
		DisplayNumbers:   ticket.Display(),
		SystemSize:       ticket.SystemSize(),
		DrawDate:         ExtractDrawDate(raw),
		WinningNumbers:   p.winning.For(ticket.Game()),
		IsWinner:         res.IsWinner,
		Tier:             res.Tier,
		MatchedNumbers:   res.MatchedNumbers,
		Breakdown:        res.Breakdown,
		RawTokenCount:    ticket.RawTokenCount(),
		ClassifiedBy:     c.Rule,
	}
	if p.winning.DrawDate != "" && out.DrawDate != model.UnknownDrawDate && out.DrawDate != p.winning.DrawDate {
		out.Warnings = append(out.Warnings, model.WarnDrawDateMismatch)
	}
	if ticket.Game() == types.GameTOTO && ticket.SystemSize() != 0 && classify.SystemSize(raw) == 0 {
		out.Warnings = append(out.Warnings, model.WarnSystemInferred)
	}

	p.logger.Debug(ctx, "ticket checked",
		logger.String("game", out.GameType.String()),
		logger.String("tier", out.Tier.String()),
		logger.Bool("winner", out.IsWinner),
	)
	return out, nil
}

func (p *Pipeline) reject(ctx context.Context, stage string, err error) (model.TicketResult, error) {
	p.logger.Info(ctx, "ticket rejected",
		logger.String("stage", stage),
		logger.String("reason", model.ReasonOf(err).String()),
		logger.Error(err),
	)
	return model.TicketResult{}, fmt.Errorf("pipeline: %w", err)
}
