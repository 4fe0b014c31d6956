// Package classify decides which game a ticket belongs to.
package classify

import (
	"context"
	"fmt"

	"github.com/okian/ticketscan/internal/domain/model"
	"github.com/okian/ticketscan/pkg/logger"
)

// Classifier evaluates an ordered rule list and returns the first verdict.
type Classifier struct {
	rules  []Rule
	logger logger.Logger
}

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithRules replaces the default rule list.
func WithRules(rules ...Rule) Option {
	return func(c *Classifier) {
		if len(rules) > 0 {
			c.rules = rules
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Classifier) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Classifier using DefaultRules unless overridden.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		rules:  DefaultRules(),
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns the verdict of the first matching rule, or
// model.ErrClassification when none matches.
func (c *Classifier) Classify(ctx context.Context, raw string, set model.NumberSet) (model.Classification, error) {
	in := Input{Raw: raw, Set: set}
	for _, r := range c.rules {
		if got, ok := r.Match(in); ok {
			if got.Rule == "" {
				got.Rule = r.Name
			}
			c.logger.Debug(ctx, "classified",
				logger.String("game", got.Game.String()),
				logger.String("rule", got.Rule),
				logger.Int("system_size", got.SystemSize),
			)
			return got, nil
		}
	}
	return model.Classification{}, fmt.Errorf("classify: %d tokens matched no rule: %w", set.Len(), model.ErrClassification)
}
