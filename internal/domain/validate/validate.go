// Package validate applies game-specific structural rules to normalized tokens.
package validate

import (
	"context"
	"fmt"

	"github.com/okian/ticketscan/internal/domain/model"
	"github.com/okian/ticketscan/internal/domain/types"
	"github.com/okian/ticketscan/pkg/logger"
)

// Validator turns a classified NumberSet into a ValidatedTicket.
type Validator struct {
	logger logger.Logger
}

// Option applies a configuration option to the Validator.
type Option func(*Validator)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// New creates a Validator.
func New(opts ...Option) *Validator {
	v := &Validator{logger: logger.Nop()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate returns a ticket or a *model.FormatError naming the first rule
// the numbers break.
func (v *Validator) Validate(ctx context.Context, c model.Classification, set model.NumberSet) (model.ValidatedTicket, error) {
	var (
		t   model.ValidatedTicket
		err error
	)
	switch c.Game {
	case types.GameTOTO:
		t, err = TOTO(set, c.SystemSize)
	case types.GameFourD:
		t, err = FourD(set)
	default:
		return model.ValidatedTicket{}, fmt.Errorf("validate: game %q: %w", c.Game, model.ErrClassification)
	}
	if err != nil {
		v.logger.Debug(ctx, "validation failed",
			logger.String("game", c.Game.String()),
			logger.String("reason", model.ReasonOf(err).String()),
		)
		return model.ValidatedTicket{}, fmt.Errorf("validate: %w", err)
	}
	return t, nil
}

// TOTO validates a TOTO board. Readings are tried in order (raw tokens,
// merged pairs, split long runs) and the first fully valid one wins. When
// none is valid the error of the first reading with the expected count is
// returned, or of the raw reading if no count fits. An ordinary ticket
// with seven numbers is read as System 7.
func TOTO(set model.NumberSet, systemSize int) (model.ValidatedTicket, error) {
	views := set.Views(model.TOTOWidth)
	sizes := []int{systemSize}
	if systemSize == 0 {
		sizes = append(sizes, model.TOTOSystemMin)
	}

	var firstErr error
	for _, size := range sizes {
		want := size
		if want == 0 {
			want = model.TOTOPick
		}
		for _, view := range views {
			if len(view) != want {
				continue
			}
			t, err := model.NewTOTOTicket(view, size, set.Scanned())
			if err == nil {
				return t, nil
			}
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if firstErr != nil {
		return model.ValidatedTicket{}, firstErr
	}
	var raw []int
	if len(views) > 0 {
		raw = views[0]
	}
	_, err := model.NewTOTOTicket(raw, systemSize, set.Scanned())
	return model.ValidatedTicket{}, err
}

// FourD reconstructs the canonical 4-digit number from any of its printed
// forms: one group, four single digits, or a mix that totals four digits.
func FourD(set model.NumberSet) (model.ValidatedTicket, error) {
	p, err := set.Primary(model.FourDWidth)
	if err != nil {
		return model.ValidatedTicket{}, err
	}
	return model.NewFourDTicket(p.Value(), set.Scanned())
}
