package normalize

import "github.com/okian/ticketscan/pkg/logger"

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithYearRange sets the inclusive range of values treated as years.
func WithYearRange(min, max int) Option {
	return func(n *Normalizer) {
		if min > 0 && max >= min {
			n.yearMin = min
			n.yearMax = max
		}
	}
}

// WithDateWindow sets how many tokens away from a year a day or month may
// sit for the year to count as part of a date.
func WithDateWindow(window int) Option {
	return func(n *Normalizer) {
		if window > 0 {
			n.dateWindow = window
		}
	}
}

// WithMergeGap sets the longest run of blanks that still links two tokens.
func WithMergeGap(gap int) Option {
	return func(n *Normalizer) {
		if gap > 0 {
			n.mergeGap = gap
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(n *Normalizer) {
		if l != nil {
			n.logger = l
		}
	}
}
