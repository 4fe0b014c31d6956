// Package model contains the values passed between pipeline stages.
package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/ticketscan/internal/domain/types"
)

// NumericToken is a digit run found in OCR text.
type NumericToken struct {
	Digits string `json:"digits"`
	Start  int    `json:"start"` // byte offset of the first digit
	End    int    `json:"end"`   // byte offset after the last digit
}

// Value returns the integer value of the digits.
func (t NumericToken) Value() int {
	n, _ := strconv.Atoi(t.Digits)
	return n
}

// Width is the number of digits.
func (t NumericToken) Width() int { return len(t.Digits) }

// NumberSet is the ordered output of the normalizer. Tokens keep their
// left-to-right order; links[i] records whether tokens i and i+1 were
// separated only by a short run of blanks and may be merged.
type NumberSet struct {
	tokens  []NumericToken
	links   []bool
	scanned int
	dropped []NumericToken
}

// NewNumberSet builds a NumberSet. scanned is the number of digit runs seen
// before filtering.
func NewNumberSet(tokens []NumericToken, links []bool, scanned int, dropped []NumericToken) (NumberSet, error) {
	if len(tokens) == 0 {
		if len(links) != 0 {
			return NumberSet{}, errors.New("links without tokens")
		}
	} else if len(links) != len(tokens)-1 {
		return NumberSet{}, fmt.Errorf("expected %d links, got %d", len(tokens)-1, len(links))
	}
	for i, t := range tokens {
		if t.Digits == "" || strings.Trim(t.Digits, "0123456789") != "" {
			return NumberSet{}, fmt.Errorf("token %d is not a digit run: %q", i, t.Digits)
		}
		if i > 0 && t.Start < tokens[i-1].End {
			return NumberSet{}, fmt.Errorf("token %d out of order", i)
		}
	}
	if scanned < len(tokens)+len(dropped) {
		scanned = len(tokens) + len(dropped)
	}
	return NumberSet{
		tokens:  append([]NumericToken(nil), tokens...),
		links:   append([]bool(nil), links...),
		scanned: scanned,
		dropped: append([]NumericToken(nil), dropped...),
	}, nil
}

// Len is the number of surviving tokens.
func (s NumberSet) Len() int { return len(s.tokens) }

// Scanned is the number of digit runs found before filtering.
func (s NumberSet) Scanned() int { return s.scanned }

// Tokens returns a copy of the surviving tokens.
func (s NumberSet) Tokens() []NumericToken { return append([]NumericToken(nil), s.tokens...) }

// Dropped returns the tokens removed as date context.
func (s NumberSet) Dropped() []NumericToken { return append([]NumericToken(nil), s.dropped...) }

// Values returns the integer value of every surviving token.
func (s NumberSet) Values() []int { return values(s.tokens) }

// Linked reports whether token i may merge with token i+1.
func (s NumberSet) Linked(i int) bool {
	return i >= 0 && i < len(s.links) && s.links[i]
}

// Grouped merges runs of linked short tokens into width-digit groups. A run
// is merged only when its digits divide exactly into groups on token
// boundaries; otherwise every token of the run is left as it was.
func (s NumberSet) Grouped(width int) []NumericToken {
	out := make([]NumericToken, 0, len(s.tokens))
	for i := 0; i < len(s.tokens); {
		if s.tokens[i].Width() >= width {
			out = append(out, s.tokens[i])
			i++
			continue
		}
		j := i
		for s.Linked(j) && s.tokens[j+1].Width() < width {
			j++
		}
		run := s.tokens[i : j+1]
		if groups, ok := chunk(run, width); ok {
			out = append(out, groups...)
		} else {
			out = append(out, run...)
		}
		i = j + 1
	}
	return out
}

// chunk concatenates run into width-digit groups. It fails when a group
// would straddle a token or digits are left over.
func chunk(run []NumericToken, width int) ([]NumericToken, bool) {
	var (
		out    []NumericToken
		digits string
		start  int
	)
	for _, t := range run {
		if digits == "" {
			start = t.Start
		}
		digits += t.Digits
		switch {
		case len(digits) == width:
			out = append(out, NumericToken{Digits: digits, Start: start, End: t.End})
			digits = ""
		case len(digits) > width:
			return nil, false
		}
	}
	return out, digits == "" && len(out) > 0
}

// Split breaks tokens longer than width into width-sized groups when their
// length is an exact multiple of width.
func (s NumberSet) Split(width int) []NumericToken {
	out := make([]NumericToken, 0, len(s.tokens))
	for _, t := range s.tokens {
		if t.Width() <= width || t.Width()%width != 0 {
			out = append(out, t)
			continue
		}
		for k := 0; k < t.Width(); k += width {
			out = append(out, NumericToken{
				Digits: t.Digits[k : k+width],
				Start:  t.Start + k,
				End:    t.Start + k + width,
			})
		}
	}
	return out
}

// Views returns the candidate readings of a set of numbers of the given
// width: the raw tokens, linked short tokens merged, and long tokens split.
// Duplicate readings are omitted.
func (s NumberSet) Views(width int) [][]int {
	var out [][]int
	for _, v := range [][]NumericToken{s.tokens, s.Grouped(width), s.Split(width)} {
		vals := values(v)
		dup := false
		for _, seen := range out {
			if equalInts(seen, vals) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, vals)
		}
	}
	return out
}

// Concat joins the digits of every surviving token.
func (s NumberSet) Concat() string {
	var b strings.Builder
	for _, t := range s.tokens {
		b.WriteString(t.Digits)
	}
	return b.String()
}

func values(tokens []NumericToken) []int {
	out := make([]int, len(tokens))
	for i, t := range tokens {
		out[i] = t.Value()
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Primary resolves the one number of the given width a single-number ticket
// carries. Exactly one width-digit group must exist after merging; with none,
// the digits of all tokens are concatenated and must total width.
func (s NumberSet) Primary(width int) (NumericToken, error) {
	var cands []NumericToken
	for _, t := range s.Grouped(width) {
		if t.Width() == width {
			cands = append(cands, t)
		}
	}
	switch {
	case len(cands) == 1:
		return cands[0], nil
	case len(cands) > 1:
		for _, c := range cands[1:] {
			if c.Digits != cands[0].Digits {
				return NumericToken{}, NewFormatError(types.ReasonAmbiguousGrouping,
					"%d candidate groups of %d digits", len(cands), width)
			}
		}
		return cands[0], nil
	}
	digits := s.Concat()
	if len(digits) != width {
		return NumericToken{}, NewFormatError(types.ReasonDigitCountMismatch,
			"found %d digits, want %d", len(digits), width)
	}
	return NumericToken{Digits: digits, Start: s.tokens[0].Start, End: s.tokens[len(s.tokens)-1].End}, nil
}
