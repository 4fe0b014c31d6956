// Package normalize turns raw OCR text into an ordered set of numeric tokens.
package normalize

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/okian/ticketscan/internal/domain/model"
	"github.com/okian/ticketscan/pkg/logger"
)

const (
	defaultYearMin    = 1900
	defaultYearMax    = 2099
	defaultDateWindow = 2
	defaultMergeGap   = 2

	maskByte = '_'
)

var (
	digitRun = regexp.MustCompile(`[0-9]+`)

	// Labelled numbers that are never ticket numbers.
	maskPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bSYS(?:TEM)?\s*[:#.]?\s*[0-9]{1,2}\b`),
		regexp.MustCompile(`(?i)\bDRAW\s*(?:NO\.?|#)?\s*[:#]?\s*[0-9]+`),
		regexp.MustCompile(`(?i)\b(?:TICKET|SERIAL|TKT)\s*(?:NO\.?|#)?\s*[:#]?\s*[0-9][0-9-]*`),
		regexp.MustCompile(`\$\s*[0-9]+(?:\.[0-9]+)?`),
		regexp.MustCompile(`(?i)\b4\s*-\s*D\b`),
		regexp.MustCompile(`\b[0-9]{1,2}:[0-9]{2}(?::[0-9]{2})?\b`),
	}

	months = map[string]bool{
		"JAN": true, "FEB": true, "MAR": true, "APR": true, "MAY": true, "JUN": true,
		"JUL": true, "AUG": true, "SEP": true, "SEPT": true, "OCT": true, "NOV": true, "DEC": true,
		"JANUARY": true, "FEBRUARY": true, "MARCH": true, "APRIL": true, "JUNE": true, "JULY": true,
		"AUGUST": true, "SEPTEMBER": true, "OCTOBER": true, "NOVEMBER": true, "DECEMBER": true,
	}

	// confusables maps letters OCR commonly reads in place of digits.
	confusables = map[byte]byte{'O': '0', 'o': '0', 'I': '1', 'l': '1'}
)

// Normalizer extracts numeric tokens from OCR text. It holds no mutable
// state and is safe for concurrent use.
type Normalizer struct {
	yearMin    int
	yearMax    int
	dateWindow int
	mergeGap   int
	logger     logger.Logger
}

// New creates a Normalizer with the given options.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		yearMin:    defaultYearMin,
		yearMax:    defaultYearMax,
		dateWindow: defaultDateWindow,
		mergeGap:   defaultMergeGap,
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize scans raw for digit runs, drops years that sit in a date and
// records which neighbours may be merged. It fails with
// model.ErrNoNumericContent when no usable digits remain.
func (n *Normalizer) Normalize(ctx context.Context, raw string) (model.NumberSet, error) {
	text := mask(repair([]byte(raw)))

	var scanned []model.NumericToken
	for _, loc := range digitRun.FindAllIndex(text, -1) {
		if gluedToLetter(text, loc[0], loc[1]) {
			continue
		}
		scanned = append(scanned, model.NumericToken{Digits: string(text[loc[0]:loc[1]]), Start: loc[0], End: loc[1]})
	}
	if len(scanned) == 0 {
		return model.NumberSet{}, fmt.Errorf("normalize: %w", model.ErrNoNumericContent)
	}

	drop := n.dateTokens(text, scanned)

	var kept, dropped []model.NumericToken
	var links []bool
	prev := -1
	for i, t := range scanned {
		if drop[i] {
			dropped = append(dropped, t)
			continue
		}
		if len(kept) > 0 {
			links = append(links, prev == i-1 && n.mergeable(text[scanned[i-1].End:t.Start]))
		}
		kept = append(kept, t)
		prev = i
	}
	if len(kept) == 0 {
		return model.NumberSet{}, fmt.Errorf("normalize: only date digits found: %w", model.ErrNoNumericContent)
	}

	set, err := model.NewNumberSet(kept, links, len(scanned), dropped)
	if err != nil {
		return model.NumberSet{}, fmt.Errorf("normalize: %w", err)
	}
	n.logger.Debug(ctx, "normalized",
		logger.Int("scanned", len(scanned)),
		logger.Int("kept", len(kept)),
		logger.Int("dropped", len(dropped)),
	)
	return set, nil
}

// repair reads a lone confusable letter touching a digit as a digit.
// Letters inside words are left alone.
func repair(b []byte) []byte {
	at := func(i int) byte {
		if i < 0 || i >= len(b) {
			return ' '
		}
		return b[i]
	}
	for i := range b {
		d, ok := confusables[b[i]]
		if !ok {
			continue
		}
		prev, next := at(i-1), at(i+1)
		if (isDigit(prev) || isDigit(next)) && !isLetter(prev) && !isLetter(next) {
			b[i] = d
		}
	}
	return b
}

// mask overwrites labelled numbers so they are neither scanned nor bridged.
func mask(b []byte) []byte {
	for _, re := range maskPatterns {
		for _, loc := range re.FindAllIndex(b, -1) {
			for i := loc[0]; i < loc[1]; i++ {
				if b[i] != '\n' {
					b[i] = maskByte
				}
			}
		}
	}
	return b
}

func gluedToLetter(b []byte, start, end int) bool {
	return (start > 0 && isLetter(b[start-1])) || (end < len(b) && isLetter(b[end]))
}

// mergeable reports whether gap is a short run of spaces and tabs only.
func (n *Normalizer) mergeable(gap []byte) bool {
	if len(gap) == 0 || len(gap) > n.mergeGap {
		return false
	}
	for _, c := range gap {
		if c != ' ' && c != '\t' {
			return false
		}
	}
	return true
}

// dateTokens marks the tokens that belong to a printed date. Neighbouring
// tokens joined by a date separator or a month name form a chain; inside a
// chain a year is dropped with the days and months close to it. A year
// right next to a month name is dropped on its own.
func (n *Normalizer) dateTokens(text []byte, tokens []model.NumericToken) []bool {
	drop := make([]bool, len(tokens))
	if len(tokens) == 0 {
		return drop
	}

	for start := 0; start < len(tokens); {
		end := start
		for end+1 < len(tokens) && dateJoint(text[tokens[end].End:tokens[end+1].Start]) {
			end++
		}
		for _, i := range n.chainDate(tokens[start : end+1]) {
			drop[start+i] = true
		}
		start = end + 1
	}

	for i, t := range tokens {
		if drop[i] || !n.yearLike(t) {
			continue
		}
		before := 0
		if i > 0 {
			before = tokens[i-1].End
		}
		after := len(text)
		if i+1 < len(tokens) {
			after = tokens[i+1].Start
		}
		if monthNear(text[before:t.Start]) || monthNear(text[t.End:after]) {
			drop[i] = true
		}
	}
	return drop
}

// chainDate returns the chain positions of every year that has a day or
// month within the date window, together with those days and months.
// Other members of the chain are kept.
func (n *Normalizer) chainDate(chain []model.NumericToken) []int {
	if len(chain) < 2 {
		return nil
	}
	var out []int
	for i, t := range chain {
		if !n.yearLike(t) {
			continue
		}
		var parts []int
		for j, u := range chain {
			if j != i && abs(j-i) <= n.dateWindow && dayOrMonth(u) {
				parts = append(parts, j)
			}
		}
		if len(parts) > 0 {
			out = append(out, i)
			out = append(out, parts...)
		}
	}
	return out
}

func (n *Normalizer) yearLike(t model.NumericToken) bool {
	v := t.Value()
	return t.Width() == 4 && v >= n.yearMin && v <= n.yearMax
}

func dayOrMonth(t model.NumericToken) bool {
	v := t.Value()
	return t.Width() <= 2 && v >= 1 && v <= 31
}

// dateJoint reports whether gap links two date parts: a single separator
// or a month name, surrounded by optional blanks and commas.
func dateJoint(gap []byte) bool {
	s := strings.Trim(string(gap), " \t,")
	switch s {
	case "/", "-", ".":
		return true
	}
	return months[strings.ToUpper(strings.Trim(s, "."))]
}

// monthNear reports whether the word touching a year is a month name.
func monthNear(gap []byte) bool {
	for _, f := range strings.FieldsFunc(string(gap), func(r rune) bool {
		return r == ' ' || r == '\t' || r == ',' || r == '.' || r == '\n'
	}) {
		if months[strings.ToUpper(f)] {
			return true
		}
	}
	return false
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
