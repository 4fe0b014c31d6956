package pipeline

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/okian/ticketscan/internal/domain/model"
)

const isoDate = "2006-01-02"

var (
	isoPattern   = regexp.MustCompile(`\b([0-9]{4})-([0-9]{1,2})-([0-9]{1,2})\b`)
	dmyPattern   = regexp.MustCompile(`\b([0-9]{1,2})[/-]([0-9]{1,2})[/-]([0-9]{4})\b`)
	monthPattern = regexp.MustCompile(`(?i)\b([0-9]{1,2})\s+(JAN|FEB|MAR|APR|MAY|JUN|JUL|AUG|SEP|OCT|NOV|DEC)[A-Z]*\.?,?\s+([0-9]{4})\b`)

	monthIndex = map[string]time.Month{
		"JAN": time.January, "FEB": time.February, "MAR": time.March, "APR": time.April,
		"MAY": time.May, "JUN": time.June, "JUL": time.July, "AUG": time.August,
		"SEP": time.September, "OCT": time.October, "NOV": time.November, "DEC": time.December,
	}
)

// ExtractDrawDate finds the first printed draw date and returns it as
// YYYY-MM-DD, or model.UnknownDrawDate. Recognized forms are 2026-01-20,
// 20/01/2026, 20-01-2026 and 20 JAN 2026 (an optional weekday before the
// day is simply skipped).
func ExtractDrawDate(raw string) string {
	if m := isoPattern.FindStringSubmatch(raw); m != nil {
		if d, ok := civil(m[1], m[2], m[3]); ok {
			return d
		}
	}
	if m := dmyPattern.FindStringSubmatch(raw); m != nil {
		if d, ok := civil(m[3], m[2], m[1]); ok {
			return d
		}
	}
	if m := monthPattern.FindStringSubmatch(raw); m != nil {
		mon := monthIndex[strings.ToUpper(m[2])]
		if d, ok := civil(m[3], strconv.Itoa(int(mon)), m[1]); ok {
			return d
		}
	}
	return model.UnknownDrawDate
}

// civil builds a date and rejects values time.Date would normalize away,
// such as 31 February.
func civil(year, month, day string) (string, bool) {
	y, err1 := strconv.Atoi(year)
	m, err2 := strconv.Atoi(month)
	d, err3 := strconv.Atoi(day)
	if err1 != nil || err2 != nil || err3 != nil {
		return "", false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return "", false
	}
	return t.Format(isoDate), true
}
