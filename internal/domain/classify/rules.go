package classify

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/agext/levenshtein"

	"github.com/okian/ticketscan/internal/domain/model"
	"github.com/okian/ticketscan/internal/domain/types"
)

// Rule names as reported in model.Classification.Rule.
const (
	RuleTOTOTitle  = "toto_title"
	RuleTOTOShape  = "toto_shape"
	RuleFourDTitle = "four_d_title"
	RuleFourDShape = "four_d_shape"
)

// Input is what every rule sees.
type Input struct {
	Raw string
	Set model.NumberSet
}

// Rule inspects a ticket and either decides its game or passes.
type Rule struct {
	Name  string
	Match func(in Input) (model.Classification, bool)
}

// DefaultRules returns the rule list in priority order.
//
//  1. A TOTO title wins over any number shape: the title is the stronger
//     signal whenever OCR got it.
//  2. Six or seven distinct numbers in 1-49 read as TOTO when no title was found.
//  3. A 4D title claims the ticket so malformed 4D numbers reject with a
//     format reason instead of a classification failure.
//  4. A single resolvable 4-digit number reads as 4D.
func DefaultRules() []Rule {
	return []Rule{
		{Name: RuleTOTOTitle, Match: totoTitle},
		{Name: RuleTOTOShape, Match: totoShape},
		{Name: RuleFourDTitle, Match: fourDTitle},
		{Name: RuleFourDShape, Match: fourDShape},
	}
}

var (
	systemKeyword = regexp.MustCompile(`(?i)\bSYS(?:TEM)?\s*[:#.]?\s*([0-9]{1,2})\b`)
	fourDKeyword  = regexp.MustCompile(`(?i)(?:^|[^0-9A-Z])4\s?-?\s?D(?:[^A-Z]|$)|\bFOUR\s*-?\s*D\b`)

	// titleLookalikes maps characters OCR confuses with the letters of TOTO.
	titleLookalikes = map[rune]rune{'0': 'O', 'Q': 'O', 'D': 'O', '7': 'T', '1': 'T'}
)

const totoTitleWord = "TOTO"

// SystemSize returns the N of a printed "SYSTEM N" when 7 <= N <= 12.
func SystemSize(raw string) int {
	for _, m := range systemKeyword.FindAllStringSubmatch(raw, -1) {
		n, err := strconv.Atoi(m[1])
		if err == nil && n >= model.TOTOSystemMin && n <= model.TOTOSystemMax {
			return n
		}
	}
	return 0
}

// HasTOTOTitle reports whether raw contains a word that reads as TOTO
// after undoing common OCR substitutions. One character may still differ
// when it is not a letter, so TOTE or LOTO never read as TOTO.
func HasTOTOTitle(raw string) bool {
	words := strings.FieldsFunc(raw, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		if len(w) != len(totoTitleWord) {
			continue
		}
		letters := 0
		orig := []rune(strings.ToUpper(w))
		mapped := append([]rune(nil), orig...)
		for i, r := range mapped {
			if unicode.IsLetter(r) {
				letters++
			}
			if l, ok := titleLookalikes[r]; ok {
				mapped[i] = l
			}
		}
		if letters < 2 {
			continue
		}
		switch levenshtein.Distance(string(mapped), totoTitleWord, nil) {
		case 0:
			return true
		case 1:
			if noisyMismatch(orig, mapped) {
				return true
			}
		}
	}
	return false
}

// noisyMismatch reports whether the one position where mapped differs from
// the title holds a character that is not a letter.
func noisyMismatch(orig, mapped []rune) bool {
	for i, r := range []rune(totoTitleWord) {
		if i >= len(mapped) {
			return false
		}
		if mapped[i] != r {
			return !unicode.IsLetter(orig[i])
		}
	}
	return false
}

func totoTitle(in Input) (model.Classification, bool) {
	if !HasTOTOTitle(in.Raw) {
		return model.Classification{}, false
	}
	return model.Classification{Game: types.GameTOTO, SystemSize: SystemSize(in.Raw), Rule: RuleTOTOTitle}, true
}

func totoShape(in Input) (model.Classification, bool) {
	system := SystemSize(in.Raw)
	for _, view := range in.Set.Views(model.TOTOWidth) {
		if !distinctInRange(view) {
			continue
		}
		switch n := len(view); {
		case system != 0 && n == system:
			return model.Classification{Game: types.GameTOTO, SystemSize: system, Rule: RuleTOTOShape}, true
		case system == 0 && n == model.TOTOPick:
			return model.Classification{Game: types.GameTOTO, Rule: RuleTOTOShape}, true
		case system == 0 && n == model.TOTOSystemMin:
			return model.Classification{Game: types.GameTOTO, SystemSize: model.TOTOSystemMin, Rule: RuleTOTOShape}, true
		}
	}
	return model.Classification{}, false
}

func fourDTitle(in Input) (model.Classification, bool) {
	if !fourDKeyword.MatchString(in.Raw) {
		return model.Classification{}, false
	}
	return model.Classification{Game: types.GameFourD, Rule: RuleFourDTitle}, true
}

// fourDShape needs the whole reading to be one number. Stray tokens next to
// a 4-digit group are tolerated only once a 4D title has been seen.
func fourDShape(in Input) (model.Classification, bool) {
	p, err := in.Set.Primary(model.FourDWidth)
	if err != nil {
		return model.Classification{}, false
	}
	if len(in.Set.Concat()) == model.FourDWidth {
		return model.Classification{Game: types.GameFourD, Rule: RuleFourDShape}, true
	}
	for _, t := range in.Set.Grouped(model.FourDWidth) {
		if t.Digits != p.Digits {
			return model.Classification{}, false
		}
	}
	return model.Classification{Game: types.GameFourD, Rule: RuleFourDShape}, true
}

func distinctInRange(ns []int) bool {
	seen := make(map[int]bool, len(ns))
	for _, n := range ns {
		if n < model.TOTOMin || n > model.TOTOMax || seen[n] {
			return false
		}
		seen[n] = true
	}
	return true
}
