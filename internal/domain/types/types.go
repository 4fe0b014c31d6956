// Package types contains the enumerations shared by every pipeline stage.
package types

import (
	"fmt"
	"strings"
)

// GameType identifies the lottery game printed on a ticket.
type GameType string

const (
	GameUnknown GameType = "UNKNOWN"
	GameTOTO    GameType = "TOTO"
	GameFourD   GameType = "4D"
)

// ParseGameType accepts the canonical names plus the FOUR_D alias.
func ParseGameType(s string) (GameType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TOTO":
		return GameTOTO, nil
	case "4D", "FOUR_D", "FOURD":
		return GameFourD, nil
	case "", "UNKNOWN":
		return GameUnknown, nil
	}
	return GameUnknown, fmt.Errorf("unknown game type %q", s)
}

func (g GameType) String() string { return string(g) }

// Known reports whether g is a playable game.
func (g GameType) Known() bool { return g == GameTOTO || g == GameFourD }

// Tier is a named prize category.
type Tier string

const (
	TierNone        Tier = "NONE"
	TierFirst       Tier = "FIRST"
	TierSecond      Tier = "SECOND"
	TierThird       Tier = "THIRD"
	TierStarter     Tier = "STARTER"
	TierConsolation Tier = "CONSOLATION"
	TierGroup1      Tier = "GROUP1"
	TierGroup2      Tier = "GROUP2"
	TierGroup3      Tier = "GROUP3"
	TierGroup4      Tier = "GROUP4"
	TierGroup5      Tier = "GROUP5"
	TierGroup6      Tier = "GROUP6"
	TierGroup7      Tier = "GROUP7"
)

// totoGroups is ordered from best to worst.
var totoGroups = []Tier{TierGroup1, TierGroup2, TierGroup3, TierGroup4, TierGroup5, TierGroup6, TierGroup7}

// TOTOGroup returns the tier for prize group n (1..7), TierNone otherwise.
func TOTOGroup(n int) Tier {
	if n < 1 || n > len(totoGroups) {
		return TierNone
	}
	return totoGroups[n-1]
}

// Rank orders tiers within a game; lower is better and TierNone ranks last.
func (t Tier) Rank() int {
	switch t {
	case TierFirst:
		return 1
	case TierSecond:
		return 2
	case TierThird:
		return 3
	case TierStarter:
		return 4
	case TierConsolation:
		return 5
	}
	for i, g := range totoGroups {
		if g == t {
			return i + 1
		}
	}
	return 100
}

// Better reports whether t outranks other.
func (t Tier) Better(other Tier) bool { return t.Rank() < other.Rank() }

func (t Tier) String() string { return string(t) }

// Reason enumerates structural validation failures.
type Reason string

const (
	ReasonWrongCount         Reason = "wrong_count"
	ReasonOutOfRange         Reason = "out_of_range"
	ReasonDuplicateNumbers   Reason = "duplicate_numbers"
	ReasonAmbiguousGrouping  Reason = "ambiguous_grouping"
	ReasonDigitCountMismatch Reason = "digit_count_mismatch"
	ReasonNoNumericContent   Reason = "no_numeric_content"
	ReasonClassification     Reason = "classification_failed"
	ReasonOCRUnavailable     Reason = "ocr_unavailable"
)

// FormatReasons lists the reasons a validator may return.
var FormatReasons = []Reason{
	ReasonWrongCount,
	ReasonOutOfRange,
	ReasonDuplicateNumbers,
	ReasonAmbiguousGrouping,
	ReasonDigitCountMismatch,
}

func (r Reason) String() string { return string(r) }
