package model

import (
	"fmt"
	"sort"

	"github.com/okian/ticketscan/internal/domain/types"
)

// Board limits.
const (
	TOTOMin       = 1
	TOTOMax       = 49
	TOTOPick      = 6
	TOTOSystemMin = 7
	TOTOSystemMax = 12
	TOTOWidth     = 2 // digits per printed TOTO number
	FourDWidth    = 4
	FourDMax      = 9999
)

// Classification is the classifier's verdict for one ticket.
type Classification struct {
	Game       types.GameType `json:"game_type"`
	SystemSize int            `json:"system_size,omitempty"` // 0 for an ordinary ticket
	Rule       string         `json:"rule"`
}

// ValidatedTicket is a structurally valid ticket. The zero value is not
// valid; use NewTOTOTicket or NewFourDTicket.
type ValidatedTicket struct {
	game       types.GameType
	numbers    []int
	systemSize int
	rawTokens  int
}

// NewTOTOTicket checks count, range and uniqueness in that order.
// systemSize is 0 for an ordinary six-number ticket.
func NewTOTOTicket(numbers []int, systemSize, rawTokens int) (ValidatedTicket, error) {
	want := TOTOPick
	if systemSize != 0 {
		if systemSize < TOTOSystemMin || systemSize > TOTOSystemMax {
			return ValidatedTicket{}, NewFormatError(types.ReasonWrongCount, "unsupported system size %d", systemSize)
		}
		want = systemSize
	}
	if len(numbers) != want {
		return ValidatedTicket{}, NewFormatError(types.ReasonWrongCount, "found %d numbers, want %d", len(numbers), want)
	}
	seen := make(map[int]struct{}, len(numbers))
	for _, n := range numbers {
		if n < TOTOMin || n > TOTOMax {
			return ValidatedTicket{}, NewFormatError(types.ReasonOutOfRange, "%d is outside %d-%d", n, TOTOMin, TOTOMax)
		}
	}
	for _, n := range numbers {
		if _, ok := seen[n]; ok {
			return ValidatedTicket{}, NewFormatError(types.ReasonDuplicateNumbers, "%d appears more than once", n)
		}
		seen[n] = struct{}{}
	}
	return ValidatedTicket{
		game:       types.GameTOTO,
		numbers:    append([]int(nil), numbers...),
		systemSize: systemSize,
		rawTokens:  rawTokens,
	}, nil
}

// NewFourDTicket wraps a canonical 4D number.
func NewFourDTicket(number, rawTokens int) (ValidatedTicket, error) {
	if number < 0 || number > FourDMax {
		return ValidatedTicket{}, NewFormatError(types.ReasonDigitCountMismatch, "%d is not a 4-digit number", number)
	}
	return ValidatedTicket{
		game:      types.GameFourD,
		numbers:   []int{number},
		rawTokens: rawTokens,
	}, nil
}

// Game returns the ticket's game.
func (t ValidatedTicket) Game() types.GameType { return t.game }

// Numbers returns the numbers in printed order.
func (t ValidatedTicket) Numbers() []int { return append([]int(nil), t.numbers...) }

// SystemSize is 0 unless the ticket is a TOTO system bet.
func (t ValidatedTicket) SystemSize() int { return t.systemSize }

// RawTokenCount is the number of digit runs the OCR text contained.
func (t ValidatedTicket) RawTokenCount() int { return t.rawTokens }

// Valid reports whether t was built by a constructor.
func (t ValidatedTicket) Valid() bool { return t.game.Known() && len(t.numbers) > 0 }

// Display renders the numbers for people: 4D numbers are zero-padded.
func (t ValidatedTicket) Display() []string {
	out := make([]string, len(t.numbers))
	for i, n := range t.numbers {
		if t.game == types.GameFourD {
			out[i] = FormatFourD(n)
		} else {
			out[i] = fmt.Sprintf("%02d", n)
		}
	}
	return out
}

// Sorted returns the numbers in ascending order.
func (t ValidatedTicket) Sorted() []int {
	out := t.Numbers()
	sort.Ints(out)
	return out
}

// FormatFourD renders n as four digits.
func FormatFourD(n int) string { return fmt.Sprintf("%04d", n) }
