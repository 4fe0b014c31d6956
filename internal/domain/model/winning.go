package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/okian/ticketscan/internal/domain/types"
)

// ErrInvalidWinningNumbers is returned for a malformed winning table.
var ErrInvalidWinningNumbers = errors.New("invalid winning numbers")

// TOTOWinning is a TOTO draw result.
type TOTOWinning struct {
	Numbers    []int `json:"numbers"`
	Additional int   `json:"additional"`
}

// Contains reports whether n is one of the six winning numbers.
func (w TOTOWinning) Contains(n int) bool {
	for _, v := range w.Numbers {
		if v == n {
			return true
		}
	}
	return false
}

// FourDWinning is a 4D draw result.
type FourDWinning struct {
	First       int   `json:"first"`
	Second      int   `json:"second"`
	Third       int   `json:"third"`
	Starter     []int `json:"starter"`
	Consolation []int `json:"consolation"`
}

// MarshalJSON renders every number zero-padded.
func (w FourDWinning) MarshalJSON() ([]byte, error) {
	pad := func(ns []int) []string {
		out := make([]string, len(ns))
		for i, n := range ns {
			out[i] = FormatFourD(n)
		}
		return out
	}
	return json.Marshal(struct {
		First       string   `json:"first"`
		Second      string   `json:"second"`
		Third       string   `json:"third"`
		Starter     []string `json:"starter"`
		Consolation []string `json:"consolation"`
	}{
		First:       FormatFourD(w.First),
		Second:      FormatFourD(w.Second),
		Third:       FormatFourD(w.Third),
		Starter:     pad(w.Starter),
		Consolation: pad(w.Consolation),
	})
}

// WinningNumbers is the configured prize table for one draw. It is built
// once at startup and only read afterwards.
type WinningNumbers struct {
	DrawDate string       `json:"draw_date,omitempty"`
	TOTO     TOTOWinning  `json:"toto"`
	FourD    FourDWinning `json:"four_d"`
}

// DefaultWinningNumbers is the demo draw of 2026-01-20.
func DefaultWinningNumbers() WinningNumbers {
	return WinningNumbers{
		DrawDate: "2026-01-20",
		TOTO: TOTOWinning{
			Numbers:    []int{1, 5, 12, 23, 34, 45},
			Additional: 7,
		},
		FourD: FourDWinning{
			First:       4109,
			Second:      1234,
			Third:       5678,
			Starter:     []int{1, 1111},
			Consolation: []int{2222, 3333},
		},
	}
}

// For returns the part of the table that applies to game.
func (w WinningNumbers) For(game types.GameType) any {
	switch game {
	case types.GameTOTO:
		return w.TOTO
	case types.GameFourD:
		return w.FourD
	}
	return nil
}

// Validate checks ranges and that no number holds two prizes.
func (w WinningNumbers) Validate() error {
	if len(w.TOTO.Numbers) != TOTOPick {
		return fmt.Errorf("%w: toto needs %d numbers, got %d", ErrInvalidWinningNumbers, TOTOPick, len(w.TOTO.Numbers))
	}
	seen := make(map[int]bool, TOTOPick+1)
	for _, n := range append(append([]int(nil), w.TOTO.Numbers...), w.TOTO.Additional) {
		if n < TOTOMin || n > TOTOMax {
			return fmt.Errorf("%w: toto number %d out of range", ErrInvalidWinningNumbers, n)
		}
		if seen[n] {
			return fmt.Errorf("%w: toto number %d repeated", ErrInvalidWinningNumbers, n)
		}
		seen[n] = true
	}

	tiers := map[int]types.Tier{}
	claim := func(n int, t types.Tier) error {
		if n < 0 || n > FourDMax {
			return fmt.Errorf("%w: 4d %s number %d out of range", ErrInvalidWinningNumbers, t, n)
		}
		if prev, ok := tiers[n]; ok {
			return fmt.Errorf("%w: 4d number %s is both %s and %s", ErrInvalidWinningNumbers, FormatFourD(n), prev, t)
		}
		tiers[n] = t
		return nil
	}
	for _, p := range []struct {
		n int
		t types.Tier
	}{{w.FourD.First, types.TierFirst}, {w.FourD.Second, types.TierSecond}, {w.FourD.Third, types.TierThird}} {
		if err := claim(p.n, p.t); err != nil {
			return err
		}
	}
	for _, n := range w.FourD.Starter {
		if err := claim(n, types.TierStarter); err != nil {
			return err
		}
	}
	for _, n := range w.FourD.Consolation {
		if err := claim(n, types.TierConsolation); err != nil {
			return err
		}
	}
	return nil
}
