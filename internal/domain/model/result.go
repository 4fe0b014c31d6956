package model

import (
	"time"

	"github.com/okian/ticketscan/internal/domain/types"
)

// PrizeResult is the prize checker's verdict.
type PrizeResult struct {
	IsWinner          bool               `json:"is_winner"`
	Tier              types.Tier         `json:"tier"`
	MatchedNumbers    []int              `json:"matched_numbers"`
	AdditionalMatched bool               `json:"additional_matched,omitempty"`
	Combinations      int                `json:"combinations"`
	Breakdown         map[types.Tier]int `json:"breakdown,omitempty"`
}

// Warnings attached to an otherwise successful result.
const (
	WarnDrawDateMismatch = "draw_date_mismatch"
	WarnSystemInferred   = "system_size_inferred"
)

// UnknownDrawDate is reported when no draw date is printed.
const UnknownDrawDate = "UNKNOWN"

// TicketResult is what processing one ticket returns to callers.
type TicketResult struct {
	GameType         types.GameType     `json:"game_type"`
	ExtractedNumbers []int              `json:"extracted_numbers"`
	DisplayNumbers   []string           `json:"display_numbers"`
	SystemSize       int                `json:"system_size,omitempty"`
	DrawDate         string             `json:"draw_date"`
	WinningNumbers   any                `json:"winning_numbers"`
	IsWinner         bool               `json:"is_winner"`
	Tier             types.Tier         `json:"tier"`
	MatchedNumbers   []int              `json:"matched_numbers"`
	Breakdown        map[types.Tier]int `json:"breakdown,omitempty"`
	RawTokenCount    int                `json:"raw_token_count"`
	ClassifiedBy     string             `json:"classified_by"`
	Warnings         []string           `json:"warnings,omitempty"`
	Duplicate        bool               `json:"duplicate,omitempty"`
	ImageSHA256      string             `json:"image_sha256,omitempty"`
	RecordID         string             `json:"record_id,omitempty"`
}

// HistoryRecord is one processed ticket as kept in ticket history.
// Rejected tickets carry a Reason and no numbers.
type HistoryRecord struct {
	ID          string             `json:"id"`
	CreatedAt   time.Time          `json:"created_at"`
	ImageSHA256 string             `json:"image_sha256,omitempty"`
	GameType    types.GameType     `json:"game_type"`
	DrawDate    string             `json:"draw_date"`
	Numbers     []int              `json:"numbers"`
	SystemSize  int                `json:"system_size,omitempty"`
	IsWinner    bool               `json:"is_winner"`
	Tier        types.Tier         `json:"tier"`
	Breakdown   map[types.Tier]int `json:"breakdown,omitempty"`
	Reason      types.Reason       `json:"reason,omitempty"`
}

// Rejected reports whether the record describes a rejected ticket.
func (r HistoryRecord) Rejected() bool { return r.Reason != "" }
