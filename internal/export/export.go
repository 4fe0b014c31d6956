// Package export renders ticket history as spreadsheets.
package export

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/okian/ticketscan/internal/domain/model"
	"github.com/okian/ticketscan/internal/domain/types"
)

// SheetName is the worksheet holding the history rows.
const SheetName = "History"

// ContentType is the MIME type of the workbook HistoryXLSX produces.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Headers are the column titles, in order.
var Headers = []string{
	"Record ID",
	"Checked At (UTC)",
	"Game",
	"Draw Date",
	"Numbers",
	"System",
	"Winner",
	"Tier",
	"Breakdown",
	"Rejection Reason",
	"Image SHA-256",
}

// HistoryXLSX returns an XLSX workbook (as bytes) with one row per record,
// in the order given.
func HistoryXLSX(recs []model.HistoryRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// NewFile starts with Sheet1; the history sheet takes its place.
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}
	idx, _ := f.GetSheetIndex(SheetName)
	f.SetActiveSheet(idx)

	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for i, r := range recs {
		row := i + 2
		values := []any{
			r.ID,
			r.CreatedAt.UTC().Format(time.DateTime),
			r.GameType.String(),
			r.DrawDate,
			numbers(r),
			systemSize(r),
			r.IsWinner,
			r.Tier.String(),
			breakdown(r.Breakdown),
			r.Reason.String(),
			r.ImageSHA256,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row, err)
			}
		}
	}

	_ = f.SetColWidth(SheetName, "A", "A", 38) // id
	_ = f.SetColWidth(SheetName, "B", "B", 20) // time
	_ = f.SetColWidth(SheetName, "E", "E", 28) // numbers
	_ = f.SetColWidth(SheetName, "I", "J", 24)
	_ = f.SetColWidth(SheetName, "K", "K", 66)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func numbers(r model.HistoryRecord) string {
	parts := make([]string, len(r.Numbers))
	for i, n := range r.Numbers {
		if r.GameType == types.GameFourD {
			parts[i] = model.FormatFourD(n)
		} else {
			parts[i] = fmt.Sprintf("%02d", n)
		}
	}
	return strings.Join(parts, " ")
}

func systemSize(r model.HistoryRecord) string {
	if r.SystemSize == 0 {
		return ""
	}
	return strconv.Itoa(r.SystemSize)
}

// breakdown renders tier counts best tier first, e.g. "GROUP1:1 GROUP2:6".
func breakdown(b map[types.Tier]int) string {
	tiers := make([]types.Tier, 0, len(b))
	for t := range b {
		tiers = append(tiers, t)
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Better(tiers[j]) })
	parts := make([]string, len(tiers))
	for i, t := range tiers {
		parts[i] = fmt.Sprintf("%s:%d", t, b[t])
	}
	return strings.Join(parts, " ")
}
