package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/okian/ticketscan/internal/domain/model"
	"github.com/okian/ticketscan/internal/domain/types"
	"github.com/okian/ticketscan/internal/export"
	. "github.com/smartystreets/goconvey/convey"
)

func TestHistoryXLSX(t *testing.T) {
	Convey("Given history records", t, func() {
		at := time.Date(2026, 1, 20, 19, 30, 0, 0, time.UTC)
		recs := []model.HistoryRecord{
			{
				ID:         "a",
				CreatedAt:  at,
				GameType:   types.GameTOTO,
				DrawDate:   "2026-01-20",
				Numbers:    []int{1, 5, 12, 23, 34, 45, 7},
				SystemSize: 7,
				IsWinner:   true,
				Tier:       types.TierGroup1,
				Breakdown:  map[types.Tier]int{types.TierGroup2: 6, types.TierGroup1: 1},
			},
			{
				ID:        "b",
				CreatedAt: at,
				GameType:  types.GameFourD,
				DrawDate:  model.UnknownDrawDate,
				Numbers:   []int{1},
				IsWinner:  true,
				Tier:      types.TierStarter,
			},
			{
				ID:        "c",
				CreatedAt: at,
				GameType:  types.GameUnknown,
				DrawDate:  model.UnknownDrawDate,
				Tier:      types.TierNone,
				Reason:    types.ReasonClassification,
			},
		}

		Convey("When exported", func() {
			data, err := export.HistoryXLSX(recs)
			So(err, ShouldBeNil)

			f, err := excelize.OpenReader(bytes.NewReader(data))
			So(err, ShouldBeNil)
			defer f.Close()
			rows, err := f.GetRows(export.SheetName)
			So(err, ShouldBeNil)

			Convey("Then there is a header and one row per record", func() {
				So(rows, ShouldHaveLength, 4)
				So(rows[0], ShouldResemble, export.Headers)
				So(f.GetSheetList(), ShouldResemble, []string{export.SheetName})
			})

			Convey("And numbers are padded per game", func() {
				So(rows[1][4], ShouldEqual, "01 05 12 23 34 45 07")
				So(rows[1][5], ShouldEqual, "7")
				So(rows[1][8], ShouldEqual, "GROUP1:1 GROUP2:6")
				So(rows[2][4], ShouldEqual, "0001")
			})

			Convey("And rejections carry their reason", func() {
				So(rows[3][7], ShouldEqual, "NONE")
				So(rows[3][9], ShouldEqual, "classification_failed")
			})
		})

		Convey("When there is nothing to export", func() {
			data, err := export.HistoryXLSX(nil)
			So(err, ShouldBeNil)

			f, err := excelize.OpenReader(bytes.NewReader(data))
			So(err, ShouldBeNil)
			defer f.Close()
			rows, _ := f.GetRows(export.SheetName)

			Convey("Then only the header is written", func() {
				So(rows, ShouldHaveLength, 1)
			})
		})
	})
}
