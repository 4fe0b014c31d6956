package validate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/ticketscan/internal/domain/model"
	"github.com/okian/ticketscan/internal/domain/normalize"
	"github.com/okian/ticketscan/internal/domain/types"
	"github.com/okian/ticketscan/internal/domain/validate"
	. "github.com/smartystreets/goconvey/convey"
)

func run(game types.GameType, system int, raw string) (model.ValidatedTicket, error) {
	ctx := context.Background()
	set, err := normalize.New().Normalize(ctx, raw)
	So(err, ShouldBeNil)
	return validate.New().Validate(ctx, model.Classification{Game: game, SystemSize: system}, set)
}

func TestFourD(t *testing.T) {
	Convey("Given the same 4D number printed in different ways", t, func() {
		for _, raw := range []string{"4109", "41 09", "4 1 0 9", "410 9", "41-09", "4 10 9"} {
			tk, err := run(types.GameFourD, 0, raw)

			So(err, ShouldBeNil)
			So(tk.Game(), ShouldEqual, types.GameFourD)
			So(tk.Numbers(), ShouldResemble, []int{4109})
		}
	})

	Convey("Given 4D numbers with leading zeros", t, func() {
		tk, err := run(types.GameFourD, 0, "0 0 0 1")

		So(err, ShouldBeNil)
		So(tk.Display(), ShouldResemble, []string{"0001"})
		So(tk.RawTokenCount(), ShouldEqual, 4)
	})

	Convey("Given broken 4D readings", t, func() {
		Convey("When too few digits are present", func() {
			_, err := run(types.GameFourD, 0, "41 0")

			So(errors.Is(err, model.ErrInvalidTicketFormat), ShouldBeTrue)
			So(model.ReasonOf(err), ShouldEqual, types.ReasonDigitCountMismatch)
		})

		Convey("When too many digits are present", func() {
			_, err := run(types.GameFourD, 0, "41097")

			So(model.ReasonOf(err), ShouldEqual, types.ReasonDigitCountMismatch)
		})

		Convey("When a linked run holds more than four digits", func() {
			for _, raw := range []string{"4 1 0 9 5", "41 09 5", "1 4 1 0 9", "4 109 5"} {
				_, err := run(types.GameFourD, 0, raw)

				So(errors.Is(err, model.ErrInvalidTicketFormat), ShouldBeTrue)
				So(model.ReasonOf(err), ShouldEqual, types.ReasonDigitCountMismatch)
			}
		})

		Convey("When two different groups are present", func() {
			_, err := run(types.GameFourD, 0, "4109\n1234")

			So(model.ReasonOf(err), ShouldEqual, types.ReasonAmbiguousGrouping)
		})

		Convey("When one group comes with stray digits", func() {
			tk, err := run(types.GameFourD, 0, "4109\n7")

			Convey("Then the group is the primary", func() {
				So(err, ShouldBeNil)
				So(tk.Numbers(), ShouldResemble, []int{4109})
			})
		})
	})
}

func TestTOTO(t *testing.T) {
	Convey("Given TOTO boards", t, func() {
		Convey("When six valid numbers are printed", func() {
			tk, err := run(types.GameTOTO, 0, "01 05 12 23 34 45")

			So(err, ShouldBeNil)
			So(tk.Numbers(), ShouldResemble, []int{1, 5, 12, 23, 34, 45})
			So(tk.SystemSize(), ShouldEqual, 0)
		})

		Convey("When single digits could also pair up", func() {
			tk, err := run(types.GameTOTO, 0, "1 2 3 4 5 6")

			Convey("Then the raw reading wins", func() {
				So(err, ShouldBeNil)
				So(tk.Numbers(), ShouldResemble, []int{1, 2, 3, 4, 5, 6})
			})
		})

		Convey("When the board was read as long runs", func() {
			tk, err := run(types.GameTOTO, 0, "0105 1223 3445")

			Convey("Then the runs are split into pairs", func() {
				So(err, ShouldBeNil)
				So(tk.Numbers(), ShouldResemble, []int{1, 5, 12, 23, 34, 45})
			})
		})

		Convey("When seven numbers are printed on an ordinary ticket", func() {
			tk, err := run(types.GameTOTO, 0, "01 05 12 23 34 45 49")

			So(err, ShouldBeNil)
			So(tk.SystemSize(), ShouldEqual, 7)
		})

		Convey("When a System 8 ticket carries eight numbers", func() {
			tk, err := run(types.GameTOTO, 8, "01 02 03 04 05 06 07 08")

			So(err, ShouldBeNil)
			So(len(tk.Numbers()), ShouldEqual, 8)
		})

		Convey("When a System 8 ticket carries six numbers", func() {
			_, err := run(types.GameTOTO, 8, "01 02 03 04 05 06")

			So(model.ReasonOf(err), ShouldEqual, types.ReasonWrongCount)
		})

		Convey("When a number repeats", func() {
			_, err := run(types.GameTOTO, 0, "1 1 2 3 4 5")

			So(model.ReasonOf(err), ShouldEqual, types.ReasonDuplicateNumbers)
		})

		Convey("When a number is out of range", func() {
			_, err := run(types.GameTOTO, 0, "01 05 12 23 34 50")

			So(model.ReasonOf(err), ShouldEqual, types.ReasonOutOfRange)
		})

		Convey("When too few numbers are printed", func() {
			_, err := run(types.GameTOTO, 0, "01 05 12")

			So(model.ReasonOf(err), ShouldEqual, types.ReasonWrongCount)
		})
	})

	Convey("Given an unknown game", t, func() {
		_, err := validate.New().Validate(context.Background(), model.Classification{Game: types.GameUnknown}, model.NumberSet{})

		So(errors.Is(err, model.ErrClassification), ShouldBeTrue)
	})
}
