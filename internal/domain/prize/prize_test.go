package prize_test

import (
	"fmt"
	"testing"

	"github.com/okian/ticketscan/internal/domain/model"
	"github.com/okian/ticketscan/internal/domain/prize"
	"github.com/okian/ticketscan/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func toto(system int, ns ...int) model.ValidatedTicket {
	t, err := model.NewTOTOTicket(ns, system, len(ns))
	So(err, ShouldBeNil)
	return t
}

func fourD(n int) model.ValidatedTicket {
	t, err := model.NewFourDTicket(n, 1)
	So(err, ShouldBeNil)
	return t
}

func TestCheckTOTO(t *testing.T) {
	win := model.TOTOWinning{Numbers: []int{1, 2, 3, 4, 5, 6}, Additional: 7}

	Convey("Given the winning combination 1-6 with additional 7", t, func() {
		cases := []struct {
			ticket []int
			tier   types.Tier
		}{
			{[]int{1, 2, 3, 4, 5, 6}, types.TierGroup1},
			{[]int{1, 2, 3, 4, 5, 7}, types.TierGroup2},
			{[]int{1, 2, 3, 4, 5, 8}, types.TierGroup3},
			{[]int{1, 2, 3, 4, 7, 8}, types.TierGroup4},
			{[]int{1, 2, 3, 4, 8, 9}, types.TierGroup5},
			{[]int{1, 2, 3, 7, 8, 9}, types.TierGroup6},
			{[]int{1, 2, 3, 8, 9, 10}, types.TierGroup7},
			{[]int{1, 2, 7, 8, 9, 10}, types.TierNone},
			{[]int{10, 11, 12, 13, 14, 15}, types.TierNone},
		}
		for _, c := range cases {
			Convey(fmt.Sprintf("When the ticket is %v", c.ticket), func() {
				res := prize.CheckTOTO(toto(0, c.ticket...), win)

				Convey("Then the tier is "+c.tier.String(), func() {
					So(res.Tier, ShouldEqual, c.tier)
					So(res.IsWinner, ShouldEqual, c.tier != types.TierNone)
					So(res.Combinations, ShouldEqual, 1)
				})
			})
		}

		Convey("When five numbers and the additional match", func() {
			res := prize.CheckTOTO(toto(0, 1, 2, 3, 4, 5, 7), win)

			Convey("Then the matched numbers include the additional", func() {
				So(res.MatchedNumbers, ShouldResemble, []int{1, 2, 3, 4, 5, 7})
				So(res.AdditionalMatched, ShouldBeTrue)
				So(res.Breakdown, ShouldResemble, map[types.Tier]int{types.TierGroup2: 1})
			})
		})

		Convey("When a System 7 ticket covers the whole draw", func() {
			res := prize.CheckTOTO(toto(7, 1, 2, 3, 4, 5, 6, 7), win)

			Convey("Then every combination is scored", func() {
				So(res.Combinations, ShouldEqual, 7)
				So(res.Tier, ShouldEqual, types.TierGroup1)
				So(res.Breakdown, ShouldResemble, map[types.Tier]int{types.TierGroup1: 1, types.TierGroup2: 6})
			})
		})

		Convey("When a System 8 ticket misses", func() {
			res := prize.CheckTOTO(toto(8, 20, 21, 22, 23, 24, 25, 26, 27), win)

			So(res.Combinations, ShouldEqual, 28)
			So(res.IsWinner, ShouldBeFalse)
			So(res.Breakdown, ShouldBeNil)
			So(res.MatchedNumbers, ShouldBeEmpty)
		})
	})
}

func TestCheckFourD(t *testing.T) {
	win := model.FourDWinning{
		First:       1234,
		Second:      2345,
		Third:       3456,
		Starter:     []int{1, 4567},
		Consolation: []int{5678},
	}

	Convey("Given a 4D draw", t, func() {
		for n, tier := range map[int]types.Tier{
			1234: types.TierFirst,
			2345: types.TierSecond,
			3456: types.TierThird,
			4567: types.TierStarter,
			1:    types.TierStarter,
			5678: types.TierConsolation,
			9999: types.TierNone,
		} {
			res := prize.CheckFourD(fourD(n), win)
			So(res.Tier, ShouldEqual, tier)
			So(res.IsWinner, ShouldEqual, tier != types.TierNone)
		}
	})
}

func TestCheck(t *testing.T) {
	Convey("Given the default winning table", t, func() {
		w := model.DefaultWinningNumbers()

		Convey("When the 4D first prize is checked", func() {
			res := prize.Check(fourD(4109), w)

			So(res.Tier, ShouldEqual, types.TierFirst)
			So(res.MatchedNumbers, ShouldResemble, []int{4109})
		})

		Convey("When the same ticket is checked twice", func() {
			tk := toto(0, 1, 5, 12, 40, 41, 42)

			Convey("Then the results are identical", func() {
				So(prize.Check(tk, w), ShouldResemble, prize.Check(tk, w))
				So(prize.Check(tk, w).Tier, ShouldEqual, types.TierGroup7)
			})
		})

		Convey("When the ticket was never validated", func() {
			res := prize.Check(model.ValidatedTicket{}, w)

			So(res.IsWinner, ShouldBeFalse)
			So(res.Tier, ShouldEqual, types.TierNone)
		})
	})

	Convey("Given the fixed TOTO table", t, func() {
		So(prize.TOTOTier(6, false), ShouldEqual, types.TierGroup1)
		So(prize.TOTOTier(2, true), ShouldEqual, types.TierNone)
		So(prize.TOTOTier(0, false), ShouldEqual, types.TierNone)
	})
}
