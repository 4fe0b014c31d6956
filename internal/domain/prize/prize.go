// Package prize compares validated tickets with the winning numbers.
// Every function here is pure.
package prize

import (
	"github.com/okian/ticketscan/internal/domain/model"
	"github.com/okian/ticketscan/internal/domain/types"
)

// totoTable maps (matched winning numbers, additional drawn) to a group.
// Rows below three matches never pay.
var totoTable = map[int][2]types.Tier{
	//   without additional, with additional
	6: {types.TierGroup1, types.TierGroup1},
	5: {types.TierGroup3, types.TierGroup2},
	4: {types.TierGroup5, types.TierGroup4},
	3: {types.TierGroup7, types.TierGroup6},
}

// TOTOTier looks up the prize group for one six-number combination.
func TOTOTier(matches int, additional bool) types.Tier {
	row, ok := totoTable[matches]
	if !ok {
		return types.TierNone
	}
	if additional {
		return row[1]
	}
	return row[0]
}

// Check dispatches on the ticket's game. An invalid ticket yields TierNone.
func Check(t model.ValidatedTicket, w model.WinningNumbers) model.PrizeResult {
	switch t.Game() {
	case types.GameTOTO:
		return CheckTOTO(t, w.TOTO)
	case types.GameFourD:
		return CheckFourD(t, w.FourD)
	}
	return model.PrizeResult{Tier: types.TierNone, MatchedNumbers: []int{}}
}

// CheckFourD tries first, second and third exact matches, then starter and
// consolation membership. The first hit wins.
func CheckFourD(t model.ValidatedTicket, w model.FourDWinning) model.PrizeResult {
	res := model.PrizeResult{Tier: types.TierNone, MatchedNumbers: []int{}, Combinations: 1}
	ns := t.Numbers()
	if len(ns) != 1 {
		return res
	}
	n := ns[0]

	tier := types.TierNone
	switch {
	case n == w.First:
		tier = types.TierFirst
	case n == w.Second:
		tier = types.TierSecond
	case n == w.Third:
		tier = types.TierThird
	case contains(w.Starter, n):
		tier = types.TierStarter
	case contains(w.Consolation, n):
		tier = types.TierConsolation
	}
	if tier != types.TierNone {
		res.IsWinner = true
		res.Tier = tier
		res.MatchedNumbers = []int{n}
	}
	return res
}

// CheckTOTO scores every six-number combination the ticket covers and
// reports the best group. An ordinary ticket covers one combination; a
// System N ticket covers C(N, 6).
func CheckTOTO(t model.ValidatedTicket, w model.TOTOWinning) model.PrizeResult {
	ns := t.Numbers()
	res := model.PrizeResult{Tier: types.TierNone, MatchedNumbers: []int{}}

	for _, n := range ns {
		if w.Contains(n) {
			res.MatchedNumbers = append(res.MatchedNumbers, n)
		}
	}
	if contains(ns, w.Additional) {
		res.AdditionalMatched = true
		res.MatchedNumbers = append(res.MatchedNumbers, w.Additional)
	}
	if len(ns) < model.TOTOPick {
		return res
	}

	breakdown := map[types.Tier]int{}
	combinations(len(ns), model.TOTOPick, func(idx []int) {
		res.Combinations++
		matches, additional := 0, false
		for _, i := range idx {
			if w.Contains(ns[i]) {
				matches++
			}
			if ns[i] == w.Additional {
				additional = true
			}
		}
		tier := TOTOTier(matches, additional)
		if tier == types.TierNone {
			return
		}
		breakdown[tier]++
		if tier.Better(res.Tier) {
			res.Tier = tier
		}
	})
	if len(breakdown) > 0 {
		res.IsWinner = true
		res.Breakdown = breakdown
	}
	return res
}

// combinations calls fn with every k-subset of 0..n-1 in lexicographic order.
// The slice passed to fn is reused between calls.
func combinations(n, k int, fn func([]int)) {
	if k > n || k <= 0 {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		fn(idx)
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

func contains(ns []int, n int) bool {
	for _, v := range ns {
		if v == n {
			return true
		}
	}
	return false
}
