package screener

import (
	"math"
	"sort"
)

// BaseCaseID is the contingency ID reserved for the base-case pass.
const BaseCaseID = ""

// dedupe trims a monitor's violation list: contingencies shadowed by the
// base-case overload are dropped, then near-duplicates (transit and
// threshold both within 1% relative / 1 MW absolute of a stronger
// already-selected violation) are dropped too.
func dedupe(violations []Violation, relTol, absTolMW float64) []Violation {
	byMonitor := make(map[int][]Violation)
	order := make([]int, 0)
	for _, v := range violations {
		key := int(v.Monitor)
		if _, ok := byMonitor[key]; !ok {
			order = append(order, key)
		}
		byMonitor[key] = append(byMonitor[key], v)
	}
	sort.Ints(order)

	var out []Violation
	for _, key := range order {
		out = append(out, dedupeMonitor(byMonitor[key], relTol, absTolMW)...)
	}
	return out
}

func dedupeMonitor(vs []Violation, relTol, absTolMW float64) []Violation {
	var baseOverload float64
	haveBase := false
	for _, v := range vs {
		if v.ContingencyID == BaseCaseID {
			baseOverload = v.Overload
			haveBase = true
		}
	}

	sort.SliceStable(vs, func(i, j int) bool { return vs[i].Overload > vs[j].Overload })

	var selected []Violation
	for _, v := range vs {
		if haveBase && v.ContingencyID != BaseCaseID && baseOverload >= v.Overload {
			continue // shadowed by the base-case overload on the same monitor
		}
		duplicate := false
		for _, sel := range selected {
			if nearDuplicate(v, sel, relTol, absTolMW) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		selected = append(selected, v)
	}
	return selected
}

func nearDuplicate(a, b Violation, relTol, absTolMW float64) bool {
	return closeEnough(a.Transit, b.Transit, relTol, absTolMW) && closeEnough(thresholdOf(a), thresholdOf(b), relTol, absTolMW)
}

func closeEnough(a, b, relTol, absTolMW float64) bool {
	diff := math.Abs(a - b)
	if diff <= absTolMW {
		return true
	}
	rel := relTol * math.Max(math.Abs(a), math.Abs(b))
	return diff <= rel
}

func thresholdOf(v Violation) float64 {
	if v.UpperSide {
		return v.Max
	}
	return v.Min
}
