package game

// runMap is the fixed payout table mapping a batsman's choice to runs.
var runMap = map[string]int{
	"A": 1, "B": 2, "C": 3,
	"D": 4, "E": 6, "F": 4, "G": 6,
}

// ResolveDelivery resolves one ball. A delivery is a wicket iff the bowler's
// choice equals the batsman's choice (the bowler "predicting" the shot); a
// wicket always scores 0. A choice outside the payout table scores 0 runs but
// still participates in the equality check.
func ResolveDelivery(bowlerChoice, batsmanChoice string) (isWicket bool, runs int) {
	if bowlerChoice == batsmanChoice {
		return true, 0
	}
	return false, runMap[batsmanChoice]
}
