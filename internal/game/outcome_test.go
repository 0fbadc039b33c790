package game

import "testing"

func TestResolveDeliveryWicket(t *testing.T) {
	// Matching choices are always a wicket with 0 runs, whatever the symbol
	// would otherwise score.
	for _, symbol := range []string{"A", "B", "C", "D", "E", "F", "G", "Z"} {
		isWicket, runs := ResolveDelivery(symbol, symbol)
		if !isWicket {
			t.Fatalf("ResolveDelivery(%q, %q): expected wicket", symbol, symbol)
		}
		if runs != 0 {
			t.Fatalf("ResolveDelivery(%q, %q): wicket scored %d runs, want 0", symbol, symbol, runs)
		}
	}
}

func TestResolveDeliveryRuns(t *testing.T) {
	tests := []struct {
		batsman string
		want    int
	}{
		{"A", 1}, {"B", 2}, {"C", 3}, {"D", 4}, {"E", 6}, {"F", 4}, {"G", 6},
	}

	for _, tt := range tests {
		t.Run(tt.batsman, func(t *testing.T) {
			// Pick a bowler choice guaranteed to differ.
			bowler := "A"
			if tt.batsman == "A" {
				bowler = "B"
			}
			isWicket, runs := ResolveDelivery(bowler, tt.batsman)
			if isWicket {
				t.Fatalf("ResolveDelivery(%q, %q): unexpected wicket", bowler, tt.batsman)
			}
			if runs != tt.want {
				t.Fatalf("ResolveDelivery(%q, %q) = %d runs, want %d", bowler, tt.batsman, runs, tt.want)
			}
		})
	}
}

func TestResolveDeliveryUnknownSymbol(t *testing.T) {
	isWicket, runs := ResolveDelivery("A", "X")
	if isWicket {
		t.Fatal("unknown symbol should not be a wicket when choices differ")
	}
	if runs != 0 {
		t.Fatalf("unknown symbol scored %d runs, want 0", runs)
	}
}
