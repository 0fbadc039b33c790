package game

// LastBall summarizes the most recent resolved delivery for display.
type LastBall struct {
	BowlerChoice  string `json:"bowler_choice"`
	BatsmanChoice string `json:"batsman_choice"`
	RunsScored    int    `json:"runs_scored"`
	IsWicket      bool   `json:"is_wicket"`
}

// Snapshot is the authoritative game-state payload broadcast to every client
// in a match's group after each ball. It is built purely from durable state.
type Snapshot struct {
	MatchCode     string      `json:"match_code"`
	Status        MatchStatus `json:"status"`
	CurrentInning int         `json:"current_inning"`
	BattingPlayer string      `json:"batting_player"`
	BowlingPlayer string      `json:"bowling_player"`
	Turn          *string     `json:"turn"`
	Score         int         `json:"score"`
	Wickets       int         `json:"wickets"`
	BallsPlayed   int         `json:"balls_played"`
	TotalOvers    int         `json:"total_overs"`
	TotalWickets  int         `json:"total_wickets"`
	Target        *int        `json:"target"`
	Winner        *string     `json:"winner"`
	LastBall      *LastBall   `json:"last_ball"`
}

// Snapshot builds the current game-state view for a match. It re-fetches
// committed state, so calling it twice with no intervening action returns
// identical snapshots.
func (e *Engine) Snapshot(matchCode string) (*Snapshot, error) {
	m, err := e.repo.GetMatchByCode(matchCode)
	if err != nil {
		return nil, err
	}

	in := m.ActiveInning()
	if in == nil {
		return nil, ErrNoActiveInning
	}

	snap := &Snapshot{
		MatchCode:     m.MatchCode,
		Status:        m.Status,
		CurrentInning: in.InningsOrder,
		BattingPlayer: m.usernameByID(in.BattingPlayerID),
		BowlingPlayer: m.usernameByID(in.BowlingPlayerID),
		Score:         in.Runs,
		Wickets:       in.Wickets,
		BallsPlayed:   in.BallsPlayed,
		TotalOvers:    m.Overs,
		TotalWickets:  m.Wickets,
		Target:        m.TargetRuns(),
	}

	if in.TurnPlayerID != nil {
		turn := m.usernameByID(*in.TurnPlayerID)
		snap.Turn = &turn
	}
	if m.WinnerID != nil {
		winner := m.usernameByID(*m.WinnerID)
		snap.Winner = &winner
	}

	last, err := e.repo.LastBall(in.ID)
	if err != nil {
		return nil, err
	}
	if last != nil {
		snap.LastBall = &LastBall{
			BowlerChoice:  last.BowlerChoice,
			BatsmanChoice: last.BatsmanChoice,
			RunsScored:    last.RunsScored,
			IsWicket:      last.Outcome == OutcomeOut,
		}
	}
	return snap, nil
}
