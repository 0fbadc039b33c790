package game

import (
	"github.com/VrajPatel-21/papercricket/internal/player"
	"gorm.io/gorm"
)

type MatchType string

const (
	MatchTypeSingle MatchType = "single"
	MatchTypeMulti  MatchType = "multi"
)

type MatchStatus string

const (
	StatusWaiting   MatchStatus = "waiting"
	StatusOngoing   MatchStatus = "ongoing"
	StatusCompleted MatchStatus = "completed"
)

type BallOutcome string

const (
	OutcomeRuns BallOutcome = "runs"
	OutcomeOut  BallOutcome = "out"
)

// Match is one game between two players. Player2 stays null while the match
// is waiting for a joiner; Winner stays null until completion (and remains
// null on a tie).
type Match struct {
	gorm.Model
	MatchCode string      `json:"match_code" gorm:"uniqueIndex;size:10;not null"`
	MatchType MatchType   `json:"match_type" gorm:"size:10;not null;default:'multi'"`
	Status    MatchStatus `json:"status" gorm:"index;size:20;not null;default:'waiting'"`
	Overs     int         `json:"overs" gorm:"not null"`
	Wickets   int         `json:"wickets" gorm:"not null"`

	Player1ID uint           `json:"player1_id" gorm:"index;not null"`
	Player1   player.Player  `json:"player1" gorm:"foreignKey:Player1ID;constraint:OnDelete:CASCADE"`
	Player2ID *uint          `json:"player2_id,omitempty" gorm:"index"`
	Player2   *player.Player `json:"player2,omitempty" gorm:"foreignKey:Player2ID;constraint:OnDelete:CASCADE"`
	WinnerID  *uint          `json:"winner_id,omitempty" gorm:"index"`
	Winner    *player.Player `json:"winner,omitempty" gorm:"foreignKey:WinnerID;constraint:OnDelete:SET NULL"`

	Innings []Inning `json:"innings,omitempty" gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE"`
}

// Inning is one of the two innings of a match. Roles are fixed at creation;
// only the counters, turn and pending-choice fields mutate.
type Inning struct {
	gorm.Model
	MatchID uint `json:"match_id" gorm:"index;not null"`

	BattingPlayerID uint          `json:"batting_player_id" gorm:"index;not null"`
	BattingPlayer   player.Player `json:"batting_player" gorm:"foreignKey:BattingPlayerID;constraint:OnDelete:CASCADE"`
	BowlingPlayerID uint          `json:"bowling_player_id" gorm:"index;not null"`
	BowlingPlayer   player.Player `json:"bowling_player" gorm:"foreignKey:BowlingPlayerID;constraint:OnDelete:CASCADE"`

	Runs         int `json:"runs" gorm:"default:0"`
	Wickets      int `json:"wickets" gorm:"default:0"`
	BallsPlayed  int `json:"balls_played" gorm:"default:0"`
	InningsOrder int `json:"innings_order" gorm:"not null"` // 1 or 2

	// TurnPlayerID is null when no action is pending (innings or match over).
	TurnPlayerID        *uint   `json:"turn_player_id,omitempty" gorm:"index"`
	PendingBowlerChoice *string `json:"-" gorm:"size:1"`

	Balls []Ball `json:"balls,omitempty" gorm:"foreignKey:InningID;constraint:OnDelete:CASCADE"`
}

// Ball is the append-only log of one resolved delivery. Never mutated after
// creation; only read back for the "last ball" summary.
type Ball struct {
	gorm.Model
	InningID      uint        `json:"inning_id" gorm:"index;not null"`
	OverNo        int         `json:"over_no" gorm:"not null"`
	BallNo        int         `json:"ball_no" gorm:"not null"` // 1-6 within the over
	BowlerChoice  string      `json:"bowler_choice" gorm:"size:1;not null"`
	BatsmanChoice string      `json:"batsman_choice" gorm:"size:1;not null"`
	Outcome       BallOutcome `json:"outcome" gorm:"size:10;not null"`
	RunsScored    int         `json:"runs_scored" gorm:"default:0"`
}

// TargetRuns is the score the second innings must reach to win: the first
// innings' runs + 1. Nil until the first innings exists. Requires Innings to
// be loaded.
func (m *Match) TargetRuns() *int {
	first := m.InningByOrder(1)
	if first == nil {
		return nil
	}
	target := first.Runs + 1
	return &target
}

// ActiveInning returns the highest-order innings, or nil when none exist.
func (m *Match) ActiveInning() *Inning {
	var active *Inning
	for i := range m.Innings {
		if active == nil || m.Innings[i].InningsOrder > active.InningsOrder {
			active = &m.Innings[i]
		}
	}
	return active
}

// InningByOrder returns the innings with the given order, or nil.
func (m *Match) InningByOrder(order int) *Inning {
	for i := range m.Innings {
		if m.Innings[i].InningsOrder == order {
			return &m.Innings[i]
		}
	}
	return nil
}

// PlayerByUsername resolves a username to one of the match participants.
func (m *Match) PlayerByUsername(username string) *player.Player {
	if m.Player1.Username == username {
		return &m.Player1
	}
	if m.Player2 != nil && m.Player2.Username == username {
		return m.Player2
	}
	return nil
}

// usernameByID resolves a participant ID to a username for snapshots.
func (m *Match) usernameByID(id uint) string {
	if m.Player1ID == id {
		return m.Player1.Username
	}
	if m.Player2ID != nil && *m.Player2ID == id && m.Player2 != nil {
		return m.Player2.Username
	}
	return ""
}
