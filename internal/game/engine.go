package game

import (
	"errors"
	"log"
)

// Validation errors returned to the originating connection only. None of them
// leave any persisted state behind; validation runs before any mutation.
var (
	ErrMatchNotOngoing = errors.New("match is not in an ongoing state")
	ErrMatchCompleted  = errors.New("this match has already been completed")
	ErrNoActiveInning  = errors.New("no innings found for this ongoing match")
	ErrNotInMatch      = errors.New("you are not part of this match")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrWrongRole       = errors.New("invalid action for your current role")
	ErrBowlerNotChosen = errors.New("bowler has not chosen yet")
)

// Engine drives the match state machine. It is stateless: every operation
// takes the match code, loads durable state inside a transaction that locks
// the match row, mutates, and commits. Snapshots are always rebuilt from
// post-commit state, so a fresh connection and a long-lived one converge on
// identical views.
type Engine struct {
	repo GameRepository
}

func NewEngine(repo GameRepository) *Engine {
	return &Engine{repo: repo}
}

// SubmitBowl records the bowler's committed-but-unrevealed choice for the
// next delivery and hands the turn to the batsman. No scoring happens yet.
func (e *Engine) SubmitBowl(matchCode, username, choice string) (*Snapshot, error) {
	err := e.repo.WithTransaction(func(tx GameRepository) error {
		_, in, p, err := e.loadForAction(tx, matchCode, username)
		if err != nil {
			return err
		}
		if p.ID != in.BowlingPlayerID {
			return ErrWrongRole
		}
		if in.TurnPlayerID == nil || *in.TurnPlayerID != p.ID {
			return ErrNotYourTurn
		}

		in.PendingBowlerChoice = &choice
		in.TurnPlayerID = &in.BattingPlayerID
		return tx.UpdateInning(in)
	})
	if err != nil {
		return nil, err
	}
	return e.Snapshot(matchCode)
}

// SubmitBat resolves the pending delivery against the batsman's choice,
// updates the innings counters and the ball log, and advances the state
// machine: innings transition, match conclusion, or simply the next ball.
func (e *Engine) SubmitBat(matchCode, username, choice string) (*Snapshot, error) {
	err := e.repo.WithTransaction(func(tx GameRepository) error {
		m, in, p, err := e.loadForAction(tx, matchCode, username)
		if err != nil {
			return err
		}
		if p.ID != in.BattingPlayerID {
			return ErrWrongRole
		}
		if in.TurnPlayerID == nil || *in.TurnPlayerID != p.ID {
			return ErrNotYourTurn
		}
		if in.PendingBowlerChoice == nil {
			return ErrBowlerNotChosen
		}

		if err := e.recordBall(tx, in, *in.PendingBowlerChoice, choice); err != nil {
			return err
		}
		in.PendingBowlerChoice = nil

		concluded := e.inningOver(m, in)
		switch {
		case in.InningsOrder == 1 && concluded:
			// First innings done: freeze it and open the second with roles
			// swapped. The bowler leads every innings.
			in.TurnPlayerID = nil
			if err := tx.UpdateInning(in); err != nil {
				return err
			}
			second := &Inning{
				MatchID:         m.ID,
				BattingPlayerID: in.BowlingPlayerID,
				BowlingPlayerID: in.BattingPlayerID,
				InningsOrder:    2,
			}
			second.TurnPlayerID = &second.BowlingPlayerID
			log.Printf("Creating second inning for match %s", m.MatchCode)
			return tx.CreateInning(second)

		case in.InningsOrder == 2:
			target := m.TargetRuns()
			matchOver := concluded || (target != nil && in.Runs >= *target)
			if matchOver {
				return e.concludeMatch(tx, m, in)
			}
			in.TurnPlayerID = &in.BowlingPlayerID
			return tx.UpdateInning(in)

		default:
			// First innings continues: reset for the next delivery.
			in.TurnPlayerID = &in.BowlingPlayerID
			return tx.UpdateInning(in)
		}
	})
	if err != nil {
		return nil, err
	}
	return e.Snapshot(matchCode)
}

// loadForAction fetches the match with its row locked and runs the checks
// shared by both submissions: ongoing status, active innings, membership.
func (e *Engine) loadForAction(tx GameRepository, matchCode, username string) (*Match, *Inning, *playerRef, error) {
	m, err := tx.GetMatchByCodeForUpdate(matchCode)
	if err != nil {
		return nil, nil, nil, err
	}
	if m.Status == StatusCompleted {
		return nil, nil, nil, ErrMatchCompleted
	}
	if m.Status != StatusOngoing {
		return nil, nil, nil, ErrMatchNotOngoing
	}

	in := m.ActiveInning()
	if in == nil {
		// An ongoing match must have an innings created at join time.
		log.Printf("invariant violation: ongoing match %s has no innings", m.MatchCode)
		return nil, nil, nil, ErrNoActiveInning
	}

	p := m.PlayerByUsername(username)
	if p == nil {
		return nil, nil, nil, ErrNotInMatch
	}
	return m, in, &playerRef{ID: p.ID, Username: p.Username}, nil
}

type playerRef struct {
	ID       uint
	Username string
}

// recordBall applies one delivery to the innings: every submitted ball counts
// (no extras), a wicket adds no runs, and the ball is appended to the log
// with 1-based over and ball-in-over numbers.
func (e *Engine) recordBall(tx GameRepository, in *Inning, bowlerChoice, batsmanChoice string) error {
	in.BallsPlayed++
	isWicket, runs := ResolveDelivery(bowlerChoice, batsmanChoice)

	outcome := OutcomeRuns
	if isWicket {
		in.Wickets++
		outcome = OutcomeOut
	} else {
		in.Runs += runs
	}

	ball := &Ball{
		InningID:      in.ID,
		OverNo:        (in.BallsPlayed-1)/6 + 1,
		BallNo:        (in.BallsPlayed-1)%6 + 1,
		BowlerChoice:  bowlerChoice,
		BatsmanChoice: batsmanChoice,
		Outcome:       outcome,
		RunsScored:    runs,
	}
	return tx.CreateBall(ball)
}

// inningOver reports whether the innings has concluded: the wicket limit is
// reached, or the configured number of whole overs has been bowled. Over
// completion is a floor-division check, so an innings never ends mid-over on
// ball count alone.
func (e *Engine) inningOver(m *Match, in *Inning) bool {
	oversPlayed := in.BallsPlayed / 6
	return in.Wickets >= m.Wickets || oversPlayed >= m.Overs
}

// concludeMatch compares the two innings, persists the winner (nil on a tie),
// marks the match completed and updates both players' career counters.
func (e *Engine) concludeMatch(tx GameRepository, m *Match, second *Inning) error {
	first := m.InningByOrder(1)
	if first == nil {
		log.Printf("invariant violation: match %s concluding without a first innings", m.MatchCode)
		return ErrNoActiveInning
	}

	var winnerID *uint
	switch {
	case second.Runs > first.Runs:
		winnerID = &second.BattingPlayerID
	case first.Runs > second.Runs:
		winnerID = &second.BowlingPlayerID
	}

	second.TurnPlayerID = nil
	if err := tx.UpdateInning(second); err != nil {
		return err
	}

	m.WinnerID = winnerID
	m.Status = StatusCompleted
	if err := tx.UpdateMatch(m); err != nil {
		return err
	}

	if m.Player2ID != nil {
		if err := tx.RecordCareerResult(m.Player1ID, *m.Player2ID, winnerID); err != nil {
			return err
		}
	}
	log.Printf("Match %s completed. WinnerID: %v", m.MatchCode, winnerID)
	return nil
}
