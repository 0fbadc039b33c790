package game

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrMatchNotFound is returned when no match exists for a given code.
var ErrMatchNotFound = errors.New("match not found")

// GameRepository is the durable store for matches, innings and balls. All
// engine mutations run through WithTransaction; GetMatchByCodeForUpdate takes
// a row lock on the match so concurrent actions on the same match serialize.
type GameRepository interface {
	CreateMatch(m *Match) error
	GetMatchByCode(code string) (*Match, error)
	GetMatchByCodeForUpdate(code string) (*Match, error)
	UpdateMatch(m *Match) error

	CreateInning(in *Inning) error
	UpdateInning(in *Inning) error

	CreateBall(b *Ball) error
	LastBall(inningID uint) (*Ball, error)

	// RecordCareerResult bumps the career counters of both participants.
	// A nil winnerID means the match was tied.
	RecordCareerResult(player1ID, player2ID uint, winnerID *uint) error

	WithTransaction(txFunc func(GameRepository) error) error
}

// GormGameRepository implements GameRepository using GORM.
type GormGameRepository struct {
	db *gorm.DB
}

func NewGormGameRepository(db *gorm.DB) *GormGameRepository {
	return &GormGameRepository{db: db}
}

// WithTransaction runs txFunc against a transactional copy of the repository.
func (r *GormGameRepository) WithTransaction(txFunc func(GameRepository) error) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	txRepo := &GormGameRepository{db: tx}
	if err := txFunc(txRepo); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func (r *GormGameRepository) CreateMatch(m *Match) error {
	// Player rows already exist; don't let GORM touch the associations.
	return r.db.Omit("Player1", "Player2", "Winner", "Innings").Create(m).Error
}

func (r *GormGameRepository) matchQuery() *gorm.DB {
	return r.db.
		Preload("Player1").
		Preload("Player2").
		Preload("Innings", func(db *gorm.DB) *gorm.DB {
			return db.Order("innings_order ASC")
		})
}

func (r *GormGameRepository) GetMatchByCode(code string) (*Match, error) {
	var m Match
	err := r.matchQuery().Where("match_code = ?", code).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

// GetMatchByCodeForUpdate locks the match row for the remainder of the
// surrounding transaction. Preloads run as separate follow-up queries, so the
// lock covers the matches table only; that is enough because every mutation
// path starts here.
func (r *GormGameRepository) GetMatchByCodeForUpdate(code string) (*Match, error) {
	var m Match
	err := r.matchQuery().
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "matches"}}).
		Where("match_code = ?", code).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *GormGameRepository) UpdateMatch(m *Match) error {
	// Save on a fully preloaded struct would also upsert associations; restrict
	// the write to the match columns that actually change.
	return r.db.Model(&Match{}).Where("id = ?", m.ID).
		Select("status", "player2_id", "winner_id").
		Updates(map[string]interface{}{
			"status":     m.Status,
			"player2_id": m.Player2ID,
			"winner_id":  m.WinnerID,
		}).Error
}

func (r *GormGameRepository) CreateInning(in *Inning) error {
	return r.db.Omit("BattingPlayer", "BowlingPlayer", "Balls").Create(in).Error
}

func (r *GormGameRepository) UpdateInning(in *Inning) error {
	return r.db.Model(&Inning{}).Where("id = ?", in.ID).
		Select("runs", "wickets", "balls_played", "turn_player_id", "pending_bowler_choice").
		Updates(map[string]interface{}{
			"runs":                  in.Runs,
			"wickets":               in.Wickets,
			"balls_played":          in.BallsPlayed,
			"turn_player_id":        in.TurnPlayerID,
			"pending_bowler_choice": in.PendingBowlerChoice,
		}).Error
}

func (r *GormGameRepository) CreateBall(b *Ball) error {
	return r.db.Create(b).Error
}

func (r *GormGameRepository) LastBall(inningID uint) (*Ball, error) {
	var b Ball
	err := r.db.Where("inning_id = ?", inningID).Order("id DESC").First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *GormGameRepository) RecordCareerResult(player1ID, player2ID uint, winnerID *uint) error {
	bump := func(id uint, col string) error {
		expr := map[string]interface{}{
			"total_matches": gorm.Expr("total_matches + 1"),
		}
		if col != "" {
			expr[col] = gorm.Expr(col + " + 1")
		}
		return r.db.Table("players").Where("id = ?", id).Updates(expr).Error
	}

	resultCol := func(id uint) string {
		if winnerID == nil {
			return ""
		}
		if *winnerID == id {
			return "wins"
		}
		return "losses"
	}

	if err := bump(player1ID, resultCol(player1ID)); err != nil {
		return fmt.Errorf("failed to record result for player %d: %w", player1ID, err)
	}
	if err := bump(player2ID, resultCol(player2ID)); err != nil {
		return fmt.Errorf("failed to record result for player %d: %w", player2ID, err)
	}
	return nil
}
