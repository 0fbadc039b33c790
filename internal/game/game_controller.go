package game

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/VrajPatel-21/papercricket/config"
	"github.com/VrajPatel-21/papercricket/internal/middleware"
	"github.com/VrajPatel-21/papercricket/internal/player"
	"github.com/VrajPatel-21/papercricket/pkg/responses"
	"github.com/VrajPatel-21/papercricket/pkg/utils"
	"github.com/VrajPatel-21/papercricket/pkg/validator"
	"github.com/gin-gonic/gin"
)

// GameController handles the match lobby HTTP surface: create, join, inspect.
type GameController struct {
	repo      GameRepository
	players   player.PlayerRepository
	engine    *Engine
	hub       Broadcaster
	appConfig *config.Config
}

func NewGameController(repo GameRepository, players player.PlayerRepository, engine *Engine, hub Broadcaster, appConfig *config.Config) *GameController {
	return &GameController{
		repo:      repo,
		players:   players,
		engine:    engine,
		hub:       hub,
		appConfig: appConfig,
	}
}

// --- DTOs ---

type CreateMatchRequest struct {
	Overs     int       `json:"overs" binding:"omitempty,min=1,max=50"`
	Wickets   int       `json:"wickets" binding:"omitempty,min=1,max=10"`
	MatchType MatchType `json:"match_type" binding:"omitempty,oneof=single multi"`
}

// matchSettings fills omitted fields from the configured game defaults.
func matchSettings(req CreateMatchRequest, cfg *config.Config) (overs, wickets int, matchType MatchType) {
	overs = req.Overs
	if overs == 0 {
		overs = cfg.Game.DefaultOvers
	}
	wickets = req.Wickets
	if wickets == 0 {
		wickets = cfg.Game.DefaultWickets
	}
	matchType = req.MatchType
	if matchType == "" {
		matchType = MatchTypeMulti
	}
	return overs, wickets, matchType
}

type JoinMatchRequest struct {
	MatchCode string `json:"match_code" binding:"required,min=4,max=10"`
}

type PlayerResponse struct {
	Username     string `json:"username"`
	TotalMatches int    `json:"total_matches"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

type MatchResponse struct {
	MatchCode string          `json:"match_code"`
	MatchType MatchType       `json:"match_type"`
	Status    MatchStatus     `json:"status"`
	Overs     int             `json:"overs"`
	Wickets   int             `json:"wickets"`
	Player1   PlayerResponse  `json:"player1"`
	Player2   *PlayerResponse `json:"player2,omitempty"`
	Winner    *string         `json:"winner,omitempty"`
}

func filterPlayer(p *player.Player) PlayerResponse {
	return PlayerResponse{
		Username:     p.Username,
		TotalMatches: p.TotalMatches,
		Wins:         p.Wins,
		Losses:       p.Losses,
	}
}

func filterMatch(m *Match) MatchResponse {
	resp := MatchResponse{
		MatchCode: m.MatchCode,
		MatchType: m.MatchType,
		Status:    m.Status,
		Overs:     m.Overs,
		Wickets:   m.Wickets,
		Player1:   filterPlayer(&m.Player1),
	}
	if m.Player2 != nil {
		p2 := filterPlayer(m.Player2)
		resp.Player2 = &p2
	}
	if m.Winner != nil {
		resp.Winner = &m.Winner.Username
	}
	return resp
}

// @Summary      Create a new match
// @Description  Create a match lobby with configured overs and wickets. Returns the shareable match code.
// @Tags         Matches
// @Accept       json
// @Produce      json
// @Param        match  body  CreateMatchRequest  true  "Match configuration"
// @Success      201  {object}  MatchResponse
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /matches/create [post]
func (gc *GameController) CreateMatch(c *gin.Context) {
	var req CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}

	username, err := middleware.GetUsernameFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	p, err := gc.players.GetOrCreateByUsername(username)
	if err != nil {
		log.Printf("get-or-create player %s failed: %v", username, err)
		responses.InternalServerError(c, "Could not resolve player profile")
		return
	}

	overs, wickets, matchType := matchSettings(req, gc.appConfig)

	m := &Match{
		MatchType: matchType,
		Status:    StatusWaiting,
		Overs:     overs,
		Wickets:   wickets,
		Player1ID: p.ID,
		Player1:   *p,
	}

	// On the rare code collision the unique index rejects the insert; retry
	// with a fresh code.
	for attempt := 0; attempt < 3; attempt++ {
		m.MatchCode = utils.GenerateMatchCode(gc.appConfig.Game.MatchCodeLength)
		if err = gc.repo.CreateMatch(m); err == nil {
			break
		}
	}
	if err != nil {
		log.Printf("create match failed: %v", err)
		responses.InternalServerError(c, "Match creation failed")
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Match created", filterMatch(m))
}

// @Summary      Join an existing match
// @Description  Join a waiting match by its code. Starts the match: creates the first innings with the creator batting and the joiner bowling.
// @Tags         Matches
// @Accept       json
// @Produce      json
// @Param        join  body  JoinMatchRequest  true  "Match code"
// @Success      200  {object}  MatchResponse
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /matches/join [post]
func (gc *GameController) JoinMatch(c *gin.Context) {
	var req JoinMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}

	username, err := middleware.GetUsernameFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	p2, err := gc.players.GetOrCreateByUsername(username)
	if err != nil {
		log.Printf("get-or-create player %s failed: %v", username, err)
		responses.InternalServerError(c, "Could not resolve player profile")
		return
	}

	var joined *Match
	err = gc.repo.WithTransaction(func(tx GameRepository) error {
		m, err := tx.GetMatchByCodeForUpdate(req.MatchCode)
		if err != nil {
			return err
		}
		if m.Status != StatusWaiting {
			return errors.New("this match is not waiting for players")
		}
		if m.Player1ID == p2.ID {
			return errors.New("you cannot join your own game")
		}

		m.Player2ID = &p2.ID
		m.Player2 = p2
		m.Status = StatusOngoing
		if err := tx.UpdateMatch(m); err != nil {
			return err
		}

		// First innings: creator bats, joiner bowls, bowler acts first.
		first := &Inning{
			MatchID:         m.ID,
			BattingPlayerID: m.Player1ID,
			BowlingPlayerID: p2.ID,
			InningsOrder:    1,
		}
		first.TurnPlayerID = &first.BowlingPlayerID
		if err := tx.CreateInning(first); err != nil {
			return err
		}

		joined = m
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrMatchNotFound) {
			responses.NotFound(c, "Match")
			return
		}
		responses.BadRequest(c, err.Error())
		return
	}

	gc.hub.Broadcast(joined.MatchCode, InfoEvent(fmt.Sprintf("%s joined the match", username)))
	if snap, err := gc.engine.Snapshot(joined.MatchCode); err == nil {
		gc.hub.Broadcast(joined.MatchCode, StateUpdateEvent(snap))
	} else {
		log.Printf("snapshot after join failed for match %s: %v", joined.MatchCode, err)
	}

	responses.SendSuccess(c, http.StatusOK, "Joined match", filterMatch(joined))
}

// @Summary      Get a match
// @Description  Fetch a match by its shareable code.
// @Tags         Matches
// @Produce      json
// @Param        code  path  string  true  "Match code"
// @Success      200  {object}  MatchResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /matches/{code} [get]
func (gc *GameController) GetMatch(c *gin.Context) {
	code := c.Param("code")
	m, err := gc.repo.GetMatchByCode(code)
	if err != nil {
		if errors.Is(err, ErrMatchNotFound) {
			responses.NotFound(c, "Match")
			return
		}
		responses.InternalServerError(c, "")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", filterMatch(m))
}
