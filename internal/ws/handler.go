package ws

import (
	"errors"
	"log"
	"net/http"

	"github.com/VrajPatel-21/papercricket/config"
	"github.com/VrajPatel-21/papercricket/internal/game"
	"github.com/VrajPatel-21/papercricket/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from the frontend origin; CORS for the REST
	// surface is handled separately, so accept any origin here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GameServer bridges websocket connections to the match engine.
type GameServer struct {
	hub       *Hub
	repo      game.GameRepository
	engine    *game.Engine
	appConfig *config.Config
}

func RegisterWebSocketRoutes(r *gin.Engine, db *gorm.DB, appConfig *config.Config, hub *Hub) {
	repo := game.NewGormGameRepository(db)
	srv := &GameServer{
		hub:       hub,
		repo:      repo,
		engine:    game.NewEngine(repo),
		appConfig: appConfig,
	}
	r.GET("/ws/game/:code", srv.Serve)
}

// Serve authenticates the connection via a token query parameter, upgrades
// it, joins the match group and pushes the current state immediately — a
// freshly connected client never waits for the next ball to see the game.
func (s *GameServer) Serve(c *gin.Context) {
	matchCode := c.Param("code")

	claims, err := token.ValidateJWT(c.Query("token"), s.appConfig.JWT.AccessTokenSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}
	if claims.Username == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is missing the username claim"})
		return
	}

	// Reject unknown codes before the upgrade so a bogus connection never
	// occupies a phantom room.
	if _, err := s.repo.GetMatchByCode(matchCode); err != nil {
		if errors.Is(err, game.ErrMatchNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Match with code " + matchCode + " not found."})
		} else {
			log.Printf("match lookup failed for %s: %v", matchCode, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load match state."})
		}
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed for match %s: %v", matchCode, err)
		return
	}

	client := &Client{
		id:        uuid.NewString(),
		matchCode: matchCode,
		username:  claims.Username,
		hub:       s.hub,
		conn:      conn,
		send:      make(chan []byte, 16),
	}

	s.hub.add(matchCode, client)
	go client.writePump()
	go client.readPump(s)

	s.sendInitialState(client)
	log.Printf("WebSocket connected for match %s (user %s)", matchCode, client.username)
}

// sendInitialState sends the current snapshot (or a waiting notice) to the
// newly connected client only.
func (s *GameServer) sendInitialState(c *Client) {
	m, err := s.repo.GetMatchByCode(c.matchCode)
	if err != nil {
		if errors.Is(err, game.ErrMatchNotFound) {
			c.sendError("Match with code " + c.matchCode + " not found.")
		} else {
			c.sendError("Could not load match state.")
		}
		return
	}

	if m.Status == game.StatusWaiting {
		c.sendJSON(game.InfoEvent("Waiting for a second player to join..."))
		return
	}

	snap, err := s.engine.Snapshot(c.matchCode)
	if err != nil {
		c.sendError("Could not load match state.")
		return
	}
	c.sendJSON(game.StateUpdateEvent(snap))
}

// handleAction dispatches one inbound player action. Validation failures go
// back to the originating connection only; a successful action broadcasts
// the post-commit snapshot to the whole group.
func (s *GameServer) handleAction(c *Client, action clientAction) {
	var (
		snap *game.Snapshot
		err  error
	)

	switch action.Action {
	case "bowl":
		snap, err = s.engine.SubmitBowl(c.matchCode, c.username, action.Choice)
	case "bat":
		snap, err = s.engine.SubmitBat(c.matchCode, c.username, action.Choice)
	default:
		c.sendError("unknown action: " + action.Action)
		return
	}

	if err != nil {
		c.sendError(err.Error())
		return
	}

	s.hub.Broadcast(c.matchCode, game.StateUpdateEvent(snap))

	if snap.Status == game.StatusCompleted {
		result := "It's a tie!"
		if snap.Winner != nil {
			result = *snap.Winner + " wins!"
		}
		s.hub.Broadcast(c.matchCode, game.InfoEvent("Match over! "+result))
	}
}
