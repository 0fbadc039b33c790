package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/VrajPatel-21/papercricket/config"
	"github.com/VrajPatel-21/papercricket/internal/game"
	"github.com/VrajPatel-21/papercricket/internal/player"
	"github.com/VrajPatel-21/papercricket/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "gateway-test-secret"

// stubRepo serves a single fixed match; everything else is a stub. The
// gateway only reads, so the write methods never run.
type stubRepo struct {
	match *game.Match
}

func (s *stubRepo) GetMatchByCode(code string) (*game.Match, error) {
	if s.match != nil && s.match.MatchCode == code {
		return s.match, nil
	}
	return nil, game.ErrMatchNotFound
}

func (s *stubRepo) GetMatchByCodeForUpdate(code string) (*game.Match, error) {
	return s.GetMatchByCode(code)
}

func (s *stubRepo) CreateMatch(m *game.Match) error                       { return nil }
func (s *stubRepo) UpdateMatch(m *game.Match) error                       { return nil }
func (s *stubRepo) CreateInning(in *game.Inning) error                    { return nil }
func (s *stubRepo) UpdateInning(in *game.Inning) error                    { return nil }
func (s *stubRepo) CreateBall(b *game.Ball) error                         { return nil }
func (s *stubRepo) LastBall(inningID uint) (*game.Ball, error)            { return nil, nil }
func (s *stubRepo) RecordCareerResult(p1, p2 uint, winnerID *uint) error  { return nil }
func (s *stubRepo) WithTransaction(f func(game.GameRepository) error) error {
	return f(s)
}

func newGatewayServer(t *testing.T, repo game.GameRepository) (*Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.JWT.AccessTokenSecret = testSecret

	hub := NewHub()
	srv := &GameServer{
		hub:       hub,
		repo:      repo,
		engine:    game.NewEngine(repo),
		appConfig: cfg,
	}

	r := gin.New()
	r.GET("/ws/game/:code", srv.Serve)
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return hub, ts
}

func wsURL(ts *httptest.Server, code, tok string) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/game/" + code + "?token=" + tok
}

func TestServeRejectsInvalidToken(t *testing.T) {
	_, ts := newGatewayServer(t, &stubRepo{})

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts, "ABC123", "garbage"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServeRejectsUnknownMatchBeforeJoiningRoom(t *testing.T) {
	hub, ts := newGatewayServer(t, &stubRepo{})

	tok, err := token.GenerateJWT(1, "alice", testSecret, 15)
	require.NoError(t, err)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts, "NOPE42", tok), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 0, hub.RoomSize("NOPE42"), "rejected connection must not occupy a room")
}

func TestServeSendsWaitingNoticeOnConnect(t *testing.T) {
	p1 := player.Player{Username: "alice"}
	p1.ID = 1
	m := &game.Match{
		MatchCode: "ABC123",
		Status:    game.StatusWaiting,
		Player1ID: p1.ID,
		Player1:   p1,
	}
	hub, ts := newGatewayServer(t, &stubRepo{match: m})

	tok, err := token.GenerateJWT(1, "alice", testSecret, 15)
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "ABC123", tok), nil)
	require.NoError(t, err)
	defer conn.Close()

	var event struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "info_message", event.Type)
	assert.Contains(t, event.Message, "Waiting for a second player")
	assert.Equal(t, 1, hub.RoomSize("ABC123"))
}
