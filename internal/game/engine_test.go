package game

import (
	"reflect"
	"testing"

	"github.com/VrajPatel-21/papercricket/internal/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo is an in-memory GameRepository. Reads hand out deep copies so
// engine mutations only become visible once written back through Update*,
// mirroring how the database behaves.
type fakeRepo struct {
	match        *Match
	balls        map[uint][]Ball
	nextInningID uint
	nextBallID   uint
	careerCalls  []careerCall
}

type careerCall struct {
	player1ID uint
	player2ID uint
	winnerID  *uint
}

func newFakeRepo(m *Match) *fakeRepo {
	return &fakeRepo{
		match:        m,
		balls:        make(map[uint][]Ball),
		nextInningID: 101,
		nextBallID:   1001,
	}
}

func cloneUintPtr(p *uint) *uint {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneStrPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInning(in Inning) Inning {
	in.TurnPlayerID = cloneUintPtr(in.TurnPlayerID)
	in.PendingBowlerChoice = cloneStrPtr(in.PendingBowlerChoice)
	in.Balls = nil
	return in
}

func (f *fakeRepo) cloneMatch() *Match {
	m := *f.match
	m.Player2ID = cloneUintPtr(m.Player2ID)
	m.WinnerID = cloneUintPtr(m.WinnerID)
	if f.match.Player2 != nil {
		p2 := *f.match.Player2
		m.Player2 = &p2
	}
	if f.match.Winner != nil {
		w := *f.match.Winner
		m.Winner = &w
	}
	m.Innings = make([]Inning, len(f.match.Innings))
	for i, in := range f.match.Innings {
		m.Innings[i] = cloneInning(in)
	}
	return &m
}

func (f *fakeRepo) GetMatchByCode(code string) (*Match, error) {
	if f.match == nil || f.match.MatchCode != code {
		return nil, ErrMatchNotFound
	}
	return f.cloneMatch(), nil
}

func (f *fakeRepo) GetMatchByCodeForUpdate(code string) (*Match, error) {
	return f.GetMatchByCode(code)
}

func (f *fakeRepo) CreateMatch(m *Match) error {
	f.match = m
	return nil
}

func (f *fakeRepo) UpdateMatch(m *Match) error {
	f.match.Status = m.Status
	f.match.Player2ID = cloneUintPtr(m.Player2ID)
	f.match.WinnerID = cloneUintPtr(m.WinnerID)
	return nil
}

func (f *fakeRepo) CreateInning(in *Inning) error {
	in.ID = f.nextInningID
	f.nextInningID++
	f.match.Innings = append(f.match.Innings, cloneInning(*in))
	return nil
}

func (f *fakeRepo) UpdateInning(in *Inning) error {
	for i := range f.match.Innings {
		if f.match.Innings[i].ID == in.ID {
			f.match.Innings[i].Runs = in.Runs
			f.match.Innings[i].Wickets = in.Wickets
			f.match.Innings[i].BallsPlayed = in.BallsPlayed
			f.match.Innings[i].TurnPlayerID = cloneUintPtr(in.TurnPlayerID)
			f.match.Innings[i].PendingBowlerChoice = cloneStrPtr(in.PendingBowlerChoice)
			return nil
		}
	}
	return ErrMatchNotFound
}

func (f *fakeRepo) CreateBall(b *Ball) error {
	b.ID = f.nextBallID
	f.nextBallID++
	f.balls[b.InningID] = append(f.balls[b.InningID], *b)
	return nil
}

func (f *fakeRepo) LastBall(inningID uint) (*Ball, error) {
	balls := f.balls[inningID]
	if len(balls) == 0 {
		return nil, nil
	}
	last := balls[len(balls)-1]
	return &last, nil
}

func (f *fakeRepo) RecordCareerResult(player1ID, player2ID uint, winnerID *uint) error {
	f.careerCalls = append(f.careerCalls, careerCall{
		player1ID: player1ID,
		player2ID: player2ID,
		winnerID:  cloneUintPtr(winnerID),
	})
	return nil
}

func (f *fakeRepo) WithTransaction(txFunc func(GameRepository) error) error {
	return txFunc(f)
}

const testCode = "ABC123"

// testMatch builds an ongoing match: alice (player 1) bats first, bob
// (player 2) bowls, bowler holds the turn.
func testMatch(overs, wickets int) (*fakeRepo, *Engine) {
	p1 := player.Player{Username: "alice"}
	p1.ID = 1
	p2 := player.Player{Username: "bob"}
	p2.ID = 2
	p2ID := p2.ID

	m := &Match{
		MatchCode: testCode,
		MatchType: MatchTypeMulti,
		Status:    StatusOngoing,
		Overs:     overs,
		Wickets:   wickets,
		Player1ID: p1.ID,
		Player1:   p1,
		Player2ID: &p2ID,
		Player2:   &p2,
	}
	m.ID = 10

	first := Inning{
		MatchID:         m.ID,
		BattingPlayerID: p1.ID,
		BowlingPlayerID: p2.ID,
		InningsOrder:    1,
	}
	first.ID = 100
	turn := p2.ID
	first.TurnPlayerID = &turn
	m.Innings = []Inning{first}

	repo := newFakeRepo(m)
	return repo, NewEngine(repo)
}

func playBall(t *testing.T, e *Engine, bowler, bowlChoice, batter, batChoice string) *Snapshot {
	t.Helper()
	_, err := e.SubmitBowl(testCode, bowler, bowlChoice)
	require.NoError(t, err)
	snap, err := e.SubmitBat(testCode, batter, batChoice)
	require.NoError(t, err)
	return snap
}

func TestSubmitBowlHandsTurnToBatsman(t *testing.T) {
	repo, e := testMatch(2, 2)

	snap, err := e.SubmitBowl(testCode, "bob", "A")
	require.NoError(t, err)

	require.NotNil(t, snap.Turn)
	assert.Equal(t, "alice", *snap.Turn)

	stored := repo.match.Innings[0]
	require.NotNil(t, stored.PendingBowlerChoice)
	assert.Equal(t, "A", *stored.PendingBowlerChoice)
}

func TestSubmitBowlRejections(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(e *Engine)
		code     string
		username string
		wantErr  error
	}{
		{"batsman cannot bowl", nil, testCode, "alice", ErrWrongRole},
		{"unknown player", nil, testCode, "carol", ErrNotInMatch},
		{"unknown match", nil, "NOPE42", "bob", ErrMatchNotFound},
		{"bowler cannot bowl twice", func(e *Engine) {
			_, err := e.SubmitBowl(testCode, "bob", "A")
			require.NoError(t, err)
		}, testCode, "bob", ErrNotYourTurn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, e := testMatch(2, 2)
			if tt.setup != nil {
				tt.setup(e)
			}
			_, err := e.SubmitBowl(tt.code, tt.username, "B")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSubmitBatBeforeBowl(t *testing.T) {
	_, e := testMatch(2, 2)

	// Turn still belongs to the bowler.
	_, err := e.SubmitBat(testCode, "alice", "D")
	assert.ErrorIs(t, err, ErrNotYourTurn)
}

func TestSubmitBatRequiresPendingChoice(t *testing.T) {
	repo, e := testMatch(2, 2)

	// Force an inconsistent turn with no committed bowler choice.
	turn := uint(1)
	repo.match.Innings[0].TurnPlayerID = &turn

	_, err := e.SubmitBat(testCode, "alice", "D")
	assert.ErrorIs(t, err, ErrBowlerNotChosen)
}

func TestResolvedBallUpdatesScoreAndTurn(t *testing.T) {
	repo, e := testMatch(2, 2)

	snap := playBall(t, e, "bob", "A", "alice", "D")

	assert.Equal(t, 4, snap.Score)
	assert.Equal(t, 0, snap.Wickets)
	assert.Equal(t, 1, snap.BallsPlayed)
	require.NotNil(t, snap.Turn)
	assert.Equal(t, "bob", *snap.Turn, "turn returns to the bowler after a resolved ball")
	require.NotNil(t, snap.LastBall)
	assert.Equal(t, "A", snap.LastBall.BowlerChoice)
	assert.Equal(t, "D", snap.LastBall.BatsmanChoice)
	assert.False(t, snap.LastBall.IsWicket)
	assert.Equal(t, 4, snap.LastBall.RunsScored)

	assert.Nil(t, repo.match.Innings[0].PendingBowlerChoice, "pending choice cleared after resolution")
}

func TestWicketScoresZero(t *testing.T) {
	_, e := testMatch(2, 2)

	snap := playBall(t, e, "bob", "E", "alice", "E")

	assert.Equal(t, 0, snap.Score)
	assert.Equal(t, 1, snap.Wickets)
	require.NotNil(t, snap.LastBall)
	assert.True(t, snap.LastBall.IsWicket)
	assert.Equal(t, 0, snap.LastBall.RunsScored)
}

func TestBallNumbering(t *testing.T) {
	repo, e := testMatch(2, 5)

	for i := 0; i < 7; i++ {
		playBall(t, e, "bob", "A", "alice", "D")
	}

	balls := repo.balls[100]
	require.Len(t, balls, 7)
	for i := 0; i < 6; i++ {
		assert.Equal(t, 1, balls[i].OverNo, "ball %d", i+1)
		assert.Equal(t, i+1, balls[i].BallNo, "ball %d", i+1)
	}
	assert.Equal(t, 2, balls[6].OverNo)
	assert.Equal(t, 1, balls[6].BallNo)
}

func TestFirstInningsConcludesAndSecondIsCreated(t *testing.T) {
	repo, e := testMatch(1, 1)

	var snap *Snapshot
	for i := 0; i < 6; i++ {
		snap = playBall(t, e, "bob", "A", "alice", "D")
	}

	assert.Equal(t, StatusOngoing, snap.Status)
	assert.Equal(t, 2, snap.CurrentInning)
	assert.Equal(t, "bob", snap.BattingPlayer, "roles swap for the second innings")
	assert.Equal(t, "alice", snap.BowlingPlayer)
	require.NotNil(t, snap.Turn)
	assert.Equal(t, "alice", *snap.Turn, "bowler leads the new innings")
	assert.Equal(t, 0, snap.Score)
	assert.Equal(t, 0, snap.BallsPlayed)
	require.NotNil(t, snap.Target)
	assert.Equal(t, 25, *snap.Target, "target is first innings runs + 1")
	assert.Nil(t, snap.Winner)

	require.Len(t, repo.match.Innings, 2)
	assert.Nil(t, repo.match.Innings[0].TurnPlayerID, "concluded innings holds no turn")
}

func TestSecondInningsCreatedExactlyOnce(t *testing.T) {
	repo, e := testMatch(1, 1)

	for i := 0; i < 6; i++ {
		playBall(t, e, "bob", "A", "alice", "D")
	}
	require.Len(t, repo.match.Innings, 2)

	// More balls in the second innings must not spawn further innings.
	playBall(t, e, "alice", "A", "bob", "B")
	assert.Len(t, repo.match.Innings, 2)
}

func TestChaserWinsOnReachingTarget(t *testing.T) {
	repo, e := testMatch(1, 1)

	// First innings ends on a first-ball wicket: 0 runs, target 1.
	playBall(t, e, "bob", "A", "alice", "A")

	// Any scoring ball wins it for the chaser.
	snap := playBall(t, e, "alice", "A", "bob", "D")

	assert.Equal(t, StatusCompleted, snap.Status)
	require.NotNil(t, snap.Winner)
	assert.Equal(t, "bob", *snap.Winner)
	assert.Nil(t, snap.Turn)

	require.Len(t, repo.careerCalls, 1)
	call := repo.careerCalls[0]
	assert.Equal(t, uint(1), call.player1ID)
	assert.Equal(t, uint(2), call.player2ID)
	require.NotNil(t, call.winnerID)
	assert.Equal(t, uint(2), *call.winnerID)
}

func TestDefenderWinsWhenChaserFallsShort(t *testing.T) {
	repo, e := testMatch(1, 1)

	// First innings: 4 + 6 runs, then a wicket ends it at 10. Target 11.
	playBall(t, e, "bob", "A", "alice", "D")
	playBall(t, e, "bob", "A", "alice", "E")
	playBall(t, e, "bob", "B", "alice", "B")

	// Second innings: first-ball wicket, 0 < 11.
	snap := playBall(t, e, "alice", "B", "bob", "B")

	assert.Equal(t, StatusCompleted, snap.Status)
	require.NotNil(t, snap.Winner)
	assert.Equal(t, "alice", *snap.Winner, "first-innings batter defends the total")

	require.Len(t, repo.careerCalls, 1)
	require.NotNil(t, repo.careerCalls[0].winnerID)
	assert.Equal(t, uint(1), *repo.careerCalls[0].winnerID)
}

func TestTieLeavesNoWinner(t *testing.T) {
	repo, e := testMatch(1, 1)

	playBall(t, e, "bob", "A", "alice", "A")
	snap := playBall(t, e, "alice", "C", "bob", "C")

	assert.Equal(t, StatusCompleted, snap.Status)
	assert.Nil(t, snap.Winner)

	require.Len(t, repo.careerCalls, 1)
	assert.Nil(t, repo.careerCalls[0].winnerID, "tie records no winner")
}

func TestCompletedMatchRejectsActions(t *testing.T) {
	_, e := testMatch(1, 1)

	playBall(t, e, "bob", "A", "alice", "A")
	playBall(t, e, "alice", "C", "bob", "C")

	_, err := e.SubmitBowl(testCode, "alice", "A")
	assert.ErrorIs(t, err, ErrMatchCompleted)
	_, err = e.SubmitBat(testCode, "bob", "A")
	assert.ErrorIs(t, err, ErrMatchCompleted)
}

func TestWaitingMatchRejectsActions(t *testing.T) {
	repo, e := testMatch(2, 2)
	repo.match.Status = StatusWaiting
	repo.match.Innings = nil

	_, err := e.SubmitBowl(testCode, "bob", "A")
	assert.ErrorIs(t, err, ErrMatchNotOngoing)

	_, err = e.Snapshot(testCode)
	assert.ErrorIs(t, err, ErrNoActiveInning)
}

func TestRejectedActionLeavesStateUnchanged(t *testing.T) {
	repo, e := testMatch(2, 2)

	before := cloneInning(repo.match.Innings[0])

	_, err := e.SubmitBowl(testCode, "alice", "A")
	require.Error(t, err)
	_, err = e.SubmitBat(testCode, "alice", "D")
	require.Error(t, err)

	after := cloneInning(repo.match.Innings[0])
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("rejected actions mutated innings state: before=%+v after=%+v", before, after)
	}
	assert.Empty(t, repo.balls[100], "no ball recorded for rejected actions")
}

func TestSnapshotIsIdempotent(t *testing.T) {
	_, e := testMatch(2, 2)

	playBall(t, e, "bob", "A", "alice", "C")

	snap1, err := e.Snapshot(testCode)
	require.NoError(t, err)
	snap2, err := e.Snapshot(testCode)
	require.NoError(t, err)

	assert.Equal(t, snap1, snap2)
}
