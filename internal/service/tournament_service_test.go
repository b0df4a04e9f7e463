package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/AdamBeresnev/tournament-scheduler/internal/bracket"
	"github.com/AdamBeresnev/tournament-scheduler/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeArena plays every game instantly, the entrant with the lower id winning.
type fakeArena struct {
	mu        sync.Mutex
	entrants  []bracket.Entrant
	seats     map[int64][2]int64
	nextID    int64
	hidden    bool
	winner    *int64
	getErr    error
	createErr error
	created   [][2]int64

	// creating is signalled on every CreateQueuedGame, release holds it open
	creating chan struct{}
	release  chan struct{}
}

func newFakeArena(count int) *fakeArena {
	entrants := make([]bracket.Entrant, count)
	for i := range entrants {
		entrants[i] = bracket.Entrant{ID: int64(i + 1), Name: "bot", Version: 1, Status: "finished"}
	}
	return &fakeArena{entrants: entrants, seats: map[int64][2]int64{}}
}

func (a *fakeArena) GetLatestEntrants(ctx context.Context) ([]bracket.Entrant, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.entrants, a.getErr
}

func (a *fakeArena) GetGames(ctx context.Context, ids []int64) ([]bracket.Game, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.getErr != nil {
		return nil, a.getErr
	}
	if a.hidden {
		return nil, nil
	}
	var games []bracket.Game
	for _, id := range ids {
		seats, ok := a.seats[id]
		if !ok {
			continue
		}
		winner := min(seats[0], seats[1])
		if a.winner != nil {
			winner = *a.winner
		}
		games = append(games, bracket.Game{ID: id, Status: bracket.GameFinished, WinnerID: utils.Ptr(winner)})
	}
	return games, nil
}

func (a *fakeArena) CreateQueuedGame(ctx context.Context, first, second bracket.Entrant) (bracket.Game, error) {
	if a.creating != nil {
		select {
		case a.creating <- struct{}{}:
		default:
		}
	}
	if a.release != nil {
		<-a.release
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.createErr != nil {
		return bracket.Game{}, a.createErr
	}
	a.nextID++
	a.seats[a.nextID] = [2]int64{first.ID, second.ID}
	a.created = append(a.created, [2]int64{first.ID, second.ID})
	return bracket.Game{ID: a.nextID, Status: bracket.GameQueued}, nil
}

type recordingNotifier struct {
	completions []Completion
}

func (n *recordingNotifier) NotifyChampion(ctx context.Context, c Completion) error {
	n.completions = append(n.completions, c)
	return nil
}

type failingNotifier struct{}

func (failingNotifier) NotifyChampion(ctx context.Context, c Completion) error {
	return errors.New("bucket unavailable")
}

func testOptions(mode bracket.TournamentType, notifiers ...ChampionNotifier) Options {
	return Options{
		GameName:       "Chess",
		Mode:           mode,
		MaxLosses:      2,
		BestOf:         3,
		Notifiers:      notifiers,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		BracketOptions: []bracket.Option{bracket.WithRand(rand.New(rand.NewPCG(3, 5)))},
	}
}

func cycleToChampion(t *testing.T, svc *TournamentService) bracket.Entrant {
	t.Helper()
	ctx := context.Background()
	for range 500 {
		res, err := svc.Cycle(ctx)
		require.NoError(t, err)
		if res.Champion != nil {
			return *res.Champion
		}
	}
	t.Fatal("tournament did not finish")
	return bracket.Entrant{}
}

func TestStart(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds once", func(t *testing.T) {
		svc := NewTournamentService(newFakeArena(6), testOptions(bracket.OnlineElimination))
		require.NoError(t, svc.Start(ctx))
		assert.ErrorIs(t, svc.Start(ctx), ErrAlreadyStarted)

		svc.Snapshot(func(b *bracket.Bracket) {
			assert.Equal(t, 4, b.Len())
		})
		assert.Equal(t, bracket.TournamentStarted, svc.Status())
	})

	t.Run("no entrants", func(t *testing.T) {
		svc := NewTournamentService(newFakeArena(0), testOptions(bracket.SingleElimination))
		assert.ErrorIs(t, svc.Start(ctx), bracket.ErrNoEntrants)
	})

	t.Run("store failure", func(t *testing.T) {
		arena := newFakeArena(4)
		arena.getErr = errors.New("connection refused")
		svc := NewTournamentService(arena, testOptions(bracket.SingleElimination))
		err := svc.Start(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("cycle before start", func(t *testing.T) {
		svc := NewTournamentService(newFakeArena(4), testOptions(bracket.SingleElimination))
		_, err := svc.Cycle(ctx)
		assert.ErrorIs(t, err, ErrNotStarted)
	})
}

func TestCycleRunsToChampion(t *testing.T) {
	modes := []bracket.TournamentType{
		bracket.OnlineElimination,
		bracket.SingleElimination,
		bracket.DoubleElimination,
		bracket.TripleElimination,
	}

	for _, mode := range modes {
		t.Run(string(mode), func(t *testing.T) {
			notifier := &recordingNotifier{}
			svc := NewTournamentService(newFakeArena(7), testOptions(mode, notifier, failingNotifier{}))
			require.NoError(t, svc.Start(context.Background()))

			champion := cycleToChampion(t, svc)
			assert.Equal(t, int64(1), champion.ID)
			assert.Equal(t, bracket.TournamentCompleted, svc.Status())

			got, ok := svc.Champion()
			require.True(t, ok)
			assert.Equal(t, champion, got)

			require.Len(t, notifier.completions, 1)
			c := notifier.completions[0]
			assert.Equal(t, svc.RunID(), c.RunID)
			assert.Equal(t, "Chess", c.GameName)
			assert.Equal(t, int64(1), c.Champion.ID)
			assert.Equal(t, 3, c.BestOf)
			assert.NotNil(t, c.Bracket)

			_, err := svc.Cycle(context.Background())
			assert.ErrorIs(t, err, ErrTournamentComplete)
		})
	}
}

func TestCycleEnqueuesAlternatingSeats(t *testing.T) {
	arena := newFakeArena(2)
	svc := NewTournamentService(arena, testOptions(bracket.OnlineElimination))
	require.NoError(t, svc.Start(context.Background()))

	res, err := svc.Cycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Enqueued)
	assert.Equal(t, 1, res.Pending)

	require.Len(t, arena.created, 3)
	assert.Equal(t, arena.created[0], arena.created[2])
	assert.Equal(t, [2]int64{arena.created[0][1], arena.created[0][0]}, arena.created[1])
}

func TestCycleLeavesMissingGamesQueued(t *testing.T) {
	arena := newFakeArena(4)
	svc := NewTournamentService(arena, testOptions(bracket.SingleElimination))
	require.NoError(t, svc.Start(context.Background()))

	res, err := svc.Cycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, res.Enqueued)

	arena.hidden = true
	res, err = svc.Cycle(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.Enqueued)
	assert.Equal(t, 3, res.Pending)
	assert.Len(t, arena.created, 6)
}

// readableWithin fails the test unless the bracket can be read while a cycle
// is still running.
func readableWithin(t *testing.T, svc *TournamentService, wantNodes int) {
	t.Helper()

	read := make(chan int, 1)
	go svc.Snapshot(func(b *bracket.Bracket) { read <- b.Len() })
	select {
	case n := <-read:
		assert.Equal(t, wantNodes, n)
	case <-time.After(time.Second):
		t.Fatal("bracket locked while the cycle waits on enqueueing")
	}
	assert.Equal(t, bracket.TournamentStarted, svc.Status())
	_, ok := svc.Root()
	assert.True(t, ok)
}

func TestCycleReleasesBracketWhileEnqueueing(t *testing.T) {
	t.Run("store call", func(t *testing.T) {
		arena := newFakeArena(4)
		arena.creating = make(chan struct{}, 1)
		arena.release = make(chan struct{})
		svc := NewTournamentService(arena, testOptions(bracket.SingleElimination))
		require.NoError(t, svc.Start(context.Background()))

		done := make(chan error, 1)
		go func() {
			_, err := svc.Cycle(context.Background())
			done <- err
		}()
		<-arena.creating

		readableWithin(t, svc, 3)

		close(arena.release)
		require.NoError(t, <-done)
		assert.Len(t, arena.created, 6)
	})

	t.Run("rate limit", func(t *testing.T) {
		arena := newFakeArena(4)
		arena.creating = make(chan struct{}, 1)
		opts := testOptions(bracket.SingleElimination)
		opts.EnqueueRate = 0.001
		svc := NewTournamentService(arena, opts)
		require.NoError(t, svc.Start(context.Background()))

		ctx, cancel := context.WithCancel(context.Background())
		type outcome struct {
			res *CycleResult
			err error
		}
		done := make(chan outcome, 1)
		go func() {
			res, err := svc.Cycle(ctx)
			done <- outcome{res, err}
		}()
		<-arena.creating

		readableWithin(t, svc, 3)

		cancel()
		out := <-done
		assert.ErrorIs(t, out.err, context.Canceled)
		require.NotNil(t, out.res)
		assert.Equal(t, 1, out.res.Enqueued)
	})
}

func TestCycleStructuralInconsistency(t *testing.T) {
	arena := newFakeArena(4)
	arena.winner = utils.Ptr(int64(99))
	svc := NewTournamentService(arena, testOptions(bracket.SingleElimination))
	require.NoError(t, svc.Start(context.Background()))

	_, err := svc.Cycle(context.Background())
	require.NoError(t, err)

	_, err = svc.Cycle(context.Background())
	assert.ErrorIs(t, err, bracket.ErrStructuralInconsistency)
}

func TestCycleEnqueueFailure(t *testing.T) {
	arena := newFakeArena(4)
	arena.createErr = errors.New("disk full")
	svc := NewTournamentService(arena, testOptions(bracket.OnlineElimination))
	require.NoError(t, svc.Start(context.Background()))

	res, err := svc.Cycle(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	require.NotNil(t, res)
	assert.Zero(t, res.Enqueued)
}

func TestRun(t *testing.T) {
	svc := NewTournamentService(newFakeArena(6), testOptions(bracket.OnlineElimination))
	require.NoError(t, svc.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	champion, err := svc.Run(ctx, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, int64(1), champion.ID)
}

func TestRunStopsOnInconsistency(t *testing.T) {
	arena := newFakeArena(4)
	arena.winner = utils.Ptr(int64(99))
	svc := NewTournamentService(arena, testOptions(bracket.SingleElimination))
	require.NoError(t, svc.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := svc.Run(ctx, 10*time.Millisecond)
	assert.ErrorIs(t, err, bracket.ErrStructuralInconsistency)
}

func TestRunCancelled(t *testing.T) {
	arena := newFakeArena(4)
	arena.hidden = true
	svc := NewTournamentService(arena, testOptions(bracket.SingleElimination))
	require.NoError(t, svc.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := svc.Run(ctx, 10*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
