package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/AdamBeresnev/tournament-scheduler/internal/bracket"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

var (
	ErrAlreadyStarted     = errors.New("tournament already started")
	ErrNotStarted         = errors.New("tournament not started")
	ErrTournamentComplete = errors.New("tournament already complete")
)

// EntrantSource returns the eligible entrants. It is queried once per run.
type EntrantSource interface {
	GetLatestEntrants(ctx context.Context) ([]bracket.Entrant, error)
}

// GameStore reads game snapshots and enqueues new games. GetGames only returns
// the ids that still exist.
type GameStore interface {
	GetGames(ctx context.Context, ids []int64) ([]bracket.Game, error)
	CreateQueuedGame(ctx context.Context, first, second bracket.Entrant) (bracket.Game, error)
}

type Store interface {
	EntrantSource
	GameStore
}

// Completion describes a finished run.
type Completion struct {
	RunID    uuid.UUID
	GameName string
	Champion bracket.Entrant
	Bracket  *bracket.Bracket
	BestOf   int
}

type ChampionNotifier interface {
	NotifyChampion(ctx context.Context, c Completion) error
}

type Options struct {
	GameName  string
	Mode      bracket.TournamentType
	MaxLosses int
	BestOf    int

	// EnqueueRate caps new games per second, zero disables the cap
	EnqueueRate  float64
	EnqueueBurst int

	Notifiers      []ChampionNotifier
	Logger         *slog.Logger
	BracketOptions []bracket.Option
}

type CycleResult struct {
	Champion   *bracket.Entrant
	NewMatches int
	Enqueued   int
	Pending    int
}

// TournamentService drives one tournament run. cycleMu allows one active
// cycle at a time. mu guards the bracket state and is never held across a
// store call or a limiter wait.
type TournamentService struct {
	store   Store
	opts    Options
	runID   uuid.UUID
	log     *slog.Logger
	limiter *rate.Limiter
	cycleMu sync.Mutex

	mu       sync.Mutex
	bracket  *bracket.Bracket
	entrants []bracket.Entrant
	root     bracket.NodeID
	started  bool
	champion *bracket.Entrant
	reported map[bracket.NodeID]bool
}

func NewTournamentService(store Store, opts Options) *TournamentService {
	if opts.Mode == "" {
		opts.Mode = bracket.OnlineElimination
	}
	runID := uuid.New()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	limit := rate.Inf
	if opts.EnqueueRate > 0 {
		limit = rate.Limit(opts.EnqueueRate)
	}

	return &TournamentService{
		store:    store,
		opts:     opts,
		runID:    runID,
		log:      logger.With("run", runID.String(), "mode", string(opts.Mode)),
		limiter:  rate.NewLimiter(limit, max(opts.EnqueueBurst, 1)),
		bracket:  bracket.New(opts.BracketOptions...),
		reported: map[bracket.NodeID]bool{},
	}
}

func (s *TournamentService) RunID() uuid.UUID {
	return s.runID
}

func (s *TournamentService) GameName() string {
	return s.opts.GameName
}

func (s *TournamentService) BestOf() int {
	return s.opts.BestOf
}

// Start fetches the entrants and seeds the bracket. Initial pairing only ever
// happens once per service.
func (s *TournamentService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}

	s.log.Info("getting latest entrants")
	entrants, err := s.store.GetLatestEntrants(ctx)
	if err != nil {
		return fmt.Errorf("failed to get entrants: %w", err)
	}
	if len(entrants) == 0 {
		return bracket.ErrNoEntrants
	}

	var levels bracket.Levels
	switch s.opts.Mode {
	case bracket.SingleElimination:
		levels = s.bracket.SingleElimination(entrants)
	case bracket.DoubleElimination:
		levels = s.bracket.DoubleElimination(entrants)
	case bracket.TripleElimination:
		levels = s.bracket.TripleElimination(entrants)
	case bracket.OnlineElimination:
		if g := s.bracket.GrowOnline(entrants, s.opts.MaxLosses); g.Warning != nil {
			return g.Warning
		}
	default:
		return fmt.Errorf("unsupported tournament type %q", s.opts.Mode)
	}
	if s.opts.Mode.Fixed() {
		root, ok := levels.Root()
		if !ok {
			return bracket.ErrNoEntrants
		}
		s.root = root
	}

	s.entrants = entrants
	s.started = true
	s.log.Info("bracket seeded", "entrants", len(entrants), "nodes", s.bracket.Len())
	return nil
}

// Cycle refreshes game results, resolves winners, grows the bracket or
// declares the champion, and enqueues the games still needed.
func (s *TournamentService) Cycle(ctx context.Context) (*CycleResult, error) {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil, ErrNotStarted
	}
	if s.champion != nil {
		s.mu.Unlock()
		return nil, ErrTournamentComplete
	}
	ids := s.bracket.UnfinishedGameIDs()
	s.mu.Unlock()

	games, err := s.fetchGames(ctx, ids)
	if err != nil {
		return nil, err
	}

	result, requests, completion, err := s.step(games)
	if err != nil {
		return nil, err
	}
	if completion != nil {
		s.notify(ctx, *completion)
		return result, nil
	}

	enqueued, err := s.enqueue(ctx, requests)
	result.Enqueued = enqueued

	s.mu.Lock()
	for _, n := range s.bracket.Nodes() {
		if n.Winner == nil {
			result.Pending++
		}
	}
	s.mu.Unlock()
	return result, err
}

func (s *TournamentService) fetchGames(ctx context.Context, ids []int64) ([]bracket.Game, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	s.log.Info("retrieving game status", "games", len(ids))
	games, err := s.store.GetGames(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get games: %w", err)
	}
	return games, nil
}

// step applies refreshed games and advances the bracket. It returns the games
// still needed, or the completion once a champion is declared.
func (s *TournamentService) step(games []bracket.Game) (*CycleResult, []bracket.GameRequest, *Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bracket.UpdateGames(games)

	s.log.Debug("declaring and propagating winners")
	if err := s.resolve(); err != nil {
		return nil, nil, nil, err
	}

	result := &CycleResult{}
	champion, created := s.advance()
	if champion != nil {
		c := *champion
		s.champion = &c
		result.Champion = &c
		s.log.Info("tournament complete", "winner", champion.Name, "id", champion.ID)
		return result, nil, &Completion{
			RunID:    s.runID,
			GameName: s.opts.GameName,
			Champion: *champion,
			Bracket:  s.bracket,
			BestOf:   s.opts.BestOf,
		}, nil
	}
	result.NewMatches = created
	if created > 0 {
		// New nodes take their entrants from already decided feeders
		if err := s.resolve(); err != nil {
			return nil, nil, nil, err
		}
	}
	return result, s.bracket.Demand(s.opts.BestOf), nil, nil
}

func (s *TournamentService) resolve() error {
	if err := s.bracket.ResolveAll(s.opts.BestOf); err != nil {
		return fmt.Errorf("failed to resolve winners: %w", err)
	}

	for _, n := range s.bracket.Nodes() {
		if n.SelfPlay && !s.reported[n.ID] {
			s.reported[n.ID] = true
			s.log.Warn("entrant met itself, recorded as both winner and loser",
				"node", n.ID, "entrant", n.Winner.String())
		}
	}
	return nil
}

// advance returns the champion once decided, otherwise how many nodes were
// added to the bracket.
func (s *TournamentService) advance() (*bracket.Entrant, int) {
	if s.opts.Mode.Fixed() {
		if w := s.bracket.Node(s.root).Winner; w != nil {
			return w, 0
		}
		return nil, 0
	}

	g := s.bracket.GrowOnline(s.entrants, s.opts.MaxLosses)
	if g.Warning != nil {
		s.log.Warn("falling back to the newest node as champion", "error", g.Warning)
	}
	if g.Champion != nil {
		return g.Champion.Winner, 0
	}
	return nil, len(g.Created)
}

// notify runs outside mu. The bracket no longer changes once a champion is set.
func (s *TournamentService) notify(ctx context.Context, c Completion) {
	for _, n := range s.opts.Notifiers {
		if err := n.NotifyChampion(ctx, c); err != nil {
			s.log.Error("failed to notify champion", "error", err)
		}
	}
}

func (s *TournamentService) enqueue(ctx context.Context, requests []bracket.GameRequest) (int, error) {
	enqueued := 0
	for _, req := range requests {
		if err := s.limiter.Wait(ctx); err != nil {
			return enqueued, err
		}

		s.log.Info("enqueueing game",
			"node", req.Node, "index", req.Index,
			"first", req.First.String(), "second", req.Second.String())
		g, err := s.store.CreateQueuedGame(ctx, req.First, req.Second)
		if err != nil {
			return enqueued, fmt.Errorf("failed to enqueue game for node %d: %w", req.Node, err)
		}

		s.mu.Lock()
		s.bracket.AttachGame(req.Node, g)
		s.mu.Unlock()
		enqueued++
	}
	return enqueued, nil
}

// Snapshot runs fn with exclusive access to the bracket.
func (s *TournamentService) Snapshot(fn func(b *bracket.Bracket)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.bracket)
}

// Root is the node a tree view should start from.
func (s *TournamentService) Root() (bracket.NodeID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opts.Mode.Fixed() {
		return s.root, s.started
	}
	if s.bracket.Len() == 0 {
		return 0, false
	}
	return bracket.NodeID(s.bracket.Len() - 1), true
}

func (s *TournamentService) Champion() (bracket.Entrant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.champion == nil {
		return bracket.Entrant{}, false
	}
	return *s.champion, true
}

func (s *TournamentService) Status() bracket.TournamentStatus {
	if _, ok := s.Champion(); ok {
		return bracket.TournamentCompleted
	}
	return bracket.TournamentStarted
}
