package store

import (
	"context"
	"fmt"

	"github.com/AdamBeresnev/tournament-scheduler/internal/bracket"
	"github.com/AdamBeresnev/tournament-scheduler/internal/utils"
	"github.com/jmoiron/sqlx"
)

// ArenaStore reads entrants and games from an SQLite copy of the arena
// schema.
type ArenaStore struct {
	db *sqlx.DB
}

func NewArenaStore(db *sqlx.DB) *ArenaStore {
	return &ArenaStore{db: db}
}

func (s *ArenaStore) GetLatestEntrants(ctx context.Context) ([]bracket.Entrant, error) {
	var entrants []bracket.Entrant
	err := s.db.SelectContext(ctx, &entrants, latestEntrantsQuery)
	return entrants, err
}

func (s *ArenaStore) GetGames(ctx context.Context, ids []int64) ([]bracket.Game, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(gamesByIDQuery, ids)
	if err != nil {
		return nil, err
	}

	var games []bracket.Game
	if err := s.db.SelectContext(ctx, &games, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return normalizeLogURLs(games), nil
}

// CreateQueuedGame enqueues one game with first and second seated in order.
func (s *ArenaStore) CreateQueuedGame(ctx context.Context, first, second bracket.Entrant) (bracket.Game, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return bracket.Game{}, err
	}
	defer tx.Rollback()

	game, err := s.insertGame(ctx, tx, first, second)
	if err != nil {
		return bracket.Game{}, err
	}
	return game, tx.Commit()
}

func (s *ArenaStore) insertGame(ctx context.Context, tx *sqlx.Tx, first, second bracket.Entrant) (bracket.Game, error) {
	var game bracket.Game
	err := tx.QueryRowxContext(ctx, tx.Rebind(insertGameQuery), bracket.GameQueued).StructScan(&game)
	if err != nil {
		return bracket.Game{}, fmt.Errorf("failed to insert game: %w", err)
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(insertSeatsQuery), game.ID, first.ID, game.ID, second.ID)
	if err != nil {
		return bracket.Game{}, fmt.Errorf("failed to seat game %d: %w", game.ID, err)
	}
	return game, nil
}

// The arena writes an empty log url until the log is uploaded.
func normalizeLogURLs(games []bracket.Game) []bracket.Game {
	for i, g := range games {
		if g.LogURL != nil {
			games[i].LogURL = utils.NilIfBlank(*g.LogURL)
		}
	}
	return games
}
