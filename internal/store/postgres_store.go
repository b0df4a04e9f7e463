package store

import (
	"context"
	"fmt"

	"github.com/AdamBeresnev/tournament-scheduler/internal/bracket"
	"gorm.io/gorm"
)

// PostgresStore talks to the live arena database.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetLatestEntrants(ctx context.Context) ([]bracket.Entrant, error) {
	var entrants []bracket.Entrant
	err := s.db.WithContext(ctx).Raw(latestEntrantsQuery).Scan(&entrants).Error
	return entrants, err
}

func (s *PostgresStore) GetGames(ctx context.Context, ids []int64) ([]bracket.Game, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var games []bracket.Game
	if err := s.db.WithContext(ctx).Raw(gamesByIDQuery, ids).Scan(&games).Error; err != nil {
		return nil, err
	}
	return normalizeLogURLs(games), nil
}

func (s *PostgresStore) CreateQueuedGame(ctx context.Context, first, second bracket.Entrant) (bracket.Game, error) {
	var game bracket.Game
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Raw(insertGameQuery, bracket.GameQueued).Scan(&game).Error; err != nil {
			return fmt.Errorf("failed to insert game: %w", err)
		}
		if err := tx.Exec(insertSeatsQuery, game.ID, first.ID, game.ID, second.ID).Error; err != nil {
			return fmt.Errorf("failed to seat game %d: %w", game.ID, err)
		}
		return nil
	})
	return game, err
}
