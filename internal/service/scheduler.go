package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AdamBeresnev/tournament-scheduler/internal/bracket"
	"github.com/go-co-op/gocron/v2"
)

var errFinished = errors.New("tournament finished")

// Run calls Cycle every interval until a champion is declared, a structural
// inconsistency is found or ctx is done. Other cycle errors are logged and
// retried on the next tick. Cycles never overlap.
func (s *TournamentService) Run(ctx context.Context, interval time.Duration) (bracket.Entrant, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return bracket.Entrant{}, fmt.Errorf("failed to create scheduler: %w", err)
	}
	defer sched.Shutdown()

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			res, err := s.Cycle(ctx)
			switch {
			case errors.Is(err, bracket.ErrStructuralInconsistency), errors.Is(err, ErrNotStarted):
				cancel(err)
			case errors.Is(err, ErrTournamentComplete):
				cancel(errFinished)
			case err != nil:
				if ctx.Err() == nil {
					s.log.Error("cycle failed", "error", err)
				}
			case res.Champion != nil:
				cancel(errFinished)
			default:
				s.log.Debug("cycle done",
					"new_matches", res.NewMatches, "enqueued", res.Enqueued, "pending", res.Pending)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return bracket.Entrant{}, fmt.Errorf("failed to schedule cycle: %w", err)
	}

	sched.Start()
	<-ctx.Done()

	if champion, ok := s.Champion(); ok {
		return champion, nil
	}
	return bracket.Entrant{}, context.Cause(ctx)
}
