package publish

import (
	"context"
	"log/slog"

	"github.com/AdamBeresnev/tournament-scheduler/internal/service"
)

// LogNotifier announces the champion through slog.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) NotifyChampion(ctx context.Context, c service.Completion) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "winner declared",
		"run", c.RunID.String(),
		"game", c.GameName,
		"winner", c.Champion.Name,
		"submission", c.Champion.ID,
		"version", c.Champion.Version,
		"nodes", c.Bracket.Len(),
	)
	return nil
}
