package bracket

type GameStatus string

const (
	GameQueued   GameStatus = "queued"
	GamePlaying  GameStatus = "playing"
	GameFinished GameStatus = "finished"
	GameFailed   GameStatus = "failed"
)

// Game is a read-only snapshot of an arena game. WinnerID refers to the
// winning submission and stays nil until the game is finished.
type Game struct {
	ID       int64      `db:"id"`
	Status   GameStatus `db:"status"`
	WinnerID *int64     `db:"winner_id"`
	LogURL   *string    `db:"log_url"`
}

// Counts reports whether the game occupies one of the match's best-of slots.
func (g Game) Counts() bool {
	switch g.Status {
	case GameQueued, GamePlaying, GameFinished:
		return true
	}
	return false
}

func (g Game) Finished() bool {
	return g.Status == GameFinished
}
