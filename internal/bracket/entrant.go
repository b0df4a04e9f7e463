package bracket

import (
	"fmt"
	"time"
)

// ByeID is reserved for the bye sentinel and never read from the arena.
const ByeID int64 = -1

// Entrant is either a real submission or the bye sentinel. The zero value is
// a real entrant with id 0; use Bye() for the sentinel.
type Entrant struct {
	ID        int64      `db:"id"`
	Name      string     `db:"name"`
	Version   int        `db:"version"`
	Status    string     `db:"status"`
	CreatedAt *time.Time `db:"created_at"`

	bye bool
}

func Bye() Entrant {
	return Entrant{ID: ByeID, Name: "BYE", Version: -1, Status: "BYE", bye: true}
}

func (e Entrant) IsBye() bool {
	return e.bye
}

// Same reports whether both values denote the same competitor. Two byes are
// the same, a bye never matches a real entrant.
func (e Entrant) Same(other Entrant) bool {
	if e.bye || other.bye {
		return e.bye == other.bye
	}
	return e.ID == other.ID
}

// key identifies the entrant in tallies.
func (e Entrant) key() int64 {
	if e.bye {
		return ByeID
	}
	return e.ID
}

func (e Entrant) String() string {
	if e.bye {
		return e.Name
	}
	return fmt.Sprintf("%s_%d", e.Name, e.ID)
}
