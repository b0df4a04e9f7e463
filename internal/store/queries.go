package store

// latestEntrantsQuery selects the newest non failed submission of every
// eligible team that has a captain.
const latestEntrantsQuery = `
SELECT s.id, t.name, s.version, s.status, s.created_at
FROM submissions s
INNER JOIN (
    SELECT team_id, MAX(version) AS version
    FROM submissions
    WHERE status != 'failed'
    GROUP BY team_id
) m ON s.team_id = m.team_id AND s.version = m.version
INNER JOIN teams t ON s.team_id = t.id
WHERE t.team_captain_id IS NOT NULL
AND t.is_eligible
AND s.status != 'failed'
ORDER BY s.id`

const gamesByIDQuery = `SELECT id, status, winner_id, log_url FROM games WHERE id IN (?)`

const insertGameQuery = `INSERT INTO games (status) VALUES (?) RETURNING id, status, winner_id, log_url`

const insertSeatsQuery = `INSERT INTO games_submissions (game_id, submission_id) VALUES (?, ?), (?, ?)`
