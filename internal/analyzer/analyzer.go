// Package analyzer derives player-level metrics from raw match rows. All
// operations are read-only and recomputed on demand; the analyzer holds no
// derived state, so its output can never drift from the store.
package analyzer

import (
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/mauv0809/shuttle-stats/internal/store"
)

// ErrInvalidMetric is returned when a ranking is requested for a metric name
// outside the closed set.
var ErrInvalidMetric = errors.New("invalid metric")

// ErrNotFound aliases the store's sentinel so callers can match either way.
var ErrNotFound = store.ErrNotFound

// Analyzer computes aggregations over the match database.
type Analyzer struct {
	db *sql.DB
}

// New creates an Analyzer over the given database handle.
func New(db *sql.DB) *Analyzer {
	return &Analyzer{db: db}
}

// playerAggregate is the summed counter set one player's metrics derive from.
type playerAggregate struct {
	playerID     int64
	name         string
	nationality  string
	matches      int
	wins         int
	pointsWon    int
	pointsPlayed int
	winners      int
	unforced     int
	aces         int
	faults       int
	serves       int
	netWon       int
	netPlayed    int
	smashes      int
	clears       int
	drops        int
	drives       int
	netShots     int
	lobs         int
	kills        int
	totalShots   int
	shortPlayed  int
	shortWon     int
	mediumPlayed int
	mediumWon    int
	longPlayed   int
	longWon      int
}

// aggregateQuery sums match statistics per player over completed matches,
// optionally restricted by filter. Extra WHERE fragments (and their args)
// let callers scope to one player or a minimum match count.
const aggregateQuery = `
	SELECT
		p.player_id,
		p.first_name || ' ' || p.last_name,
		p.nationality,
		COUNT(DISTINCT m.match_id),
		COALESCE(SUM(mp.is_winner), 0),
		COALESCE(SUM(ms.points_won), 0),
		COALESCE(SUM(ms.points_played), 0),
		COALESCE(SUM(ms.winners), 0),
		COALESCE(SUM(ms.unforced_errors), 0),
		COALESCE(SUM(ms.service_aces), 0),
		COALESCE(SUM(ms.service_faults), 0),
		COALESCE(SUM(ms.total_serves), 0),
		COALESCE(SUM(ms.net_points_won), 0),
		COALESCE(SUM(ms.net_points_played), 0),
		COALESCE(SUM(ms.smashes), 0),
		COALESCE(SUM(ms.clears), 0),
		COALESCE(SUM(ms.drops), 0),
		COALESCE(SUM(ms.drives), 0),
		COALESCE(SUM(ms.net_shots), 0),
		COALESCE(SUM(ms.lobs), 0),
		COALESCE(SUM(ms.kills), 0),
		COALESCE(SUM(ms.total_shots), 0),
		COALESCE(SUM(ms.short_rallies_played), 0),
		COALESCE(SUM(ms.short_rallies_won), 0),
		COALESCE(SUM(ms.medium_rallies_played), 0),
		COALESCE(SUM(ms.medium_rallies_won), 0),
		COALESCE(SUM(ms.long_rallies_played), 0),
		COALESCE(SUM(ms.long_rallies_won), 0)
	FROM players p
	JOIN match_participants mp ON p.player_id = mp.player_id
	JOIN matches m ON mp.match_id = m.match_id AND m.status = 'COMPLETED'
	LEFT JOIN match_statistics ms ON ms.match_id = m.match_id AND ms.player_id = p.player_id
	WHERE 1 = 1`

func filterClause(f Filter) (string, []any) {
	clause := ""
	var args []any
	if f.TournamentID != 0 {
		clause += " AND m.tournament_id = ?"
		args = append(args, f.TournamentID)
	}
	if f.Discipline != "" {
		clause += " AND m.discipline = ?"
		args = append(args, f.Discipline)
	}
	if f.FromDate != "" {
		clause += " AND m.match_date >= ?"
		args = append(args, f.FromDate)
	}
	if f.ToDate != "" {
		clause += " AND m.match_date <= ?"
		args = append(args, f.ToDate)
	}
	return clause, args
}

func scanAggregate(row interface{ Scan(...any) error }) (*playerAggregate, error) {
	var a playerAggregate
	err := row.Scan(&a.playerID, &a.name, &a.nationality, &a.matches, &a.wins,
		&a.pointsWon, &a.pointsPlayed, &a.winners, &a.unforced, &a.aces, &a.faults,
		&a.serves, &a.netWon, &a.netPlayed, &a.smashes, &a.clears, &a.drops,
		&a.drives, &a.netShots, &a.lobs, &a.kills, &a.totalShots,
		&a.shortPlayed, &a.shortWon, &a.mediumPlayed, &a.mediumWon, &a.longPlayed, &a.longWon)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// aggregate sums one player's counters over the filtered match set.
func (a *Analyzer) aggregate(playerID int64, f Filter) (*playerAggregate, error) {
	clause, args := filterClause(f)
	query := aggregateQuery + " AND p.player_id = ?" + clause + " GROUP BY p.player_id"
	args = append([]any{playerID}, args...)

	agg, err := scanAggregate(a.db.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		// The player may exist with no completed matches; distinguish
		// that from an unknown id.
		var exists bool
		if err := a.db.QueryRow("SELECT EXISTS(SELECT 1 FROM players WHERE player_id = ?)", playerID).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("player %d: %w", playerID, ErrNotFound)
		}
		return &playerAggregate{playerID: playerID}, nil
	}
	if err != nil {
		return nil, err
	}
	return agg, nil
}

// intValue unwraps a nullable column into the pointer form the domain types
// use for optional attributes.
func intValue(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ratio divides num by den, returning nil when the denominator is zero:
// a missing denominator means "no data", never 0 and never a fault.
func ratio(num, den int) *float64 {
	if den == 0 {
		return nil
	}
	v := round2(float64(num) / float64(den))
	return &v
}

// pct is ratio scaled to a percentage.
func pct(num, den int) *float64 {
	if den == 0 {
		return nil
	}
	v := round2(float64(num) / float64(den) * 100)
	return &v
}
