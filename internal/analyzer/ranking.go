package analyzer

import (
	"fmt"
	"sort"

	"github.com/mauv0809/shuttle-stats/internal/badminton"
)

// Metric names accepted by TopPerformers. The set is closed: unknown names
// are rejected with ErrInvalidMetric, never silently defaulted.
const (
	MetricWinPercentage      = "win_percentage"
	MetricPointsWonPct       = "points_won_percentage"
	MetricWinnerToErrorRatio = "winner_to_error_ratio"
	MetricAcePercentage      = "ace_percentage"
	MetricTotalMatches       = "total_matches"
)

// metricFuncs maps each metric name to its derivation. A nil result means
// the metric is undefined for that player and excludes them from rankings.
var metricFuncs = map[string]func(*playerAggregate) *float64{
	MetricWinPercentage: func(a *playerAggregate) *float64 { return pct(a.wins, a.matches) },
	MetricPointsWonPct:  func(a *playerAggregate) *float64 { return pct(a.pointsWon, a.pointsPlayed) },
	MetricWinnerToErrorRatio: func(a *playerAggregate) *float64 {
		return ratio(a.winners, a.unforced)
	},
	MetricAcePercentage: func(a *playerAggregate) *float64 { return pct(a.aces, a.serves) },
	MetricTotalMatches: func(a *playerAggregate) *float64 {
		v := float64(a.matches)
		return &v
	},
}

// Metrics returns the accepted metric names, sorted.
func Metrics() []string {
	names := make([]string, 0, len(metricFuncs))
	for name := range metricFuncs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TopPerformers ranks players by the given metric. Players with fewer than
// minMatches completed matches, or for whom the metric is undefined, are
// excluded. Ordering is metric descending with ties broken by ascending
// player id, so the ranking is reproducible.
func (a *Analyzer) TopPerformers(metric string, limit, minMatches int) ([]RankedPlayer, error) {
	derive, ok := metricFuncs[metric]
	if !ok {
		return nil, fmt.Errorf("%w: %q (choose from %v)", ErrInvalidMetric, metric, Metrics())
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := a.db.Query(aggregateQuery + " GROUP BY p.player_id HAVING COUNT(DISTINCT m.match_id) >= ?", minMatches)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ranked []RankedPlayer
	for rows.Next() {
		agg, err := scanAggregate(rows)
		if err != nil {
			return nil, err
		}
		value := derive(agg)
		if value == nil {
			continue
		}
		ranked = append(ranked, RankedPlayer{
			PlayerID:      agg.playerID,
			PlayerName:    agg.name,
			Nationality:   agg.nationality,
			MatchesPlayed: agg.matches,
			MatchesWon:    agg.wins,
			WinPercentage: pct(agg.wins, agg.matches),
			MetricValue:   *value,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].MetricValue != ranked[j].MetricValue {
			return ranked[i].MetricValue > ranked[j].MetricValue
		}
		return ranked[i].PlayerID < ranked[j].PlayerID
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// ComparePlayers returns the full aggregated profile for each supplied id
// plus the head-to-head records among the supplied set.
func (a *Analyzer) ComparePlayers(playerIDs []int64) (*Comparison, error) {
	if len(playerIDs) < 2 {
		return nil, fmt.Errorf("at least 2 players required for comparison, got %d", len(playerIDs))
	}

	cmp := &Comparison{}
	for _, id := range playerIDs {
		agg, err := a.aggregate(id, Filter{})
		if err != nil {
			return nil, err
		}
		profile, err := a.PlayerProfile(id)
		if err != nil {
			return nil, err
		}
		rally := ralliesFromAggregate(agg)
		cmp.Players = append(cmp.Players, PlayerComparison{
			PlayerID:             id,
			Name:                 profile.Player.FullName(),
			Nationality:          profile.Player.Nationality,
			WorldRanking:         profile.Player.WorldRanking,
			MatchesPlayed:        agg.matches,
			WinPercentage:        pct(agg.wins, agg.matches),
			PointsWonPercentage:  pct(agg.pointsWon, agg.pointsPlayed),
			WinnerToErrorRatio:   ratio(agg.winners, agg.unforced),
			AcePercentage:        pct(agg.aces, agg.serves),
			PreferredRallyLength: rally.PreferredLength,
			ShotDistribution:     *shotsFromAggregate(agg),
		})
	}

	for i := 0; i < len(playerIDs); i++ {
		for j := i + 1; j < len(playerIDs); j++ {
			h, err := a.headToHead(playerIDs[i], playerIDs[j])
			if err != nil {
				return nil, err
			}
			if h != nil {
				cmp.HeadToHead = append(cmp.HeadToHead, *h)
			}
		}
	}
	return cmp, nil
}

// headToHead reads one pairwise record, or nil when the pair never met.
func (a *Analyzer) headToHead(p1, p2 int64) (*badminton.HeadToHead, error) {
	lo, hi := p1, p2
	if hi < lo {
		lo, hi = hi, lo
	}
	rows, err := a.db.Query(`
		SELECT player1_id, player2_id, matches_played, player1_wins, player2_wins,
			COALESCE(last_match_id, 0), COALESCE(last_match_date, '')
		FROM head_to_head WHERE player1_id = ? AND player2_id = ?`, lo, hi)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	var h badminton.HeadToHead
	if err := rows.Scan(&h.Player1ID, &h.Player2ID, &h.MatchesPlayed,
		&h.Player1Wins, &h.Player2Wins, &h.LastMatchID, &h.LastMatchDate); err != nil {
		return nil, err
	}
	return &h, nil
}
