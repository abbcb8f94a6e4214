package analyzer

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/shuttle-stats/internal/badminton"
	"github.com/vmihailenco/msgpack/v5"
)

// MatchInsights returns the full detail view of one match: the match row with
// tournament context, its participants, games, and per-player statistics.
func (a *Analyzer) MatchInsights(matchID int64) (*MatchInsights, error) {
	var mi MatchInsights
	var matchTime, court sql.NullString
	var duration sql.NullInt64
	var conditionsBlob []byte
	err := a.db.QueryRow(`
		SELECT m.match_id, m.tournament_id, m.match_date, m.match_time, m.round,
			m.court, m.discipline, m.best_of, m.duration_minutes, m.winner_id,
			m.status, m.conditions_blob,
			t.tournament_name, t.location, t.tournament_type
		FROM matches m
		JOIN tournaments t ON m.tournament_id = t.tournament_id
		WHERE m.match_id = ?`, matchID).Scan(
		&mi.Match.ID, &mi.Match.TournamentID, &mi.Match.Date, &matchTime,
		&mi.Match.Round, &court, &mi.Match.Discipline, &mi.Match.BestOf,
		&duration, &mi.Match.WinnerID, &mi.Match.Status, &conditionsBlob,
		&mi.TournamentName, &mi.Location, &mi.Tier)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("match %d: %w", matchID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	mi.Match.Time = matchTime.String
	mi.Match.Court = court.String
	mi.Match.DurationMinutes = int(duration.Int64)
	if len(conditionsBlob) > 0 {
		var c badminton.MatchConditions
		if err := msgpack.Unmarshal(conditionsBlob, &c); err != nil {
			log.Error("Failed to decode conditions blob", "matchID", matchID, "error", err)
		} else {
			mi.Match.Conditions = &c
		}
	}

	if mi.Players, err = a.matchParticipants(matchID); err != nil {
		return nil, err
	}
	if mi.Games, err = a.matchGames(matchID); err != nil {
		return nil, err
	}
	if mi.Statistics, err = a.matchStatistics(matchID); err != nil {
		return nil, err
	}
	return &mi, nil
}

func (a *Analyzer) matchParticipants(matchID int64) ([]ParticipantInfo, error) {
	rows, err := a.db.Query(`
		SELECT mp.participant_id, mp.match_id, mp.player_id, mp.partner_id,
			mp.team_position, mp.is_winner,
			p.first_name || ' ' || p.last_name, p.nationality, p.world_ranking
		FROM match_participants mp
		JOIN players p ON mp.player_id = p.player_id
		WHERE mp.match_id = ?
		ORDER BY mp.team_position, mp.player_id`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []ParticipantInfo
	for rows.Next() {
		var pi ParticipantInfo
		var ranking sql.NullInt64
		if err := rows.Scan(&pi.ID, &pi.MatchID, &pi.PlayerID, &pi.PartnerID,
			&pi.TeamPosition, &pi.IsWinner, &pi.PlayerName, &pi.Nationality, &ranking); err != nil {
			return nil, err
		}
		if ranking.Valid {
			r := int(ranking.Int64)
			pi.WorldRanking = &r
		}
		participants = append(participants, pi)
	}
	return participants, rows.Err()
}

func (a *Analyzer) matchGames(matchID int64) ([]badminton.Game, error) {
	rows, err := a.db.Query(`
		SELECT game_id, match_id, game_number, team1_score, team2_score,
			winner_team, COALESCE(duration_minutes, 0), COALESCE(max_rally_length, 0)
		FROM games WHERE match_id = ? ORDER BY game_number`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []badminton.Game
	for rows.Next() {
		var g badminton.Game
		if err := rows.Scan(&g.ID, &g.MatchID, &g.GameNumber, &g.Team1Score,
			&g.Team2Score, &g.WinnerTeam, &g.DurationMinutes, &g.MaxRallyLength); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

func (a *Analyzer) matchStatistics(matchID int64) ([]PlayerMatchStats, error) {
	rows, err := a.db.Query(`
		SELECT ms.stat_id, ms.match_id, ms.player_id, ms.total_serves, ms.service_aces,
			ms.service_faults, ms.short_serves, ms.long_serves, ms.flick_serves,
			ms.total_shots, ms.winners, ms.unforced_errors, ms.forced_errors,
			ms.smashes, ms.clears, ms.drops, ms.drives, ms.net_shots, ms.lobs, ms.kills,
			ms.net_points_won, ms.net_points_played, ms.backcourt_points_won,
			ms.backcourt_points_played, ms.short_rallies_won, ms.medium_rallies_won,
			ms.long_rallies_won, ms.short_rallies_played, ms.medium_rallies_played,
			ms.long_rallies_played, ms.points_won, ms.points_played,
			p.first_name || ' ' || p.last_name
		FROM match_statistics ms
		JOIN players p ON ms.player_id = p.player_id
		WHERE ms.match_id = ?
		ORDER BY ms.player_id`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []PlayerMatchStats
	for rows.Next() {
		var s PlayerMatchStats
		if err := rows.Scan(&s.ID, &s.MatchID, &s.PlayerID, &s.TotalServes, &s.ServiceAces,
			&s.ServiceFaults, &s.ShortServes, &s.LongServes, &s.FlickServes,
			&s.TotalShots, &s.Winners, &s.UnforcedErrors, &s.ForcedErrors,
			&s.Smashes, &s.Clears, &s.Drops, &s.Drives, &s.NetShots, &s.Lobs, &s.Kills,
			&s.NetPointsWon, &s.NetPointsPlayed, &s.BackcourtPointsWon,
			&s.BackcourtPointsPlayed, &s.ShortRalliesWon, &s.MediumRalliesWon,
			&s.LongRalliesWon, &s.ShortRalliesPlayed, &s.MediumRalliesPlayed,
			&s.LongRalliesPlayed, &s.PointsWon, &s.PointsPlayed, &s.PlayerName); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// TournamentPerformance summarizes one tournament's completed matches.
func (a *Analyzer) TournamentPerformance(tournamentID int64) (*TournamentPerformance, error) {
	var tp TournamentPerformance
	var country sql.NullString
	var avgDuration sql.NullFloat64
	var longest, shortest sql.NullInt64
	err := a.db.QueryRow(`
		SELECT t.tournament_id, t.tournament_name, t.location, t.country,
			t.tournament_type, t.surface, t.prize_money, t.start_date, t.end_date, t.status,
			COUNT(DISTINCT m.match_id),
			COUNT(DISTINCT mp.player_id),
			AVG(m.duration_minutes),
			MAX(m.duration_minutes),
			MIN(m.duration_minutes)
		FROM tournaments t
		LEFT JOIN matches m ON t.tournament_id = m.tournament_id AND m.status = 'COMPLETED'
		LEFT JOIN match_participants mp ON m.match_id = mp.match_id
		WHERE t.tournament_id = ?
		GROUP BY t.tournament_id`, tournamentID).Scan(
		&tp.Tournament.ID, &tp.Tournament.Name, &tp.Tournament.Location, &country,
		&tp.Tournament.Tier, &tp.Tournament.Surface, &tp.Tournament.PrizeMoney,
		&tp.Tournament.StartDate, &tp.Tournament.EndDate, &tp.Tournament.Status,
		&tp.TotalMatches, &tp.TotalPlayers, &avgDuration, &longest, &shortest)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("tournament %d: %w", tournamentID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	tp.Tournament.Country = country.String
	if avgDuration.Valid {
		v := round2(avgDuration.Float64)
		tp.AvgMatchDuration = &v
	}
	tp.LongestMatch = int(longest.Int64)
	tp.ShortestMatch = int(shortest.Int64)
	return &tp, nil
}
