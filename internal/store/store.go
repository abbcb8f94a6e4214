package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/shuttle-stats/internal/badminton"
	"github.com/vmihailenco/msgpack/v5"
)

// store handles all database operations for match data.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new MatchStore.
func New(db *sql.DB) MatchStore {
	return &store{db: db}
}

func (s *store) AddPlayer(p badminton.Player) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := p.Validate(); err != nil {
		return 0, integrityErr("player: %v", err)
	}
	now := time.Now().Unix()
	res, err := s.db.Exec(`
		INSERT INTO players (first_name, last_name, nationality, birth_date, gender,
			height_cm, weight_kg, dominant_hand, world_ranking, created, updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.FirstName, p.LastName, p.Nationality, nullString(p.BirthDate), p.Gender,
		p.HeightCM, p.WeightKG, p.DominantHand, p.WorldRanking, now, now)
	if err != nil {
		return 0, classify(err)
	}
	return res.LastInsertId()
}

// UpdatePlayer rewrites the mutable player fields and bumps the updated
// timestamp. Players are never deleted.
func (s *store) UpdatePlayer(p badminton.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := p.Validate(); err != nil {
		return integrityErr("player: %v", err)
	}
	res, err := s.db.Exec(`
		UPDATE players SET first_name = ?, last_name = ?, nationality = ?, birth_date = ?,
			gender = ?, height_cm = ?, weight_kg = ?, dominant_hand = ?, world_ranking = ?,
			updated = ?
		WHERE player_id = ?`,
		p.FirstName, p.LastName, p.Nationality, nullString(p.BirthDate),
		p.Gender, p.HeightCM, p.WeightKG, p.DominantHand, p.WorldRanking,
		time.Now().Unix(), p.ID)
	if err != nil {
		return classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("player %d: %w", p.ID, ErrNotFound)
	}
	return nil
}

func (s *store) GetPlayer(playerID int64) (*badminton.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT player_id, first_name, last_name, nationality, birth_date, gender,
			height_cm, weight_kg, dominant_hand, world_ranking, created, updated
		FROM players WHERE player_id = ?`, playerID)
	return scanPlayer(row)
}

func (s *store) GetAllPlayers() ([]badminton.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT player_id, first_name, last_name, nationality, birth_date, gender,
			height_cm, weight_kg, dominant_hand, world_ranking, created, updated
		FROM players ORDER BY last_name, first_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []badminton.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

func (s *store) AddTournament(t badminton.Tournament) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := t.Validate(); err != nil {
		return 0, integrityErr("tournament: %v", err)
	}
	res, err := s.db.Exec(`
		INSERT INTO tournaments (tournament_name, location, country, tournament_type,
			surface, prize_money, start_date, end_date, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Name, t.Location, t.Country, t.Tier, t.Surface, t.PrizeMoney,
		t.StartDate, t.EndDate, t.Status)
	if err != nil {
		return 0, classify(err)
	}
	return res.LastInsertId()
}

func (s *store) GetTournament(tournamentID int64) (*badminton.Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var t badminton.Tournament
	var country sql.NullString
	err := s.db.QueryRow(`
		SELECT tournament_id, tournament_name, location, country, tournament_type,
			surface, prize_money, start_date, end_date, status
		FROM tournaments WHERE tournament_id = ?`, tournamentID).Scan(
		&t.ID, &t.Name, &t.Location, &country, &t.Tier, &t.Surface,
		&t.PrizeMoney, &t.StartDate, &t.EndDate, &t.Status)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("tournament %d: %w", tournamentID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	t.Country = country.String
	return &t, nil
}

func (s *store) UpdateTournamentStatus(tournamentID int64, status badminton.TournamentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !status.Valid() {
		return integrityErr("invalid tournament status %q", status)
	}
	res, err := s.db.Exec("UPDATE tournaments SET status = ? WHERE tournament_id = ?", status, tournamentID)
	if err != nil {
		return classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("tournament %d: %w", tournamentID, ErrNotFound)
	}
	return nil
}

// InsertMatchBundle writes a match and all its dependent rows as a single
// transaction. Any constraint violation rolls the whole bundle back. If the
// bundle arrives already COMPLETED with a winner, the head-to-head record is
// folded in before the commit.
func (s *store) InsertMatchBundle(bundle *badminton.MatchBundle) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := bundle.Validate(); err != nil {
		return 0, integrityErr("%v", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	m := bundle.Match
	var conditionsBlob []byte
	if m.Conditions != nil {
		conditionsBlob, err = msgpack.Marshal(m.Conditions)
		if err != nil {
			return 0, fmt.Errorf("failed to encode match conditions: %w", err)
		}
	}

	res, err := tx.Exec(`
		INSERT INTO matches (tournament_id, match_date, match_time, round, court,
			discipline, best_of, duration_minutes, winner_id, status, conditions_blob)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.TournamentID, m.Date, nullString(m.Time), m.Round, nullString(m.Court),
		m.Discipline, m.BestOf, m.DurationMinutes, m.WinnerID, m.Status, conditionsBlob)
	if err != nil {
		return 0, classify(err)
	}
	matchID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, p := range bundle.Participants {
		_, err := tx.Exec(`
			INSERT INTO match_participants (match_id, player_id, partner_id, team_position, is_winner)
			VALUES (?, ?, ?, ?, ?)`,
			matchID, p.PlayerID, p.PartnerID, p.TeamPosition, p.IsWinner)
		if err != nil {
			return 0, classify(err)
		}
	}

	gameIDs := make(map[int]int64, len(bundle.Games))
	for _, g := range bundle.Games {
		res, err := tx.Exec(`
			INSERT INTO games (match_id, game_number, team1_score, team2_score,
				winner_team, duration_minutes, max_rally_length)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			matchID, g.GameNumber, g.Team1Score, g.Team2Score,
			g.WinnerTeam, g.DurationMinutes, g.MaxRallyLength)
		if err != nil {
			return 0, classify(err)
		}
		gameID, err := res.LastInsertId()
		if err != nil {
			return 0, err
		}
		gameIDs[g.GameNumber] = gameID
	}

	for _, r := range bundle.Rallies {
		_, err := tx.Exec(`
			INSERT INTO rally_stats (game_id, server_id, receiver_id, shot_count,
				winning_shot, winner_player_id)
			VALUES (?, ?, ?, ?, ?, ?)`,
			gameIDs[r.GameNumber], r.ServerID, r.ReceiverID, r.ShotCount,
			r.WinningShot, r.WinnerPlayerID)
		if err != nil {
			return 0, classify(err)
		}
	}

	for _, st := range bundle.Statistics {
		_, err := tx.Exec(`
			INSERT INTO match_statistics (match_id, player_id, total_serves, service_aces,
				service_faults, short_serves, long_serves, flick_serves, total_shots,
				winners, unforced_errors, forced_errors, smashes, clears, drops, drives,
				net_shots, lobs, kills, net_points_won, net_points_played,
				backcourt_points_won, backcourt_points_played, short_rallies_won,
				medium_rallies_won, long_rallies_won, short_rallies_played,
				medium_rallies_played, long_rallies_played, points_won, points_played)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			matchID, st.PlayerID, st.TotalServes, st.ServiceAces, st.ServiceFaults,
			st.ShortServes, st.LongServes, st.FlickServes, st.TotalShots, st.Winners,
			st.UnforcedErrors, st.ForcedErrors, st.Smashes, st.Clears, st.Drops,
			st.Drives, st.NetShots, st.Lobs, st.Kills, st.NetPointsWon, st.NetPointsPlayed,
			st.BackcourtPointsWon, st.BackcourtPointsPlayed, st.ShortRalliesWon,
			st.MediumRalliesWon, st.LongRalliesWon, st.ShortRalliesPlayed,
			st.MediumRalliesPlayed, st.LongRalliesPlayed, st.PointsWon, st.PointsPlayed)
		if err != nil {
			return 0, classify(err)
		}
	}

	if m.Status == badminton.MatchCompleted && m.WinnerID != nil {
		if _, err := s.applyHeadToHead(tx, matchID, m.Date, bundle.Participants, *m.WinnerID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, classify(err)
	}
	log.Debug("Inserted match bundle", "matchID", matchID, "games", len(bundle.Games), "rallies", len(bundle.Rallies))
	return matchID, nil
}

// CompleteMatch transitions a match into COMPLETED with the given winner and
// folds the result into the head-to-head record. The stored games must
// already show the declared best-of majority for the winner's team, and the
// match its discipline's participant count. The transition and the
// maintenance share one transaction, and the update is keyed by match id, so
// a re-delivered completion is a no-op; the return value reports whether this
// call folded the match into the pairwise records.
func (s *store) CompleteMatch(matchID, winnerID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var status badminton.MatchStatus
	var discipline badminton.Discipline
	var matchDate string
	var bestOf int
	var currentWinner sql.NullInt64
	err = tx.QueryRow(`
		SELECT status, discipline, match_date, best_of, winner_id
		FROM matches WHERE match_id = ?`, matchID).
		Scan(&status, &discipline, &matchDate, &bestOf, &currentWinner)
	if err == sql.ErrNoRows {
		return false, fmt.Errorf("match %d: %w", matchID, ErrNotFound)
	}
	if err != nil {
		return false, err
	}
	switch status {
	case badminton.MatchScheduled, badminton.MatchInProgress:
		// The transition we maintain on.
	case badminton.MatchCompleted:
		// Re-delivery, or a completed match ingested without its winner
		// recorded. The winner may be filled in but never changed.
		if currentWinner.Valid && currentWinner.Int64 != winnerID {
			return false, integrityErr("match %d already completed with winner %d", matchID, currentWinner.Int64)
		}
	default:
		return false, integrityErr("match %d cannot complete from status %s", matchID, status)
	}

	participants, err := loadParticipants(tx, matchID)
	if err != nil {
		return false, err
	}
	want := 2
	if discipline.IsDoubles() {
		want = 4
	}
	if len(participants) != want {
		return false, integrityErr("completed %s match requires %d participants, got %d", discipline, want, len(participants))
	}
	winnerTeam := 0
	for _, p := range participants {
		if p.PlayerID == winnerID {
			winnerTeam = p.TeamPosition
		}
	}
	if winnerTeam == 0 {
		return false, integrityErr("winner %d is not a participant of match %d", winnerID, matchID)
	}

	var winnerGames, loserGames int
	err = tx.QueryRow(`
		SELECT COALESCE(SUM(winner_team = ?), 0), COALESCE(SUM(winner_team != ?), 0)
		FROM games WHERE match_id = ?`, winnerTeam, winnerTeam, matchID).
		Scan(&winnerGames, &loserGames)
	if err != nil {
		return false, err
	}
	majority := bestOf/2 + 1
	if winnerGames != majority || loserGames >= majority {
		return false, integrityErr("match %d games stand %d-%d for team %d, best-of-%d majority is %d",
			matchID, winnerGames, loserGames, winnerTeam, bestOf, majority)
	}

	if _, err := tx.Exec("UPDATE matches SET status = ?, winner_id = ? WHERE match_id = ?",
		badminton.MatchCompleted, winnerID, matchID); err != nil {
		return false, classify(err)
	}
	if _, err := tx.Exec("UPDATE match_participants SET is_winner = (team_position = ?) WHERE match_id = ?",
		winnerTeam, matchID); err != nil {
		return false, classify(err)
	}

	applied, err := s.applyHeadToHead(tx, matchID, matchDate, participants, winnerID)
	if err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, classify(err)
	}
	return applied, nil
}

func (s *store) GetMatch(matchID int64) (*badminton.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT match_id, tournament_id, match_date, match_time, round, court,
			discipline, best_of, duration_minutes, winner_id, status, conditions_blob
		FROM matches WHERE match_id = ?`, matchID)
	return scanMatch(row)
}

func (s *store) AddRankingSnapshot(snap badminton.RankingSnapshot) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := badminton.ParseDate(snap.Date); err != nil {
		return 0, integrityErr("invalid snapshot date %q", snap.Date)
	}
	res, err := s.db.Exec(`
		INSERT INTO ranking_snapshots (player_id, snapshot_date, world_ranking, points)
		VALUES (?, ?, ?, ?)`,
		snap.PlayerID, snap.Date, snap.WorldRanking, snap.Points)
	if err != nil {
		return 0, classify(err)
	}
	return res.LastInsertId()
}

func (s *store) GetRankingHistory(playerID int64) ([]badminton.RankingSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT snapshot_id, player_id, snapshot_date, world_ranking, points
		FROM ranking_snapshots WHERE player_id = ? ORDER BY snapshot_date`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []badminton.RankingSnapshot
	for rows.Next() {
		var sn badminton.RankingSnapshot
		if err := rows.Scan(&sn.ID, &sn.PlayerID, &sn.Date, &sn.WorldRanking, &sn.Points); err != nil {
			return nil, err
		}
		snaps = append(snaps, sn)
	}
	return snaps, rows.Err()
}

type scanner interface{ Scan(...any) error }

func scanPlayer(row scanner) (*badminton.Player, error) {
	var p badminton.Player
	var birthDate sql.NullString
	var height, weight, ranking sql.NullInt64
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Nationality, &birthDate,
		&p.Gender, &height, &weight, &p.DominantHand, &ranking, &p.Created, &p.Updated)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("player: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	p.BirthDate = birthDate.String
	p.HeightCM = nullableInt(height)
	p.WeightKG = nullableInt(weight)
	p.WorldRanking = nullableInt(ranking)
	return &p, nil
}

func nullableInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func scanMatch(row scanner) (*badminton.Match, error) {
	var m badminton.Match
	var matchTime, court sql.NullString
	var duration sql.NullInt64
	var conditionsBlob []byte
	err := row.Scan(&m.ID, &m.TournamentID, &m.Date, &matchTime, &m.Round, &court,
		&m.Discipline, &m.BestOf, &duration, &m.WinnerID, &m.Status, &conditionsBlob)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("match: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	m.Time = matchTime.String
	m.Court = court.String
	m.DurationMinutes = int(duration.Int64)
	if len(conditionsBlob) > 0 {
		var c badminton.MatchConditions
		if err := msgpack.Unmarshal(conditionsBlob, &c); err != nil {
			log.Error("Failed to decode conditions blob", "matchID", m.ID, "error", err)
		} else {
			m.Conditions = &c
		}
	}
	return &m, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
