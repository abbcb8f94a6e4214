package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/shuttle-stats/internal/badminton"
)

// applyHeadToHead folds one completed match into the pairwise records and
// reports whether it did. It runs inside the caller's transaction and
// processes each match at most once: the first statement claims the match id
// in head_to_head_processed, and a re-delivered completion finds the claim
// and leaves the counters untouched.
//
// Head-to-head is tracked per player, not per team: a doubles match updates
// one record for every opposing pair of individuals.
func (s *store) applyHeadToHead(tx *sql.Tx, matchID int64, matchDate string, participants []badminton.MatchParticipant, winnerID int64) (bool, error) {
	res, err := tx.Exec("INSERT OR IGNORE INTO head_to_head_processed (match_id, processed_at) VALUES (?, ?)",
		matchID, time.Now().Unix())
	if err != nil {
		return false, classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		log.Debug("Match already folded into head-to-head, skipping", "matchID", matchID)
		return false, nil
	}

	var side1, side2 []int64
	winnerTeam := 0
	for _, p := range participants {
		if p.TeamPosition == 1 {
			side1 = append(side1, p.PlayerID)
		} else {
			side2 = append(side2, p.PlayerID)
		}
		if p.PlayerID == winnerID {
			winnerTeam = p.TeamPosition
		}
	}
	if winnerTeam == 0 {
		return false, integrityErr("winner %d is not a participant of match %d", winnerID, matchID)
	}

	for _, a := range side1 {
		for _, b := range side2 {
			lo, hi := canonicalPair(a, b)
			loWon := (winnerTeam == 1) == contains(side1, lo)

			p1Wins, p2Wins := 0, 1
			if loWon {
				p1Wins, p2Wins = 1, 0
			}
			_, err := tx.Exec(`
				INSERT INTO head_to_head (player1_id, player2_id, matches_played,
					player1_wins, player2_wins, last_match_id, last_match_date)
				VALUES (?, ?, 1, ?, ?, ?, ?)
				ON CONFLICT(player1_id, player2_id) DO UPDATE SET
					matches_played = matches_played + 1,
					player1_wins = player1_wins + excluded.player1_wins,
					player2_wins = player2_wins + excluded.player2_wins,
					last_match_id = excluded.last_match_id,
					last_match_date = excluded.last_match_date`,
				lo, hi, p1Wins, p2Wins, matchID, matchDate)
			if err != nil {
				return false, classify(err)
			}
		}
	}
	log.Debug("Updated head-to-head records", "matchID", matchID, "pairs", len(side1)*len(side2))
	return true, nil
}

// GetHeadToHead returns the record for an unordered pair. Argument order does
// not matter; the pair is canonicalized before lookup.
func (s *store) GetHeadToHead(player1ID, player2ID int64) (*badminton.HeadToHead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lo, hi := canonicalPair(player1ID, player2ID)
	var h badminton.HeadToHead
	var lastID sql.NullInt64
	var lastDate sql.NullString
	err := s.db.QueryRow(`
		SELECT player1_id, player2_id, matches_played, player1_wins, player2_wins,
			last_match_id, last_match_date
		FROM head_to_head WHERE player1_id = ? AND player2_id = ?`, lo, hi).Scan(
		&h.Player1ID, &h.Player2ID, &h.MatchesPlayed, &h.Player1Wins, &h.Player2Wins,
		&lastID, &lastDate)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("head-to-head %d/%d: %w", lo, hi, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	h.LastMatchID = lastID.Int64
	h.LastMatchDate = lastDate.String
	return &h, nil
}

func loadParticipants(tx *sql.Tx, matchID int64) ([]badminton.MatchParticipant, error) {
	rows, err := tx.Query(`
		SELECT participant_id, match_id, player_id, partner_id, team_position, is_winner
		FROM match_participants WHERE match_id = ?`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []badminton.MatchParticipant
	for rows.Next() {
		var p badminton.MatchParticipant
		if err := rows.Scan(&p.ID, &p.MatchID, &p.PlayerID, &p.PartnerID, &p.TeamPosition, &p.IsWinner); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// canonicalPair orders two player ids so the same unordered pair always maps
// to one storage key.
func canonicalPair(a, b int64) (int64, int64) {
	if a < b {
		return a, b
	}
	return b, a
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
