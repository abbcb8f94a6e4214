package store

import "github.com/mauv0809/shuttle-stats/internal/badminton"

// MatchStore defines the interface for all durable match data operations:
// entity writes, the atomic match-bundle ingestion path, the head-to-head
// maintenance fired on match completion, and the entity reads the query
// layer builds on.
type MatchStore interface {
	AddPlayer(p badminton.Player) (int64, error)
	UpdatePlayer(p badminton.Player) error
	GetPlayer(playerID int64) (*badminton.Player, error)
	GetAllPlayers() ([]badminton.Player, error)

	AddTournament(t badminton.Tournament) (int64, error)
	GetTournament(tournamentID int64) (*badminton.Tournament, error)
	UpdateTournamentStatus(tournamentID int64, status badminton.TournamentStatus) error

	InsertMatchBundle(bundle *badminton.MatchBundle) (int64, error)
	CompleteMatch(matchID, winnerID int64) (bool, error)
	GetMatch(matchID int64) (*badminton.Match, error)

	GetHeadToHead(player1ID, player2ID int64) (*badminton.HeadToHead, error)

	AddRankingSnapshot(s badminton.RankingSnapshot) (int64, error)
	GetRankingHistory(playerID int64) ([]badminton.RankingSnapshot, error)
}
