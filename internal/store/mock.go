package store

import (
	"sync"

	"github.com/mauv0809/shuttle-stats/internal/badminton"
)

// MockStore is a mock implementation of the MatchStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	AddPlayerFunc              func(p badminton.Player) (int64, error)
	UpdatePlayerFunc           func(p badminton.Player) error
	GetPlayerFunc              func(playerID int64) (*badminton.Player, error)
	GetAllPlayersFunc          func() ([]badminton.Player, error)
	AddTournamentFunc          func(t badminton.Tournament) (int64, error)
	GetTournamentFunc          func(tournamentID int64) (*badminton.Tournament, error)
	UpdateTournamentStatusFunc func(tournamentID int64, status badminton.TournamentStatus) error
	InsertMatchBundleFunc      func(bundle *badminton.MatchBundle) (int64, error)
	CompleteMatchFunc          func(matchID, winnerID int64) (bool, error)
	GetMatchFunc               func(matchID int64) (*badminton.Match, error)
	GetHeadToHeadFunc          func(player1ID, player2ID int64) (*badminton.HeadToHead, error)
	AddRankingSnapshotFunc     func(s badminton.RankingSnapshot) (int64, error)
	GetRankingHistoryFunc      func(playerID int64) ([]badminton.RankingSnapshot, error)

	// Call records
	InsertMatchBundleCalls []*badminton.MatchBundle
	CompleteMatchCalls     []struct{ MatchID, WinnerID int64 }
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) AddPlayer(p badminton.Player) (int64, error) {
	if m.AddPlayerFunc != nil {
		return m.AddPlayerFunc(p)
	}
	return 0, nil
}

func (m *MockStore) UpdatePlayer(p badminton.Player) error {
	if m.UpdatePlayerFunc != nil {
		return m.UpdatePlayerFunc(p)
	}
	return nil
}

func (m *MockStore) GetPlayer(playerID int64) (*badminton.Player, error) {
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(playerID)
	}
	return nil, ErrNotFound
}

func (m *MockStore) GetAllPlayers() ([]badminton.Player, error) {
	if m.GetAllPlayersFunc != nil {
		return m.GetAllPlayersFunc()
	}
	return nil, nil
}

func (m *MockStore) AddTournament(t badminton.Tournament) (int64, error) {
	if m.AddTournamentFunc != nil {
		return m.AddTournamentFunc(t)
	}
	return 0, nil
}

func (m *MockStore) GetTournament(tournamentID int64) (*badminton.Tournament, error) {
	if m.GetTournamentFunc != nil {
		return m.GetTournamentFunc(tournamentID)
	}
	return nil, ErrNotFound
}

func (m *MockStore) UpdateTournamentStatus(tournamentID int64, status badminton.TournamentStatus) error {
	if m.UpdateTournamentStatusFunc != nil {
		return m.UpdateTournamentStatusFunc(tournamentID, status)
	}
	return nil
}

func (m *MockStore) InsertMatchBundle(bundle *badminton.MatchBundle) (int64, error) {
	m.mu.Lock()
	m.InsertMatchBundleCalls = append(m.InsertMatchBundleCalls, bundle)
	m.mu.Unlock()
	if m.InsertMatchBundleFunc != nil {
		return m.InsertMatchBundleFunc(bundle)
	}
	return 0, nil
}

func (m *MockStore) CompleteMatch(matchID, winnerID int64) (bool, error) {
	m.mu.Lock()
	m.CompleteMatchCalls = append(m.CompleteMatchCalls, struct{ MatchID, WinnerID int64 }{matchID, winnerID})
	m.mu.Unlock()
	if m.CompleteMatchFunc != nil {
		return m.CompleteMatchFunc(matchID, winnerID)
	}
	return true, nil
}

func (m *MockStore) GetMatch(matchID int64) (*badminton.Match, error) {
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(matchID)
	}
	return nil, ErrNotFound
}

func (m *MockStore) GetHeadToHead(player1ID, player2ID int64) (*badminton.HeadToHead, error) {
	if m.GetHeadToHeadFunc != nil {
		return m.GetHeadToHeadFunc(player1ID, player2ID)
	}
	return nil, ErrNotFound
}

func (m *MockStore) AddRankingSnapshot(s badminton.RankingSnapshot) (int64, error) {
	if m.AddRankingSnapshotFunc != nil {
		return m.AddRankingSnapshotFunc(s)
	}
	return 0, nil
}

func (m *MockStore) GetRankingHistory(playerID int64) ([]badminton.RankingSnapshot, error) {
	if m.GetRankingHistoryFunc != nil {
		return m.GetRankingHistoryFunc(playerID)
	}
	return nil, nil
}
