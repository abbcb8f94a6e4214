package analyzer

import "github.com/mauv0809/shuttle-stats/internal/badminton"

// Filter restricts an aggregation to a subset of completed matches. The zero
// value applies no restriction.
type Filter struct {
	TournamentID int64                `json:"tournament_id,omitempty"`
	Discipline   badminton.Discipline `json:"discipline,omitempty"`
	FromDate     string               `json:"from_date,omitempty"` // YYYY-MM-DD, inclusive
	ToDate       string               `json:"to_date,omitempty"`   // YYYY-MM-DD, inclusive
}

// Ratio metrics are pointers throughout: nil means the denominator was zero
// and there is no data, which is distinct from a true 0.

// PlayerProfile is a player's registration record plus career rollups.
type PlayerProfile struct {
	Player            badminton.Player `json:"player"`
	TotalMatches      int              `json:"total_matches"`
	MatchesWon        int              `json:"matches_won"`
	WinPercentage     *float64         `json:"win_percentage"`
	AvgMatchDuration  *float64         `json:"avg_match_duration"`
	LastMatchDate     string           `json:"last_match_date,omitempty"`
	TournamentsPlayed int              `json:"tournaments_played"`
}

// StatisticsSummary aggregates a player's match statistics.
type StatisticsSummary struct {
	TotalMatches        int      `json:"total_matches"`
	MatchesWon          int      `json:"matches_won"`
	WinPercentage       *float64 `json:"win_percentage"`
	PointsWonPercentage *float64 `json:"points_won_percentage"`
	AcePercentage       *float64 `json:"ace_percentage"`
	FaultPercentage     *float64 `json:"fault_percentage"`
	AvgWinners          *float64 `json:"avg_winners"`
	AvgUnforcedErrors   *float64 `json:"avg_unforced_errors"`
	WinnerToErrorRatio  *float64 `json:"winner_to_error_ratio"`
	NetPointsPercentage *float64 `json:"net_points_percentage"`
	TotalSmashes        int      `json:"total_smashes"`
	TotalClears         int      `json:"total_clears"`
	TotalDrops          int      `json:"total_drops"`
	TotalNetShots       int      `json:"total_net_shots"`
}

// ShotDistribution is the share of each shot type over all shots recorded.
type ShotDistribution struct {
	TotalMatches       int      `json:"total_matches"`
	TotalShots         int      `json:"total_shots"`
	SmashPercentage    *float64 `json:"smash_percentage"`
	ClearPercentage    *float64 `json:"clear_percentage"`
	DropPercentage     *float64 `json:"drop_percentage"`
	DrivePercentage    *float64 `json:"drive_percentage"`
	NetShotPercentage  *float64 `json:"net_shot_percentage"`
	LobPercentage      *float64 `json:"lob_percentage"`
	KillPercentage     *float64 `json:"kill_percentage"`
	TotalWinners       int      `json:"total_winners"`
	TotalUnforced      int      `json:"total_unforced_errors"`
	WinnerToErrorRatio *float64 `json:"winner_to_error_ratio"`
}

// RallyBucket is the played/won record for one rally-length bucket.
type RallyBucket struct {
	Played  int      `json:"played"`
	Won     int      `json:"won"`
	WinRate *float64 `json:"win_rate"`
}

// RallyLengthAnalysis breaks performance down by rally length: short rallies
// are 1-4 shots, medium 5-9, long 10 or more.
type RallyLengthAnalysis struct {
	TotalMatches    int         `json:"total_matches"`
	Short           RallyBucket `json:"short"`
	Medium          RallyBucket `json:"medium"`
	Long            RallyBucket `json:"long"`
	PreferredLength string      `json:"preferred_rally_length,omitempty"`
}

// RecentMatch is one row of a player's recent match history.
type RecentMatch struct {
	MatchID        int64                `json:"match_id"`
	Date           string               `json:"match_date"`
	TournamentName string               `json:"tournament_name"`
	Round          badminton.Round      `json:"round"`
	Discipline     badminton.Discipline `json:"discipline"`
	Opponents      string               `json:"opponents"`
	IsWinner       bool                 `json:"is_winner"`
	PointsWon      int                  `json:"points_won"`
	PointsPlayed   int                  `json:"points_played"`
	Winners        int                  `json:"winners"`
	UnforcedErrors int                  `json:"unforced_errors"`
}

// TierPerformance is a player's record at one tournament tier.
type TierPerformance struct {
	Tier                badminton.TournamentTier `json:"tournament_type"`
	MatchesPlayed       int                      `json:"matches_played"`
	MatchesWon          int                      `json:"matches_won"`
	WinPercentage       *float64                 `json:"win_percentage"`
	PointsWonPercentage *float64                 `json:"points_won_percentage"`
}

// TournamentPerformance summarizes one tournament's completed matches.
type TournamentPerformance struct {
	Tournament       badminton.Tournament `json:"tournament"`
	TotalMatches     int                  `json:"total_matches"`
	TotalPlayers     int                  `json:"total_players"`
	AvgMatchDuration *float64             `json:"avg_match_duration"`
	LongestMatch     int                  `json:"longest_match_minutes"`
	ShortestMatch    int                  `json:"shortest_match_minutes"`
}

// RankedPlayer is one entry of a top-performers ranking.
type RankedPlayer struct {
	PlayerID      int64    `json:"player_id"`
	PlayerName    string   `json:"player_name"`
	Nationality   string   `json:"nationality"`
	MatchesPlayed int      `json:"matches_played"`
	MatchesWon    int      `json:"matches_won"`
	WinPercentage *float64 `json:"win_percentage"`
	MetricValue   float64  `json:"metric_value"`
}

// PlayerComparison is one side of a side-by-side comparison.
type PlayerComparison struct {
	PlayerID             int64                `json:"player_id"`
	Name                 string               `json:"name"`
	Nationality          string               `json:"nationality"`
	WorldRanking         *int                 `json:"world_ranking,omitempty"`
	MatchesPlayed        int                  `json:"matches_played"`
	WinPercentage        *float64             `json:"win_percentage"`
	PointsWonPercentage  *float64             `json:"points_won_percentage"`
	WinnerToErrorRatio   *float64             `json:"winner_to_error_ratio"`
	AcePercentage        *float64             `json:"ace_percentage"`
	PreferredRallyLength string               `json:"preferred_rally_length,omitempty"`
	ShotDistribution     ShotDistribution     `json:"shot_distribution"`
}

// Comparison is the full output of ComparePlayers: one profile per supplied
// id plus the head-to-head records among the supplied set.
type Comparison struct {
	Players    []PlayerComparison     `json:"players"`
	HeadToHead []badminton.HeadToHead `json:"head_to_head"`
}

// TrendSummary is the aggregated metric set over a trailing day window.
type TrendSummary struct {
	Days                int      `json:"days"`
	FromDate            string   `json:"from_date"`
	ToDate              string   `json:"to_date"`
	MatchesPlayed       int      `json:"matches_played"`
	MatchesWon          int      `json:"matches_won"`
	WinPercentage       *float64 `json:"win_percentage"`
	PointsWonPercentage *float64 `json:"points_won_percentage"`
	WinnerToErrorRatio  *float64 `json:"winner_to_error_ratio"`
	AcePercentage       *float64 `json:"ace_percentage"`
}

// ParticipantInfo is a match participant joined with their player record.
type ParticipantInfo struct {
	badminton.MatchParticipant
	PlayerName   string `json:"player_name"`
	Nationality  string `json:"nationality"`
	WorldRanking *int   `json:"world_ranking,omitempty"`
}

// PlayerMatchStats is a match-statistics row joined with the player's name.
type PlayerMatchStats struct {
	badminton.MatchStatistic
	PlayerName string `json:"player_name"`
}

// MatchInsights is the full detail view of one match.
type MatchInsights struct {
	Match          badminton.Match          `json:"match"`
	TournamentName string                   `json:"tournament_name"`
	Location       string                   `json:"location"`
	Tier           badminton.TournamentTier `json:"tournament_type"`
	Players        []ParticipantInfo        `json:"players"`
	Games          []badminton.Game         `json:"games"`
	Statistics     []PlayerMatchStats       `json:"statistics"`
}
