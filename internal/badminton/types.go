package badminton

import "time"

// Gender of a player.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// Handedness is the player's dominant hand.
type Handedness string

const (
	HandRight Handedness = "R"
	HandLeft  Handedness = "L"
)

// Discipline represents the match category.
type Discipline string

const (
	MensSingles   Discipline = "MS"
	WomensSingles Discipline = "WS"
	MensDoubles   Discipline = "MD"
	WomensDoubles Discipline = "WD"
	MixedDoubles  Discipline = "XD"
)

// IsDoubles reports whether the discipline fields four players.
func (d Discipline) IsDoubles() bool {
	return d == MensDoubles || d == WomensDoubles || d == MixedDoubles
}

// Round represents the stage of a tournament a match belongs to.
type Round string

const (
	RoundQualifying Round = "QUALIFYING"
	RoundOf64       Round = "R64"
	RoundOf32       Round = "R32"
	RoundOf16       Round = "R16"
	RoundQuarter    Round = "QF"
	RoundSemi       Round = "SF"
	RoundFinal      Round = "F"
)

// MatchStatus is the lifecycle state of a match.
type MatchStatus string

const (
	MatchScheduled    MatchStatus = "SCHEDULED"
	MatchInProgress   MatchStatus = "IN_PROGRESS"
	MatchCompleted    MatchStatus = "COMPLETED"
	MatchWalkover     MatchStatus = "WALKOVER"
	MatchRetired      MatchStatus = "RETIRED"
	MatchDisqualified MatchStatus = "DISQUALIFIED"
)

// TournamentStatus is the lifecycle state of a tournament.
type TournamentStatus string

const (
	TournamentScheduled  TournamentStatus = "SCHEDULED"
	TournamentInProgress TournamentStatus = "IN_PROGRESS"
	TournamentCompleted  TournamentStatus = "COMPLETED"
	TournamentCancelled  TournamentStatus = "CANCELLED"
)

// TournamentTier is the tour level of a tournament.
type TournamentTier string

const (
	TierSuper1000         TournamentTier = "BWF_SUPER_1000"
	TierSuper750          TournamentTier = "BWF_SUPER_750"
	TierSuper500          TournamentTier = "BWF_SUPER_500"
	TierSuper300          TournamentTier = "BWF_SUPER_300"
	TierWorldChampionship TournamentTier = "WORLD_CHAMPIONSHIPS"
	TierOlympics          TournamentTier = "OLYMPICS"
	TierOther             TournamentTier = "OTHER"
)

// Surface is the court surface of a tournament.
type Surface string

const (
	SurfaceWood      Surface = "WOOD"
	SurfaceSynthetic Surface = "SYNTHETIC"
)

// ShotType is the stroke that ended a rally.
type ShotType string

const (
	ShotSmash   ShotType = "SMASH"
	ShotClear   ShotType = "CLEAR"
	ShotDrop    ShotType = "DROP"
	ShotDrive   ShotType = "DRIVE"
	ShotNetShot ShotType = "NET_SHOT"
	ShotLob     ShotType = "LOB"
	ShotKill    ShotType = "KILL"
	ShotError   ShotType = "ERROR"
	ShotFault   ShotType = "FAULT"
)

// Player is a registered player. Rows are append/update only, never deleted.
type Player struct {
	ID           int64      `json:"player_id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Nationality  string     `json:"nationality"`
	BirthDate    string     `json:"birth_date"` // YYYY-MM-DD
	Gender       Gender     `json:"gender"`
	HeightCM     *int       `json:"height_cm,omitempty"`
	WeightKG     *int       `json:"weight_kg,omitempty"`
	DominantHand Handedness `json:"dominant_hand"`
	WorldRanking *int       `json:"world_ranking,omitempty"`
	Created      int64      `json:"created"`
	Updated      int64      `json:"updated"`
}

// FullName returns the display name of the player.
func (p Player) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Tournament is a single tournament edition.
type Tournament struct {
	ID         int64            `json:"tournament_id"`
	Name       string           `json:"tournament_name"`
	Location   string           `json:"location"`
	Country    string           `json:"country"`
	Tier       TournamentTier   `json:"tournament_type"`
	Surface    Surface          `json:"surface"`
	PrizeMoney int64            `json:"prize_money"`
	StartDate  string           `json:"start_date"` // YYYY-MM-DD
	EndDate    string           `json:"end_date"`   // YYYY-MM-DD
	Status     TournamentStatus `json:"status"`
}

// MatchConditions holds the optional descriptive conditions of a match. It is
// persisted as a msgpack blob on the match row.
type MatchConditions struct {
	TemperatureCelsius int    `msgpack:"temperature_celsius" json:"temperature_celsius,omitempty"`
	HumidityPercent    int    `msgpack:"humidity_percent" json:"humidity_percent,omitempty"`
	Notes              string `msgpack:"notes" json:"notes,omitempty"`
}

// Match belongs to exactly one tournament.
type Match struct {
	ID              int64            `json:"match_id"`
	TournamentID    int64            `json:"tournament_id"`
	Date            string           `json:"match_date"` // YYYY-MM-DD
	Time            string           `json:"match_time"` // HH:MM:SS
	Round           Round            `json:"round"`
	Court           string           `json:"court"`
	Discipline      Discipline       `json:"discipline"`
	BestOf          int              `json:"best_of"` // 3 or 5
	DurationMinutes int              `json:"duration_minutes"`
	WinnerID        *int64           `json:"winner_id,omitempty"`
	Status          MatchStatus      `json:"status"`
	Conditions      *MatchConditions `json:"conditions,omitempty"`
}

// MatchParticipant links a player to a match on a team position.
type MatchParticipant struct {
	ID           int64  `json:"participant_id"`
	MatchID      int64  `json:"match_id"`
	PlayerID     int64  `json:"player_id"`
	PartnerID    *int64 `json:"partner_id,omitempty"`
	TeamPosition int    `json:"team_position"` // 1 or 2
	IsWinner     bool   `json:"is_winner"`
}

// Game is one of up to five games in a match.
type Game struct {
	ID              int64 `json:"game_id"`
	MatchID         int64 `json:"match_id"`
	GameNumber      int   `json:"game_number"` // 1..5
	Team1Score      int   `json:"team1_score"`
	Team2Score      int   `json:"team2_score"`
	WinnerTeam      int   `json:"winner_team"` // 1 or 2
	DurationMinutes int   `json:"duration_minutes"`
	MaxRallyLength  int   `json:"max_rally_length"`
}

// RallyStat is one record per point within a game. In a bundle the rally is
// tied to its game by GameNumber; the store resolves the storage-level GameID
// on insert.
type RallyStat struct {
	ID             int64    `json:"rally_id"`
	GameID         int64    `json:"game_id"`
	GameNumber     int      `json:"game_number"`
	ServerID       int64    `json:"server_id"`
	ReceiverID     int64    `json:"receiver_id"`
	ShotCount      int      `json:"shot_count"`
	WinningShot    ShotType `json:"winning_shot"`
	WinnerPlayerID int64    `json:"winner_player_id"`
}

// MatchStatistic aggregates per-player counters for one match.
type MatchStatistic struct {
	ID       int64 `json:"stat_id"`
	MatchID  int64 `json:"match_id"`
	PlayerID int64 `json:"player_id"`

	TotalServes   int `json:"total_serves"`
	ServiceAces   int `json:"service_aces"`
	ServiceFaults int `json:"service_faults"`
	ShortServes   int `json:"short_serves"`
	LongServes    int `json:"long_serves"`
	FlickServes   int `json:"flick_serves"`

	TotalShots     int `json:"total_shots"`
	Winners        int `json:"winners"`
	UnforcedErrors int `json:"unforced_errors"`
	ForcedErrors   int `json:"forced_errors"`

	Smashes  int `json:"smashes"`
	Clears   int `json:"clears"`
	Drops    int `json:"drops"`
	Drives   int `json:"drives"`
	NetShots int `json:"net_shots"`
	Lobs     int `json:"lobs"`
	Kills    int `json:"kills"`

	NetPointsWon          int `json:"net_points_won"`
	NetPointsPlayed       int `json:"net_points_played"`
	BackcourtPointsWon    int `json:"backcourt_points_won"`
	BackcourtPointsPlayed int `json:"backcourt_points_played"`

	ShortRalliesWon     int `json:"short_rallies_won"`
	MediumRalliesWon    int `json:"medium_rallies_won"`
	LongRalliesWon      int `json:"long_rallies_won"`
	ShortRalliesPlayed  int `json:"short_rallies_played"`
	MediumRalliesPlayed int `json:"medium_rallies_played"`
	LongRalliesPlayed   int `json:"long_rallies_played"`

	PointsWon    int `json:"points_won"`
	PointsPlayed int `json:"points_played"`
}

// HeadToHead is the cumulative record for one unordered player pair,
// canonicalized so Player1ID < Player2ID. Maintained only by the store's
// completion path, never by direct ingestion.
type HeadToHead struct {
	Player1ID     int64  `json:"player1_id"`
	Player2ID     int64  `json:"player2_id"`
	MatchesPlayed int    `json:"matches_played"`
	Player1Wins   int    `json:"player1_wins"`
	Player2Wins   int    `json:"player2_wins"`
	LastMatchID   int64  `json:"last_match_id"`
	LastMatchDate string `json:"last_match_date"`
}

// RankingSnapshot captures a player's world ranking on a given date.
// Append-only history.
type RankingSnapshot struct {
	ID           int64  `json:"snapshot_id"`
	PlayerID     int64  `json:"player_id"`
	Date         string `json:"snapshot_date"`
	WorldRanking int    `json:"world_ranking"`
	Points       int    `json:"points"`
}

// MatchBundle is a fully-formed match submitted through ingestion: the match
// plus all its dependent rows. The store commits it as one transaction.
type MatchBundle struct {
	Match        Match              `json:"match"`
	Participants []MatchParticipant `json:"participants"`
	Games        []Game             `json:"games"`
	Rallies      []RallyStat        `json:"rallies"`
	Statistics   []MatchStatistic   `json:"statistics"`
}

// DateFormat is the canonical date layout used across the schema.
const DateFormat = "2006-01-02"

// ParseDate parses a schema date string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}
