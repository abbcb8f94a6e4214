// Package report composes scouting reports from analyzer output. The verdicts
// are driven by the named thresholds below; a ratio that is undefined (nil)
// produces no verdict at all rather than being treated as zero.
package report

import (
	"time"

	"github.com/mauv0809/shuttle-stats/internal/analyzer"
	"github.com/mauv0809/shuttle-stats/internal/badminton"
)

// Style thresholds. Winner/error ratio above WinnerErrorStrong reads as shot
// accuracy, below WinnerErrorWeak as an error problem; the band between is
// neutral. Percentages are 0-100.
const (
	WinnerErrorStrong  = 1.5
	WinnerErrorWeak    = 0.8
	AceStrongPct       = 8.0
	AceWeakPct         = 3.0
	SmashAggressivePct = 25.0
	NetPlayStrongPct   = 55.0
)

// Recent form is bucketed over the last formWindow completed matches.
const (
	formWindow = 5

	FormExcellent = "Excellent"
	FormGood      = "Good"
	FormAverage   = "Average"
	FormPoor      = "Poor"
	FormNoData    = "No recent data"
)

// PlayerInfo is the identity block of a scouting report.
type PlayerInfo struct {
	Name         string               `json:"name"`
	Nationality  string               `json:"nationality"`
	Age          *int                 `json:"age,omitempty"`
	WorldRanking *int                 `json:"world_ranking,omitempty"`
	DominantHand badminton.Handedness `json:"dominant_hand"`
}

// Overview is the headline performance block.
type Overview struct {
	TotalMatches  int      `json:"total_matches"`
	MatchesWon    int      `json:"matches_won"`
	WinPercentage *float64 `json:"win_percentage"`
	RecentForm    string   `json:"recent_form"`
}

// PlayingStyle carries the distribution detail plus the derived verdicts.
type PlayingStyle struct {
	ShotDistribution analyzer.ShotDistribution    `json:"shot_distribution"`
	RallyPreference  analyzer.RallyLengthAnalysis `json:"rally_preference"`
	Strengths        []string                     `json:"strengths"`
	Weaknesses       []string                     `json:"weaknesses"`
}

// ScoutingReport is the full composed report for one player.
type ScoutingReport struct {
	PlayerInfo            PlayerInfo                 `json:"player_info"`
	Overview              Overview                   `json:"performance_overview"`
	PlayingStyle          PlayingStyle               `json:"playing_style"`
	TournamentPerformance []analyzer.TierPerformance `json:"tournament_performance"`
	RecentMatches         []analyzer.RecentMatch     `json:"recent_matches"`
}

// Composer builds scouting reports over an analyzer.
type Composer struct {
	analyzer *analyzer.Analyzer
}

// New creates a Composer.
func New(a *analyzer.Analyzer) *Composer {
	return &Composer{analyzer: a}
}

// ScoutingReport composes the full report for a player. It fails only when
// the player does not exist or a read fails; a player with no recorded
// matches gets a report with empty blocks and no verdicts.
func (c *Composer) ScoutingReport(playerID int64) (*ScoutingReport, error) {
	profile, err := c.analyzer.PlayerProfile(playerID)
	if err != nil {
		return nil, err
	}
	summary, err := c.analyzer.StatisticsSummary(playerID, analyzer.Filter{})
	if err != nil {
		return nil, err
	}
	shots, err := c.analyzer.ShotDistribution(playerID, analyzer.Filter{})
	if err != nil {
		return nil, err
	}
	rally, err := c.analyzer.RallyLengthAnalysis(playerID, analyzer.Filter{})
	if err != nil {
		return nil, err
	}
	tiers, err := c.analyzer.PerformanceByTier(playerID)
	if err != nil {
		return nil, err
	}
	recent, err := c.analyzer.RecentMatches(playerID, formWindow)
	if err != nil {
		return nil, err
	}

	strengths, weaknesses := styleVerdicts(summary, shots, rally)
	return &ScoutingReport{
		PlayerInfo: PlayerInfo{
			Name:         profile.Player.FullName(),
			Nationality:  profile.Player.Nationality,
			Age:          ageFromBirthDate(profile.Player.BirthDate, time.Now()),
			WorldRanking: profile.Player.WorldRanking,
			DominantHand: profile.Player.DominantHand,
		},
		Overview: Overview{
			TotalMatches:  profile.TotalMatches,
			MatchesWon:    profile.MatchesWon,
			WinPercentage: profile.WinPercentage,
			RecentForm:    recentForm(recent),
		},
		PlayingStyle: PlayingStyle{
			ShotDistribution: *shots,
			RallyPreference:  *rally,
			Strengths:        strengths,
			Weaknesses:       weaknesses,
		},
		TournamentPerformance: tiers,
		RecentMatches:         recent,
	}, nil
}

// styleVerdicts derives the strength/weakness lists. Each verdict needs its
// underlying ratio to be defined; missing data stays silent.
func styleVerdicts(summary *analyzer.StatisticsSummary, shots *analyzer.ShotDistribution, rally *analyzer.RallyLengthAnalysis) (strengths, weaknesses []string) {
	if r := summary.WinnerToErrorRatio; r != nil {
		if *r > WinnerErrorStrong {
			strengths = append(strengths, "Excellent shot accuracy and low error rate")
		} else if *r < WinnerErrorWeak {
			weaknesses = append(weaknesses, "High unforced error rate")
		}
	}
	if a := summary.AcePercentage; a != nil {
		if *a > AceStrongPct {
			strengths = append(strengths, "Strong serving game")
		} else if *a < AceWeakPct {
			weaknesses = append(weaknesses, "Weak serving game")
		}
	}
	if s := shots.SmashPercentage; s != nil && *s > SmashAggressivePct {
		strengths = append(strengths, "Aggressive attacking style")
	}
	if n := summary.NetPointsPercentage; n != nil && *n > NetPlayStrongPct {
		strengths = append(strengths, "Dominant at the net")
	}
	if rally.Long.WinRate != nil && rally.Short.WinRate != nil {
		if *rally.Long.WinRate > *rally.Short.WinRate {
			strengths = append(strengths, "Strong endurance and long rally performance")
		} else {
			strengths = append(strengths, "Quick point finishing ability")
		}
	}
	return strengths, weaknesses
}

// recentForm buckets the win rate over the supplied matches.
func recentForm(matches []analyzer.RecentMatch) string {
	if len(matches) == 0 {
		return FormNoData
	}
	wins := 0
	for _, m := range matches {
		if m.IsWinner {
			wins++
		}
	}
	rate := float64(wins) / float64(len(matches)) * 100
	switch {
	case rate >= 80:
		return FormExcellent
	case rate >= 60:
		return FormGood
	case rate >= 40:
		return FormAverage
	default:
		return FormPoor
	}
}

// ageFromBirthDate computes completed years, or nil when the birth date is
// absent or malformed.
func ageFromBirthDate(birthDate string, now time.Time) *int {
	if birthDate == "" {
		return nil
	}
	born, err := time.Parse(badminton.DateFormat, birthDate)
	if err != nil {
		return nil
	}
	age := now.Year() - born.Year()
	if now.YearDay() < born.YearDay() {
		age--
	}
	if age < 0 {
		return nil
	}
	return &age
}
