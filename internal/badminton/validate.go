package badminton

import "fmt"

// Valid reports whether the gender is one of the closed set.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Valid reports whether the handedness is one of the closed set.
func (h Handedness) Valid() bool {
	return h == HandRight || h == HandLeft
}

// Valid reports whether the discipline is one of the closed set.
func (d Discipline) Valid() bool {
	switch d {
	case MensSingles, WomensSingles, MensDoubles, WomensDoubles, MixedDoubles:
		return true
	}
	return false
}

// Valid reports whether the round is one of the closed set.
func (r Round) Valid() bool {
	switch r {
	case RoundQualifying, RoundOf64, RoundOf32, RoundOf16, RoundQuarter, RoundSemi, RoundFinal:
		return true
	}
	return false
}

// Valid reports whether the match status is one of the closed set.
func (s MatchStatus) Valid() bool {
	switch s {
	case MatchScheduled, MatchInProgress, MatchCompleted, MatchWalkover, MatchRetired, MatchDisqualified:
		return true
	}
	return false
}

// Valid reports whether the tournament status is one of the closed set.
func (s TournamentStatus) Valid() bool {
	switch s {
	case TournamentScheduled, TournamentInProgress, TournamentCompleted, TournamentCancelled:
		return true
	}
	return false
}

// Valid reports whether the tier is one of the closed set.
func (t TournamentTier) Valid() bool {
	switch t {
	case TierSuper1000, TierSuper750, TierSuper500, TierSuper300,
		TierWorldChampionship, TierOlympics, TierOther:
		return true
	}
	return false
}

// Valid reports whether the surface is one of the closed set.
func (s Surface) Valid() bool {
	return s == SurfaceWood || s == SurfaceSynthetic
}

// Valid reports whether the shot type is one of the closed set.
func (s ShotType) Valid() bool {
	switch s {
	case ShotSmash, ShotClear, ShotDrop, ShotDrive, ShotNetShot, ShotLob, ShotKill, ShotError, ShotFault:
		return true
	}
	return false
}

// Validate checks the tournament's structural invariants.
func (t Tournament) Validate() error {
	if !t.Tier.Valid() {
		return fmt.Errorf("invalid tournament type %q", t.Tier)
	}
	if !t.Surface.Valid() {
		return fmt.Errorf("invalid surface %q", t.Surface)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("invalid tournament status %q", t.Status)
	}
	start, err := ParseDate(t.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start date %q", t.StartDate)
	}
	end, err := ParseDate(t.EndDate)
	if err != nil {
		return fmt.Errorf("invalid end date %q", t.EndDate)
	}
	if end.Before(start) {
		return fmt.Errorf("tournament end date %s before start date %s", t.EndDate, t.StartDate)
	}
	return nil
}

// Validate checks the player's structural invariants.
func (p Player) Validate() error {
	if p.FirstName == "" && p.LastName == "" {
		return fmt.Errorf("player name is required")
	}
	if !p.Gender.Valid() {
		return fmt.Errorf("invalid gender %q", p.Gender)
	}
	if !p.DominantHand.Valid() {
		return fmt.Errorf("invalid dominant hand %q", p.DominantHand)
	}
	if p.BirthDate != "" {
		if _, err := ParseDate(p.BirthDate); err != nil {
			return fmt.Errorf("invalid birth date %q", p.BirthDate)
		}
	}
	return nil
}

// Validate checks all cross-row invariants of a match bundle that can be
// verified without touching the database: enum validity, score consistency,
// participant structure, and counter sanity. Reference resolution is left to
// the store's foreign keys.
func (b *MatchBundle) Validate() error {
	m := b.Match
	if !m.Discipline.Valid() {
		return fmt.Errorf("invalid discipline %q", m.Discipline)
	}
	if !m.Round.Valid() {
		return fmt.Errorf("invalid round %q", m.Round)
	}
	if !m.Status.Valid() {
		return fmt.Errorf("invalid match status %q", m.Status)
	}
	if m.BestOf != 3 && m.BestOf != 5 {
		return fmt.Errorf("best_of must be 3 or 5, got %d", m.BestOf)
	}
	if _, err := ParseDate(m.Date); err != nil {
		return fmt.Errorf("invalid match date %q", m.Date)
	}

	if err := b.validateParticipants(); err != nil {
		return err
	}
	if err := b.validateGames(); err != nil {
		return err
	}
	if err := b.validateStatistics(); err != nil {
		return err
	}
	return b.validateRallies()
}

func (b *MatchBundle) validateParticipants() error {
	m := b.Match
	want := 2
	if m.Discipline.IsDoubles() {
		want = 4
	}
	if m.Status == MatchCompleted && len(b.Participants) != want {
		return fmt.Errorf("completed %s match requires %d participants, got %d", m.Discipline, want, len(b.Participants))
	}

	players := make(map[int64]MatchParticipant, len(b.Participants))
	teamCounts := map[int]int{}
	for _, p := range b.Participants {
		if p.TeamPosition != 1 && p.TeamPosition != 2 {
			return fmt.Errorf("participant %d has invalid team position %d", p.PlayerID, p.TeamPosition)
		}
		if _, dup := players[p.PlayerID]; dup {
			return fmt.Errorf("player %d listed twice as participant", p.PlayerID)
		}
		players[p.PlayerID] = p
		teamCounts[p.TeamPosition]++

		if p.PartnerID != nil {
			if !m.Discipline.IsDoubles() {
				return fmt.Errorf("partner set on singles participant %d", p.PlayerID)
			}
			if *p.PartnerID == p.PlayerID {
				return fmt.Errorf("player %d cannot partner themselves", p.PlayerID)
			}
		} else if m.Discipline.IsDoubles() {
			return fmt.Errorf("doubles participant %d missing partner", p.PlayerID)
		}
	}

	// Partners must sit on the same team position.
	for _, p := range b.Participants {
		if p.PartnerID == nil {
			continue
		}
		partner, ok := players[*p.PartnerID]
		if !ok {
			return fmt.Errorf("partner %d of player %d is not a participant", *p.PartnerID, p.PlayerID)
		}
		if partner.TeamPosition != p.TeamPosition {
			return fmt.Errorf("partner %d of player %d is on the opposing side", *p.PartnerID, p.PlayerID)
		}
	}

	if m.Status == MatchCompleted && len(b.Participants) == want && teamCounts[1] != teamCounts[2] {
		return fmt.Errorf("unbalanced teams: %d vs %d", teamCounts[1], teamCounts[2])
	}

	if m.WinnerID != nil {
		winner, ok := players[*m.WinnerID]
		if !ok {
			return fmt.Errorf("winner %d is not a participant", *m.WinnerID)
		}
		for _, p := range b.Participants {
			onWinningSide := p.TeamPosition == winner.TeamPosition
			if p.IsWinner != onWinningSide {
				return fmt.Errorf("participant %d is_winner flag disagrees with match winner", p.PlayerID)
			}
		}
	} else {
		for _, p := range b.Participants {
			if p.IsWinner {
				return fmt.Errorf("participant %d flagged winner on a match without a winner", p.PlayerID)
			}
		}
	}
	return nil
}

func (b *MatchBundle) validateGames() error {
	m := b.Match
	seen := map[int]bool{}
	teamWins := map[int]int{}
	for _, g := range b.Games {
		if g.GameNumber < 1 || g.GameNumber > 5 {
			return fmt.Errorf("game number %d out of range [1,5]", g.GameNumber)
		}
		if seen[g.GameNumber] {
			return fmt.Errorf("duplicate game number %d", g.GameNumber)
		}
		seen[g.GameNumber] = true
		if g.WinnerTeam != 1 && g.WinnerTeam != 2 {
			return fmt.Errorf("game %d has invalid winner team %d", g.GameNumber, g.WinnerTeam)
		}
		if g.Team1Score < 0 || g.Team2Score < 0 {
			return fmt.Errorf("game %d has negative score", g.GameNumber)
		}
		higher := 1
		if g.Team2Score > g.Team1Score {
			higher = 2
		}
		if g.Team1Score == g.Team2Score {
			return fmt.Errorf("game %d has tied scores %d-%d", g.GameNumber, g.Team1Score, g.Team2Score)
		}
		if g.WinnerTeam != higher {
			return fmt.Errorf("game %d winner team %d disagrees with scores %d-%d",
				g.GameNumber, g.WinnerTeam, g.Team1Score, g.Team2Score)
		}
		teamWins[g.WinnerTeam]++
	}

	// A completed match must show the declared best-of majority.
	if m.Status == MatchCompleted && m.WinnerID != nil {
		majority := m.BestOf/2 + 1
		if teamWins[1] != majority && teamWins[2] != majority {
			return fmt.Errorf("no team reached the best-of-%d majority (%d games)", m.BestOf, majority)
		}
		winnerTeam := b.winnerTeamPosition()
		if winnerTeam != 0 && teamWins[winnerTeam] != majority {
			return fmt.Errorf("declared winner's team won %d games, majority is %d", teamWins[winnerTeam], majority)
		}
	}
	return nil
}

// winnerTeamPosition returns the team position of the declared winner, or 0.
func (b *MatchBundle) winnerTeamPosition() int {
	if b.Match.WinnerID == nil {
		return 0
	}
	for _, p := range b.Participants {
		if p.PlayerID == *b.Match.WinnerID {
			return p.TeamPosition
		}
	}
	return 0
}

func (b *MatchBundle) validateStatistics() error {
	participants := make(map[int64]bool, len(b.Participants))
	for _, p := range b.Participants {
		participants[p.PlayerID] = true
	}
	for _, s := range b.Statistics {
		if !participants[s.PlayerID] {
			return fmt.Errorf("statistics for player %d who is not a participant", s.PlayerID)
		}
		pairs := []struct {
			name        string
			played, won int
		}{
			{"points", s.PointsPlayed, s.PointsWon},
			{"net_points", s.NetPointsPlayed, s.NetPointsWon},
			{"backcourt_points", s.BackcourtPointsPlayed, s.BackcourtPointsWon},
			{"short_rallies", s.ShortRalliesPlayed, s.ShortRalliesWon},
			{"medium_rallies", s.MediumRalliesPlayed, s.MediumRalliesWon},
			{"long_rallies", s.LongRalliesPlayed, s.LongRalliesWon},
		}
		for _, pr := range pairs {
			if pr.played < 0 || pr.won < 0 {
				return fmt.Errorf("player %d has negative %s counters", s.PlayerID, pr.name)
			}
			if pr.won > pr.played {
				return fmt.Errorf("player %d has %s_won %d > %s_played %d",
					s.PlayerID, pr.name, pr.won, pr.name, pr.played)
			}
		}
		for _, c := range []int{s.TotalServes, s.ServiceAces, s.ServiceFaults, s.TotalShots,
			s.Winners, s.UnforcedErrors, s.ForcedErrors, s.Smashes, s.Clears, s.Drops,
			s.Drives, s.NetShots, s.Lobs, s.Kills} {
			if c < 0 {
				return fmt.Errorf("player %d has a negative counter", s.PlayerID)
			}
		}
		if got := s.ShortRalliesPlayed + s.MediumRalliesPlayed + s.LongRalliesPlayed; got != s.PointsPlayed {
			return fmt.Errorf("player %d rally buckets sum to %d, points_played is %d", s.PlayerID, got, s.PointsPlayed)
		}
	}
	return nil
}

func (b *MatchBundle) validateRallies() error {
	participants := make(map[int64]bool, len(b.Participants))
	for _, p := range b.Participants {
		participants[p.PlayerID] = true
	}
	games := make(map[int]bool, len(b.Games))
	for _, g := range b.Games {
		games[g.GameNumber] = true
	}
	for _, r := range b.Rallies {
		if !games[r.GameNumber] {
			return fmt.Errorf("rally references game number %d not present in bundle", r.GameNumber)
		}
		if !r.WinningShot.Valid() {
			return fmt.Errorf("rally has invalid winning shot %q", r.WinningShot)
		}
		if r.ShotCount < 1 {
			return fmt.Errorf("rally has shot count %d", r.ShotCount)
		}
		if !participants[r.ServerID] || !participants[r.ReceiverID] {
			return fmt.Errorf("rally references non-participant server %d or receiver %d", r.ServerID, r.ReceiverID)
		}
		if r.WinnerPlayerID != r.ServerID && r.WinnerPlayerID != r.ReceiverID {
			return fmt.Errorf("rally winner %d is neither server %d nor receiver %d",
				r.WinnerPlayerID, r.ServerID, r.ReceiverID)
		}
	}
	return nil
}
