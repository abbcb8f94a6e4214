package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/shuttle-stats/internal/badminton"
	"github.com/mauv0809/shuttle-stats/internal/database"
	"github.com/mauv0809/shuttle-stats/internal/store"
)

// Simplified config loading for the script
func loadConfig() (dbName, migrationsDir string) {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	dbName = "badminton.db"
	if v, ok := os.LookupEnv("DB_NAME"); ok {
		dbName = v
	}
	migrationsDir = "./migrations"
	if v, ok := os.LookupEnv("MIGRATIONS_DIR"); ok {
		migrationsDir = v
	}
	return dbName, migrationsDir
}

var malePlayers = [][3]string{
	{"Viktor", "Axelsen", "DEN"},
	{"Kento", "Momota", "JPN"},
	{"Anders", "Antonsen", "DEN"},
	{"Chou", "Tien-chen", "TPE"},
	{"Anthony", "Ginting", "INA"},
	{"Jonatan", "Christie", "INA"},
	{"Lee", "Zii Jia", "MAS"},
	{"Loh", "Kean Yew", "SGP"},
	{"Kidambi", "Srikanth", "IND"},
	{"HS", "Prannoy", "IND"},
	{"Lakshya", "Sen", "IND"},
	{"Lin", "Dan", "CHN"},
	{"Chen", "Long", "CHN"},
	{"Shi", "Yuqi", "CHN"},
	{"Zhao", "Junpeng", "CHN"},
}

var femalePlayers = [][3]string{
	{"Akane", "Yamaguchi", "JPN"},
	{"Tai", "Tzu-ying", "TPE"},
	{"Carolina", "Marin", "ESP"},
	{"An", "Se-young", "KOR"},
	{"Ratchanok", "Intanon", "THA"},
	{"Pusarla", "Sindhu", "IND"},
	{"Nozomi", "Okuhara", "JPN"},
	{"Mia", "Blichfeldt", "DEN"},
	{"He", "Bingjiao", "CHN"},
	{"Wang", "Zhiyi", "CHN"},
	{"Chen", "Yufei", "CHN"},
	{"Saina", "Nehwal", "IND"},
	{"Gregoria", "Tunjung", "INA"},
	{"Fitriani", "Fitriani", "INA"},
	{"Busanan", "Ongbamrungphan", "THA"},
}

var tournamentPool = []struct {
	name, location, country string
	tier                    badminton.TournamentTier
}{
	{"All England Open", "Birmingham", "GBR", badminton.TierSuper1000},
	{"China Open", "Changzhou", "CHN", badminton.TierSuper1000},
	{"Denmark Open", "Odense", "DEN", badminton.TierSuper750},
	{"French Open", "Paris", "FRA", badminton.TierSuper750},
	{"Indonesia Open", "Jakarta", "INA", badminton.TierSuper1000},
	{"Japan Open", "Tokyo", "JPN", badminton.TierSuper750},
	{"Malaysia Open", "Kuala Lumpur", "MAS", badminton.TierSuper750},
	{"Singapore Open", "Singapore", "SGP", badminton.TierSuper500},
	{"Thailand Open", "Bangkok", "THA", badminton.TierSuper500},
	{"India Open", "New Delhi", "IND", badminton.TierSuper500},
}

var rounds = []badminton.Round{
	badminton.RoundQualifying, badminton.RoundOf64, badminton.RoundOf32,
	badminton.RoundOf16, badminton.RoundQuarter, badminton.RoundSemi, badminton.RoundFinal,
}

func main() {
	log.Info("Starting database seeder...")
	dbName, migrationsDir := loadConfig()

	db, teardown, err := database.InitDB(dbName, "", "", migrationsDir)
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()
	defer db.Close()

	matchStore := store.New(db)

	maleIDs := seedPlayers(matchStore, malePlayers, badminton.GenderMale, 165, 190, 60, 85)
	femaleIDs := seedPlayers(matchStore, femalePlayers, badminton.GenderFemale, 155, 180, 50, 75)
	log.Info("Seeded players", "male", len(maleIDs), "female", len(femaleIDs))

	tournamentIDs := seedTournaments(matchStore, 2024)
	log.Info("Seeded tournaments", "count", len(tournamentIDs))

	const matchesPerTournament = 20
	startTime := time.Now()
	total := 0
	for _, tid := range tournamentIDs {
		for i := 0; i < matchesPerTournament; i++ {
			pool := maleIDs
			discipline := badminton.MensSingles
			if rand.Intn(2) == 1 {
				pool = femaleIDs
				discipline = badminton.WomensSingles
			}
			bundle := buildSinglesBundle(tid, discipline, pool)
			if _, err := matchStore.InsertMatchBundle(bundle); err != nil {
				log.Fatalf("Failed to insert match bundle: %s", err)
			}
			total++
		}
	}
	log.Info("Seeding complete", "matches", total, "duration", time.Since(startTime))
}

func seedPlayers(s store.MatchStore, pool [][3]string, gender badminton.Gender, minH, maxH, minW, maxW int) []int64 {
	ids := make([]int64, 0, len(pool))
	for i, p := range pool {
		hand := badminton.HandRight
		if rand.Intn(10) == 0 {
			hand = badminton.HandLeft
		}
		ranking := i + 1
		height := minH + rand.Intn(maxH-minH+1)
		weight := minW + rand.Intn(maxW-minW+1)
		id, err := s.AddPlayer(badminton.Player{
			FirstName:   p[0],
			LastName:    p[1],
			Nationality: p[2],
			BirthDate: fmt.Sprintf("%d-%02d-%02d",
				1990+rand.Intn(16), 1+rand.Intn(12), 1+rand.Intn(28)),
			Gender:       gender,
			HeightCM:     &height,
			WeightKG:     &weight,
			DominantHand: hand,
			WorldRanking: &ranking,
		})
		if err != nil {
			log.Fatalf("Failed to insert player %s %s: %s", p[0], p[1], err)
		}
		ids = append(ids, id)
	}
	return ids
}

func seedTournaments(s store.MatchStore, year int) []int64 {
	ids := make([]int64, 0, len(tournamentPool))
	for _, t := range tournamentPool {
		start := time.Date(year, time.Month(1+rand.Intn(12)), 1+rand.Intn(21), 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 0, 5+rand.Intn(3))
		surface := badminton.SurfaceSynthetic
		if rand.Intn(2) == 0 {
			surface = badminton.SurfaceWood
		}
		id, err := s.AddTournament(badminton.Tournament{
			Name:       t.name,
			Location:   t.location,
			Country:    t.country,
			Tier:       t.tier,
			Surface:    surface,
			PrizeMoney: int64(100000 + rand.Intn(1400001)),
			StartDate:  start.Format(badminton.DateFormat),
			EndDate:    end.Format(badminton.DateFormat),
			Status:     badminton.TournamentCompleted,
		})
		if err != nil {
			log.Fatalf("Failed to insert tournament %s: %s", t.name, err)
		}
		ids = append(ids, id)
	}
	return ids
}

// buildSinglesBundle assembles a completed singles match between two distinct
// players from the pool, with games, per-player statistics, and a handful of
// rally records that all satisfy the ingestion invariants.
func buildSinglesBundle(tournamentID int64, discipline badminton.Discipline, pool []int64) *badminton.MatchBundle {
	i := rand.Intn(len(pool))
	j := rand.Intn(len(pool) - 1)
	if j >= i {
		j++
	}
	p1, p2 := pool[i], pool[j]

	// Lower pool index means stronger player; upsets still happen.
	winner, loser := p1, p2
	winnerTeam := 1
	if rand.Float64() > 0.5+float64(j-i)*0.04 {
		winner, loser = p2, p1
		winnerTeam = 2
	}

	games := buildGames(winnerTeam)
	conditions := &badminton.MatchConditions{
		TemperatureCelsius: 18 + rand.Intn(10),
		HumidityPercent:    40 + rand.Intn(40),
	}

	bundle := &badminton.MatchBundle{
		Match: badminton.Match{
			TournamentID:    tournamentID,
			Date:            fmt.Sprintf("2024-%02d-%02d", 1+rand.Intn(12), 1+rand.Intn(28)),
			Time:            fmt.Sprintf("%02d:%02d:00", 9+rand.Intn(12), 30*rand.Intn(2)),
			Round:           rounds[rand.Intn(len(rounds))],
			Court:           fmt.Sprintf("Court %d", 1+rand.Intn(8)),
			Discipline:      discipline,
			BestOf:          3,
			DurationMinutes: 25 + rand.Intn(66),
			WinnerID:        &winner,
			Status:          badminton.MatchCompleted,
			Conditions:      conditions,
		},
		Participants: []badminton.MatchParticipant{
			{PlayerID: p1, TeamPosition: 1, IsWinner: winner == p1},
			{PlayerID: p2, TeamPosition: 2, IsWinner: winner == p2},
		},
		Games: games,
	}

	points1, points2 := 0, 0
	for _, g := range games {
		points1 += g.Team1Score
		points2 += g.Team2Score
	}
	totalPoints := points1 + points2
	bundle.Statistics = []badminton.MatchStatistic{
		buildStatistics(p1, points1, totalPoints),
		buildStatistics(p2, points2, totalPoints),
	}

	for _, g := range games {
		for r := 0; r < 3; r++ {
			rallyWinner := winner
			if rand.Intn(3) == 0 {
				rallyWinner = loser
			}
			shots := []badminton.ShotType{
				badminton.ShotSmash, badminton.ShotClear, badminton.ShotDrop,
				badminton.ShotDrive, badminton.ShotNetShot, badminton.ShotLob,
				badminton.ShotKill, badminton.ShotError,
			}
			bundle.Rallies = append(bundle.Rallies, badminton.RallyStat{
				GameNumber:     g.GameNumber,
				ServerID:       p1,
				ReceiverID:     p2,
				ShotCount:      1 + rand.Intn(25),
				WinningShot:    shots[rand.Intn(len(shots))],
				WinnerPlayerID: rallyWinner,
			})
		}
	}
	return bundle
}

func buildGames(winnerTeam int) []badminton.Game {
	straight := rand.Intn(3) > 0
	game := func(n, winTeam int) badminton.Game {
		g := badminton.Game{
			GameNumber:      n,
			WinnerTeam:      winTeam,
			DurationMinutes: 12 + rand.Intn(18),
			MaxRallyLength:  10 + rand.Intn(30),
		}
		loserScore := 5 + rand.Intn(15)
		if winTeam == 1 {
			g.Team1Score, g.Team2Score = 21, loserScore
		} else {
			g.Team1Score, g.Team2Score = loserScore, 21
		}
		return g
	}
	otherTeam := 3 - winnerTeam
	if straight {
		return []badminton.Game{game(1, winnerTeam), game(2, winnerTeam)}
	}
	return []badminton.Game{game(1, winnerTeam), game(2, otherTeam), game(3, winnerTeam)}
}

// buildStatistics derives a plausible counter set where the rally buckets sum
// to the points played and every won counter stays within its played counter.
func buildStatistics(playerID int64, pointsWon, pointsPlayed int) badminton.MatchStatistic {
	shortPlayed := pointsPlayed / 2
	mediumPlayed := pointsPlayed / 3
	longPlayed := pointsPlayed - shortPlayed - mediumPlayed

	won := func(played int) int {
		if played == 0 {
			return 0
		}
		return rand.Intn(played + 1)
	}
	serves := pointsPlayed / 2
	netPlayed := pointsPlayed / 4
	st := badminton.MatchStatistic{
		PlayerID:            playerID,
		TotalServes:         serves,
		ServiceAces:         rand.Intn(serves/6 + 1),
		ServiceFaults:       rand.Intn(4),
		ShortServes:         serves / 2,
		LongServes:          serves / 3,
		FlickServes:         serves - serves/2 - serves/3,
		Winners:             10 + rand.Intn(20),
		UnforcedErrors:      5 + rand.Intn(20),
		ForcedErrors:        rand.Intn(10),
		Smashes:             15 + rand.Intn(25),
		Clears:              20 + rand.Intn(20),
		Drops:               10 + rand.Intn(15),
		Drives:              5 + rand.Intn(15),
		NetShots:            10 + rand.Intn(20),
		Lobs:                5 + rand.Intn(10),
		Kills:               rand.Intn(8),
		NetPointsWon:        won(netPlayed),
		NetPointsPlayed:     netPlayed,
		ShortRalliesWon:     won(shortPlayed),
		MediumRalliesWon:    won(mediumPlayed),
		LongRalliesWon:      won(longPlayed),
		ShortRalliesPlayed:  shortPlayed,
		MediumRalliesPlayed: mediumPlayed,
		LongRalliesPlayed:   longPlayed,
		PointsWon:           pointsWon,
		PointsPlayed:        pointsPlayed,
	}
	st.TotalShots = st.Smashes + st.Clears + st.Drops + st.Drives + st.NetShots + st.Lobs + st.Kills
	return st
}
