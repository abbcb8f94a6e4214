package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/shuttle-stats/internal/analyzer"
	"github.com/mauv0809/shuttle-stats/internal/badminton"
	"github.com/mauv0809/shuttle-stats/internal/store"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// PlayersHandler lists players on GET and registers one on POST.
func (s *Server) PlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			players, err := s.Store.GetAllPlayers()
			if err != nil {
				log.Error("Failed to get players from store", "error", err)
				http.Error(w, "Failed to get players", http.StatusInternalServerError)
				return
			}
			s.writeJSON(w, http.StatusOK, players)
		case http.MethodPost:
			var p badminton.Player
			if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
				http.Error(w, "Invalid player payload", http.StatusBadRequest)
				return
			}
			id, err := s.Store.AddPlayer(p)
			if err != nil {
				s.writeStoreError(w, "Failed to add player", err)
				return
			}
			s.writeJSON(w, http.StatusCreated, map[string]int64{"player_id": id})
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// TournamentsHandler fetches a tournament on GET and creates one on POST.
func (s *Server) TournamentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			id, err := queryID(r, "id")
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			tournament, err := s.Store.GetTournament(id)
			if err != nil {
				s.writeStoreError(w, "Failed to get tournament", err)
				return
			}
			s.writeJSON(w, http.StatusOK, tournament)
		case http.MethodPost:
			var t badminton.Tournament
			if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
				http.Error(w, "Invalid tournament payload", http.StatusBadRequest)
				return
			}
			id, err := s.Store.AddTournament(t)
			if err != nil {
				s.writeStoreError(w, "Failed to add tournament", err)
				return
			}
			s.writeJSON(w, http.StatusCreated, map[string]int64{"tournament_id": id})
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// IngestHandler accepts a full match bundle and stores it atomically.
func (s *Server) IngestHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var bundle badminton.MatchBundle
		if err := json.NewDecoder(r.Body).Decode(&bundle); err != nil {
			http.Error(w, "Invalid bundle payload", http.StatusBadRequest)
			return
		}

		start := time.Now()
		matchID, err := s.Store.InsertMatchBundle(&bundle)
		s.Metrics.ObserveIngestDuration(time.Since(start).Seconds())
		if err != nil {
			s.Metrics.IncBundlesRejected()
			s.writeStoreError(w, "Failed to ingest bundle", err)
			return
		}
		s.Metrics.IncBundlesIngested()
		log.Info("Ingested match bundle", "matchID", matchID, "status", bundle.Match.Status)
		s.writeJSON(w, http.StatusCreated, map[string]int64{"match_id": matchID})
	}
}

// CompleteMatchHandler transitions a match to completed and runs the
// head-to-head maintainer.
func (s *Server) CompleteMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		matchID, err := queryID(r, "matchID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		winnerID, err := queryID(r, "winnerID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		applied, err := s.Store.CompleteMatch(matchID, winnerID)
		if err != nil {
			s.writeStoreError(w, "Failed to complete match", err)
			return
		}
		s.Metrics.IncMatchesCompleted()
		if applied {
			s.Metrics.IncHeadToHeadUpdates()
		}
		log.Info("Match completed", "matchID", matchID, "winnerID", winnerID)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Match %d completed", matchID)
	}
}

// RankingsHandler returns a player's world-ranking history on GET and
// appends a snapshot on POST.
func (s *Server) RankingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			id, err := queryID(r, "id")
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			history, err := s.Store.GetRankingHistory(id)
			if err != nil {
				s.writeStoreError(w, "Failed to get ranking history", err)
				return
			}
			s.writeJSON(w, http.StatusOK, history)
		case http.MethodPost:
			var snap badminton.RankingSnapshot
			if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
				http.Error(w, "Invalid snapshot payload", http.StatusBadRequest)
				return
			}
			id, err := s.Store.AddRankingSnapshot(snap)
			if err != nil {
				s.writeStoreError(w, "Failed to add ranking snapshot", err)
				return
			}
			s.writeJSON(w, http.StatusCreated, map[string]int64{"snapshot_id": id})
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) PlayerProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := queryID(r, "id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		profile, err := s.Analyzer.PlayerProfile(id)
		if err != nil {
			s.writeStoreError(w, "Failed to get player profile", err)
			return
		}
		s.writeJSON(w, http.StatusOK, profile)
	}
}

func (s *Server) PlayerSummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := queryID(r, "id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		summary, err := s.Analyzer.StatisticsSummary(id, filterFromQuery(r))
		if err != nil {
			s.writeStoreError(w, "Failed to get statistics summary", err)
			return
		}
		s.writeJSON(w, http.StatusOK, summary)
	}
}

func (s *Server) PlayerShotsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := queryID(r, "id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		shots, err := s.Analyzer.ShotDistribution(id, filterFromQuery(r))
		if err != nil {
			s.writeStoreError(w, "Failed to get shot distribution", err)
			return
		}
		s.writeJSON(w, http.StatusOK, shots)
	}
}

func (s *Server) PlayerRalliesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := queryID(r, "id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rallies, err := s.Analyzer.RallyLengthAnalysis(id, filterFromQuery(r))
		if err != nil {
			s.writeStoreError(w, "Failed to get rally analysis", err)
			return
		}
		s.writeJSON(w, http.StatusOK, rallies)
	}
}

func (s *Server) PlayerRecentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := queryID(r, "id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		limit := queryInt(r, "limit", 10)
		matches, err := s.Analyzer.RecentMatches(id, limit)
		if err != nil {
			s.writeStoreError(w, "Failed to get recent matches", err)
			return
		}
		s.writeJSON(w, http.StatusOK, matches)
	}
}

func (s *Server) PlayerTiersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := queryID(r, "id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		tiers, err := s.Analyzer.PerformanceByTier(id)
		if err != nil {
			s.writeStoreError(w, "Failed to get tier performance", err)
			return
		}
		s.writeJSON(w, http.StatusOK, tiers)
	}
}

func (s *Server) PlayerTrendsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := queryID(r, "id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		days := queryInt(r, "days", 90)
		trend, err := s.Analyzer.PerformanceTrends(id, days)
		if err != nil {
			s.writeStoreError(w, "Failed to get performance trends", err)
			return
		}
		s.writeJSON(w, http.StatusOK, trend)
	}
}

func (s *Server) HeadToHeadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p1, err := queryID(r, "player1")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		p2, err := queryID(r, "player2")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h2h, err := s.Store.GetHeadToHead(p1, p2)
		if err != nil {
			s.writeStoreError(w, "Failed to get head-to-head", err)
			return
		}
		s.writeJSON(w, http.StatusOK, h2h)
	}
}

func (s *Server) TopPerformersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metric := r.URL.Query().Get("metric")
		if metric == "" {
			metric = analyzer.MetricWinPercentage
		}
		limit := queryInt(r, "limit", 10)
		minMatches := queryInt(r, "minMatches", 1)

		ranked, err := s.Analyzer.TopPerformers(metric, limit, minMatches)
		if err != nil {
			if errors.Is(err, analyzer.ErrInvalidMetric) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			log.Error("Failed to rank players", "metric", metric, "error", err)
			http.Error(w, "Failed to rank players", http.StatusInternalServerError)
			return
		}
		s.writeJSON(w, http.StatusOK, ranked)
	}
}

func (s *Server) CompareHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("ids")
		if raw == "" {
			http.Error(w, "Missing required parameter: ids", http.StatusBadRequest)
			return
		}
		var ids []int64
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				http.Error(w, fmt.Sprintf("Invalid player id %q", part), http.StatusBadRequest)
				return
			}
			ids = append(ids, id)
		}
		if len(ids) < 2 {
			http.Error(w, "At least 2 player ids required", http.StatusBadRequest)
			return
		}

		cmp, err := s.Analyzer.ComparePlayers(ids)
		if err != nil {
			s.writeStoreError(w, "Failed to compare players", err)
			return
		}
		s.writeJSON(w, http.StatusOK, cmp)
	}
}

func (s *Server) MatchInsightsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := queryID(r, "id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		insights, err := s.Analyzer.MatchInsights(id)
		if err != nil {
			s.writeStoreError(w, "Failed to get match insights", err)
			return
		}
		s.writeJSON(w, http.StatusOK, insights)
	}
}

func (s *Server) TournamentPerformanceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := queryID(r, "id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		perf, err := s.Analyzer.TournamentPerformance(id)
		if err != nil {
			s.writeStoreError(w, "Failed to get tournament performance", err)
			return
		}
		s.writeJSON(w, http.StatusOK, perf)
	}
}

func (s *Server) ScoutingReportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := queryID(r, "id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rep, err := s.Composer.ScoutingReport(id)
		if err != nil {
			s.writeStoreError(w, "Failed to compose scouting report", err)
			return
		}
		s.writeJSON(w, http.StatusOK, rep)
	}
}

// writeJSON encodes v with the standard content type.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// writeStoreError maps the store/analyzer error taxonomy onto status codes:
// not-found is 404, integrity and validation failures are 400, everything
// else is a 500.
func (s *Server) writeStoreError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, store.ErrIntegrity):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Error(msg, "error", err)
		http.Error(w, msg, http.StatusInternalServerError)
	}
}

// queryID parses a required int64 query parameter.
func queryID(r *http.Request, key string) (int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, fmt.Errorf("missing required parameter: %s", key)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return id, nil
}

// queryInt parses an optional int query parameter with a fallback.
func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn("Invalid query parameter, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return v
}

// filterFromQuery builds an aggregation filter from the optional
// tournamentID, discipline, from and to query parameters.
func filterFromQuery(r *http.Request) analyzer.Filter {
	f := analyzer.Filter{
		Discipline: badminton.Discipline(r.URL.Query().Get("discipline")),
		FromDate:   r.URL.Query().Get("from"),
		ToDate:     r.URL.Query().Get("to"),
	}
	if raw := r.URL.Query().Get("tournamentID"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			f.TournamentID = id
		}
	}
	return f
}
