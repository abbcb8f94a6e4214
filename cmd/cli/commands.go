package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(headToHeadCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(scoutCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(metricsCmd)

	summaryCmd.Flags().String("discipline", "", "Restrict to one discipline (MS, WS, MD, WD, XD)")
	summaryCmd.Flags().String("from", "", "Start date (YYYY-MM-DD, inclusive)")
	summaryCmd.Flags().String("to", "", "End date (YYYY-MM-DD, inclusive)")
	topCmd.Flags().String("metric", "win_percentage", "Ranking metric")
	topCmd.Flags().Int("limit", 10, "Maximum number of players returned")
	topCmd.Flags().Int("min-matches", 1, "Minimum completed matches to qualify")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List all registered players",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile <playerID>",
	Short: "Show a player's profile and career rollups",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/player/profile?id=" + url.QueryEscape(args[0]))
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary <playerID>",
	Short: "Show a player's aggregated statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{"id": {args[0]}}
		for _, flag := range []string{"discipline", "from", "to"} {
			if v, _ := cmd.Flags().GetString(flag); v != "" {
				q.Set(flag, v)
			}
		}
		return performGetRequest("/player/summary?" + q.Encode())
	},
}

var headToHeadCmd = &cobra.Command{
	Use:   "h2h <player1ID> <player2ID>",
	Short: "Show the head-to-head record between two players",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{"player1": {args[0]}, "player2": {args[1]}}
		return performGetRequest("/head-to-head?" + q.Encode())
	},
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Rank players by a metric",
	RunE: func(cmd *cobra.Command, args []string) error {
		metric, _ := cmd.Flags().GetString("metric")
		limit, _ := cmd.Flags().GetInt("limit")
		minMatches, _ := cmd.Flags().GetInt("min-matches")
		q := url.Values{
			"metric":     {metric},
			"limit":      {fmt.Sprint(limit)},
			"minMatches": {fmt.Sprint(minMatches)},
		}
		return performGetRequest("/top-performers?" + q.Encode())
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare <playerID> <playerID> [playerID...]",
	Short: "Compare two or more players side by side",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/compare?ids=" + url.QueryEscape(strings.Join(args, ",")))
	},
}

var scoutCmd = &cobra.Command{
	Use:   "scout <playerID>",
	Short: "Compose a scouting report for a player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/scouting-report?id=" + url.QueryEscape(args[0]))
	},
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <bundle.json>",
	Short: "Ingest a match bundle from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read bundle file: %w", err)
		}
		return performPostRequest("/ingest", payload)
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete <matchID> <winnerID>",
	Short: "Complete a match and update head-to-head records",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{"matchID": {args[0]}, "winnerID": {args[1]}}
		return performPostRequest("/complete-match?"+q.Encode(), nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint string, payload []byte) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Post(url, "application/json", strings.NewReader(string(payload)))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
