package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(availabilitiesCmd)
	rootCmd.AddCommand(inviteCmd)
	rootCmd.AddCommand(confirmCmd)
	rootCmd.AddCommand(declineCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(confirmResultCmd)
	rootCmd.AddCommand(disputeCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(expireCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/healthz", "")
	},
}

var availabilitiesCmd = &cobra.Command{
	Use:   "availabilities",
	Short: "List the open availabilities",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/availabilities", "")
	},
}

var inviteCmd = &cobra.Command{
	Use:   "invite [availability-id]",
	Short: "Create an invite against an availability",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := fmt.Sprintf(`{"availability_id":%q}`, args[0])
		return performRequest(http.MethodPost, "/invites", body)
	},
}

var confirmCmd = &cobra.Command{
	Use:   "confirm [token]",
	Short: "Confirm an invite, creating the match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/invites/"+args[0]+"/confirm", "")
	},
}

var declineCmd = &cobra.Command{
	Use:   "decline [token]",
	Short: "Decline an invite",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/invites/"+args[0]+"/decline", "")
	},
}

var matchCmd = &cobra.Command{
	Use:   "match [match-id]",
	Short: "Show a match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/matches/"+args[0], "")
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit [match-id] [sets-json]",
	Short: "Submit a result for a match, e.g. '[{\"set_number\":1,\"host_games\":6,\"opponent_games\":4}]'",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := fmt.Sprintf(`{"sets":%s}`, args[1])
		return performRequest(http.MethodPost, "/matches/"+args[0]+"/result", body)
	},
}

var confirmResultCmd = &cobra.Command{
	Use:   "confirm-result [result-id]",
	Short: "Confirm a submitted result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/results/"+args[0]+"/confirm", "")
	},
}

var disputeCmd = &cobra.Command{
	Use:   "dispute [result-id]",
	Short: "Dispute a submitted result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/results/"+args[0]+"/dispute", "")
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the rating leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/players/leaderboard", "")
	},
}

var expireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Sweep pending invites past their TTL",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/internal/invites/expire", "")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", "")
	},
}

func performRequest(method, endpoint, body string) error {
	url := host + endpoint
	fmt.Printf("Making %s request to %s\n", method, url)

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
