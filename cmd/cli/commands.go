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
	rootCmd.AddCommand(teamsCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(fixturesCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List the registered teams",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(withPool("/teams"))
	},
}

var importCmd = &cobra.Command{
	Use:   "import <roster.csv>",
	Short: "Upload a roster CSV to the server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open roster file: %w", err)
		}
		defer f.Close()
		return performPostRequest("/teams/import", "text/csv", f)
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List the recorded matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(withPool("/matches"))
	},
}

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Show the current standings table",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(withPool("/standings"))
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Generate round-robin fixtures for a pool",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest(withPool("/schedule"), "application/json", strings.NewReader(""))
	},
}

var fixturesCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "List the generated fixtures",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(withPool("/fixtures"))
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

// withPool appends the --pool flag as a query parameter when set.
func withPool(endpoint string) string {
	if pool == "" {
		return endpoint
	}
	return endpoint + "?pool=" + url.QueryEscape(pool)
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

func performPostRequest(endpoint, contentType string, body io.Reader) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Post(url, contentType, body)
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
