// Package main implements the meetctl CLI for manual operations against
// the meetingd HTTP server.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	// serverURL is the base URL for the meetingd HTTP server
	serverURL string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "meetctl",
	Short: "CLI for meetingd HTTP server operations",
	Long: `meetctl is a command-line interface for interacting with the meetingd server.
It provides commands for extracting tasks from transcripts, generating
minutes, following live meeting events, and checking server health.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "meetingd server URL")
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(minutesCmd)
	rootCmd.AddCommand(followCmd)
	rootCmd.AddCommand(healthCmd)
}

// extractCmd extracts tasks from a transcript file or stdin
var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract action items from a transcript",
	Long: `Extract action items from a transcript file or stdin using the meetingd server.

Examples:
  # Extract from a file
  meetctl extract meeting.txt

  # Extract from stdin
  cat meeting.txt | meetctl extract -

  # Use a different server
  meetctl extract --server http://localhost:9000 meeting.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

// minutesCmd generates minutes of meeting from a transcript
var minutesCmd = &cobra.Command{
	Use:   "minutes [file]",
	Short: "Generate minutes of meeting from a transcript",
	Long: `Generate structured minutes from a transcript file or stdin.

Examples:
  # Generate minutes from a file
  meetctl minutes meeting.txt

  # From stdin
  cat meeting.txt | meetctl minutes -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMinutes,
}

// followCmd streams live meeting events
var followCmd = &cobra.Command{
	Use:   "follow <session>",
	Short: "Stream live events for a meeting session",
	Long: `Follow a meeting session's event stream (transcript and notes updates).

The stream runs until interrupted.

Examples:
  # Follow the default session
  meetctl follow default

  # Follow a named session
  meetctl follow room-1`,
	Args: cobra.ExactArgs(1),
	RunE: runFollow,
}

// healthCmd checks server health
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check meetingd server health",
	RunE:  runHealth,
}

// ExtractRequest matches internal/httpapi ExtractRequest
type ExtractRequest struct {
	Transcript string `json:"transcript"`
}

// TaskRecord mirrors the task record wire format
type TaskRecord struct {
	Task       string   `json:"task"`
	AssignedTo string   `json:"assigned_to"`
	Owner      string   `json:"owner"`
	Deadline   *string  `json:"deadline"`
	Labels     []string `json:"labels"`
	Source     string   `json:"source"`
}

// ExtractResponse matches internal/httpapi ExtractResponse
type ExtractResponse struct {
	Tasks []TaskRecord `json:"tasks"`
	Count int          `json:"count"`
}

// MinutesRequest matches internal/httpapi MinutesRequest
type MinutesRequest struct {
	Transcript string `json:"transcript"`
}

// MinutesResponse matches internal/httpapi MinutesResponse
type MinutesResponse struct {
	Minutes string `json:"minutes"`
}

// HealthResponse matches internal/httpapi HealthResponse
type HealthResponse struct {
	Status string `json:"status"`
}

// readInput reads content from the named file or stdin when the argument
// is missing or "-".
func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
		return content, nil
	}
	content, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", args[0], err)
	}
	return content, nil
}

// postJSON posts a request body and decodes the JSON response.
func postJSON(url string, reqBody, respBody any) error {
	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequest("POST", url, bytes.NewReader(reqJSON))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := &http.Client{
		Timeout: 120 * time.Second,
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// runExtract handles the extract command
func runExtract(cmd *cobra.Command, args []string) error {
	content, err := readInput(args)
	if err != nil {
		return err
	}
	if len(content) == 0 {
		return fmt.Errorf("no transcript to extract from")
	}

	var resp ExtractResponse
	url := fmt.Sprintf("%s/api/v1/extract-tasks", serverURL)
	if err := postJSON(url, ExtractRequest{Transcript: string(content)}, &resp); err != nil {
		return err
	}

	if resp.Count == 0 {
		fmt.Println("No action items found.")
		return nil
	}

	for i, task := range resp.Tasks {
		fmt.Printf("%d. %s\n", i+1, task.Task)
		fmt.Printf("   owner: %s", task.Owner)
		if task.Deadline != nil {
			fmt.Printf("   deadline: %s", *task.Deadline)
		}
		if len(task.Labels) > 0 {
			fmt.Printf("   labels: %v", task.Labels)
		}
		fmt.Printf("   source: %s\n", task.Source)
	}
	fmt.Fprintf(os.Stderr, "\n[meetctl] Extracted %d task(s)\n", resp.Count)

	return nil
}

// runMinutes handles the minutes command
func runMinutes(cmd *cobra.Command, args []string) error {
	content, err := readInput(args)
	if err != nil {
		return err
	}
	if len(content) == 0 {
		return fmt.Errorf("no transcript to summarize")
	}

	var resp MinutesResponse
	url := fmt.Sprintf("%s/api/v1/minutes", serverURL)
	if err := postJSON(url, MinutesRequest{Transcript: string(content)}, &resp); err != nil {
		return err
	}

	fmt.Println(resp.Minutes)
	return nil
}

// runFollow handles the follow command
func runFollow(cmd *cobra.Command, args []string) error {
	session := args[0]
	url := fmt.Sprintf("%s/api/v1/events/%s", serverURL, session)

	// No client timeout: the stream is long-lived by design.
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	fmt.Fprintf(os.Stderr, "[meetctl] Following session %q (Ctrl-C to stop)\n", session)

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line == ": heartbeat" {
			continue
		}
		fmt.Println(line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stream closed: %w", err)
	}
	return nil
}

// runHealth handles the health command
func runHealth(cmd *cobra.Command, args []string) error {
	url := fmt.Sprintf("%s/health", serverURL)

	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to connect to %s: %v\n", url, err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	var healthResp HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&healthResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	fmt.Printf("Server Status: %s\n", healthResp.Status)
	fmt.Printf("Server URL: %s\n", serverURL)

	return nil
}
