package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// APIClient is a thin HTTP client for the generation API
type APIClient struct {
	baseURL string
	client  *http.Client
}

// NewAPIClient creates a new generation API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// SubmitResponse is the JSON response from POST /generate
type SubmitResponse struct {
	TaskID  string `json:"task_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Submit posts the request file to /generate and returns the new task ID
func (c *APIClient) Submit(requestPath string) (string, error) {
	payload, err := os.ReadFile(requestPath)
	if err != nil {
		return "", fmt.Errorf("failed to read request file: %w", err)
	}

	resp, err := c.client.Post(c.baseURL+"/generate", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to submit request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	var submitted SubmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&submitted); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return submitted.TaskID, nil
}

// GetStatus fetches the current task status
func (c *APIClient) GetStatus(taskID string) (*TaskStatus, error) {
	resp, err := c.client.Get(c.baseURL + "/status/" + taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	var status TaskStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &status, nil
}

// GetResults fetches the final results of a completed task
func (c *APIClient) GetResults(taskID string) (*TaskResults, error) {
	resp, err := c.client.Get(c.baseURL + "/results/" + taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	var results TaskResults
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &results, nil
}
