package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// timeout for refine requests when none is configured
const refineRequestTimeout = 60 * time.Second

// calls the relay's refine endpoint; satisfies llm.Refiner
type RefineClient struct {
	endpoint   string
	httpClient *http.Client
}

// creates a refine client for the relay at endpoint
func NewRefineClient(endpoint string, timeout time.Duration) *RefineClient {
	if timeout <= 0 {
		timeout = refineRequestTimeout
	}

	return &RefineClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// rewrites prompt according to instruction
func (c *RefineClient) Refine(ctx context.Context, prompt, instruction string) (string, error) {
	payloadBytes, err := json.Marshal(refineRequest{
		Prompt:      prompt,
		Instruction: instruction,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/refine", c.endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp refineErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			return "", fmt.Errorf("%s: %s", errResp.Error, errResp.Message)
		}
		return "", fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result refineResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if strings.TrimSpace(result.Prompt) == "" {
		return prompt, nil
	}

	return result.Prompt, nil
}

type refineRequest struct {
	Prompt      string `json:"prompt"`
	Instruction string `json:"instruction"`
}

type refineResponse struct {
	Prompt string `json:"prompt"`
}

type refineErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
