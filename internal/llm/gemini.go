package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"codeberg.org/whbprompts/server/internal/gateway"
	"golang.org/x/time/rate"
)

// shared HTTP client for Gemini API calls
var geminiHTTPClient = &http.Client{
	Timeout: defaultTimeout,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// rate limiter for Gemini API calls (10 requests/second with burst capacity of 5)
var geminiRateLimiter = rate.NewLimiter(10, 5)

const maxErrorBody = 4096

type GeminiClient struct {
	config     GeminiConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}

	if cfg.RefineModel == "" {
		cfg.RefineModel = cfg.Model
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &GeminiClient{
		config:     cfg,
		httpClient: geminiHTTPClient,
		limiter:    geminiRateLimiter,
	}
}

func (c *GeminiClient) Model() string {
	return c.config.Model
}

// describes the image as an art prompt for the selected target model
func (c *GeminiClient) Generate(ctx context.Context, image gateway.Image, opts gateway.Options) (string, error) {
	resp, err := c.GenerateText(ctx, TextGenerationRequest{
		Text:  buildAnalysisPrompt(opts),
		Image: &image,
	})
	if err != nil {
		return "", err
	}

	return finalizePrompt(resp.Text, opts), nil
}

// rewrites prompt following instruction; an empty answer keeps the original
func (c *GeminiClient) Refine(ctx context.Context, prompt, instruction string) (string, error) {
	temperature := defaultRefineTemperature

	resp, err := c.GenerateText(ctx, TextGenerationRequest{
		Model:       c.config.RefineModel,
		Text:        buildRefinePrompt(prompt, instruction),
		Temperature: &temperature,
	})
	if err != nil {
		return "", err
	}

	if resp.Text == "" {
		return prompt, nil
	}

	return resp.Text, nil
}

func (c *GeminiClient) GenerateText(ctx context.Context, req TextGenerationRequest) (*TextGenerationResponse, error) {
	model := req.Model
	if model == "" {
		model = c.config.Model
	}

	parts := make([]part, 0, 2)

	if req.Image != nil {
		mimeType := req.Image.MIMEType
		if mimeType == "" {
			mimeType = "image/png"
		}

		parts = append(parts, part{
			InlineData: &inlineData{
				MIMEType: mimeType,
				Data:     req.Image.Base64(),
			},
		})
	}

	parts = append(parts, part{Text: req.Text})

	reqBody := generateContentRequest{
		Contents: []content{{Role: "user", Parts: parts}},
	}

	if req.Temperature != nil || req.MaxTokens > 0 {
		reqBody.GenerationConfig = &generationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.config.BaseURL, model)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.config.APIKey)

	// rate limiting
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var apiResp generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &TextGenerationResponse{
		Text: strings.TrimSpace(candidateText(apiResp)),
		Usage: Usage{
			InputTokens:  apiResp.UsageMetadata.PromptTokenCount,
			OutputTokens: apiResp.UsageMetadata.CandidatesTokenCount,
		},
	}, nil
}

// concatenates the text parts of the first candidate
func candidateText(resp generateContentResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}

	return sb.String()
}

func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(body)),
	}

	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		apiErr.Message = parsed.Error.Message
		apiErr.Status = parsed.Error.Status
	}

	return apiErr
}
