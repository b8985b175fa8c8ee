package llm

import (
	"context"
	"fmt"

	"codeberg.org/whbprompts/server/internal/gateway"
)

// produces text from a multimodal request
type TextGenerator interface {
	GenerateText(ctx context.Context, req TextGenerationRequest) (*TextGenerationResponse, error)
}

// rewrites an existing prompt following a user instruction
type Refiner interface {
	Refine(ctx context.Context, prompt, instruction string) (string, error)
}

// describes images as art prompts and refines them
type PromptModel interface {
	gateway.Gateway
	Refiner
}

type TextGenerationRequest struct {
	Model       string // empty uses the client's default model
	Text        string
	Image       *gateway.Image
	Temperature *float32
	MaxTokens   int
}

type TextGenerationResponse struct {
	Text  string
	Usage Usage
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}

// non-2xx answer from the model API
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("gemini API error %d (%s): %s", e.StatusCode, e.Status, e.Message)
	}

	return fmt.Sprintf("gemini API error %d: %s", e.StatusCode, e.Message)
}

// wire types for models/{model}:generateContent
type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature     *float32 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
