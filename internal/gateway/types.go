package gateway

import (
	"context"
	"fmt"
)

// turns a reference image into an art prompt. implementations forward the
// options untouched; quota and cadence rules live in the governor, not here.
type Gateway interface {
	Generate(ctx context.Context, image Image, opts Options) (string, error)
}

// adapts a plain function to the Gateway interface
type Func func(ctx context.Context, image Image, opts Options) (string, error)

func (f Func) Generate(ctx context.Context, image Image, opts Options) (string, error) {
	return f(ctx, image, opts)
}

// independent toggles; conflicting combinations are the remote service's concern
type Options struct {
	MidjourneyFormat      bool `json:"midjourneyFormat"`
	StableDiffusionFormat bool `json:"stableDiffusionFormat"`
	NegativePrompt        bool `json:"negativePrompt"`
	StyleTags             bool `json:"styleTags"`
	ColorPalette          bool `json:"colorPalette"`
	LightingBreakdown     bool `json:"lightingBreakdown"`
}

// returns the dashboard defaults
func DefaultOptions() Options {
	return Options{
		MidjourneyFormat:  true,
		StyleTags:         true,
		LightingBreakdown: true,
	}
}

// transport-level failure of a generate call
type Error struct {
	Message    string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("gateway: %s (status %d)", e.Message, e.StatusCode)
	}

	return "gateway: " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// request body of the relay endpoint
type generateRequest struct {
	Image   string  `json:"image"`
	Options Options `json:"options"`
}

// success or error body of the relay endpoint
type generateResponse struct {
	Prompt  string `json:"prompt"`
	Error   string `json:"error"`
	Message string `json:"message"`
}
