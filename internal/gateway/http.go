package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	generatePath          = "/api/generate"
	defaultRequestTimeout = 60 * time.Second

	// cap on how much of an error body is echoed back
	maxErrorBody = 512
)

// calls the prompt relay over HTTP. no retries: a failed attempt is
// reported to the caller immediately.
type HTTPGateway struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
}

type HTTPOption func(*HTTPGateway)

// bounds every call; zero keeps the default
func WithTimeout(d time.Duration) HTTPOption {
	return func(g *HTTPGateway) {
		if d > 0 {
			g.timeout = d
		}
	}
}

func WithHTTPClient(c *http.Client) HTTPOption {
	return func(g *HTTPGateway) {
		g.httpClient = c
	}
}

// creates a gateway for the relay at endpoint (scheme://host[:port])
func NewHTTPGateway(endpoint string, opts ...HTTPOption) *HTTPGateway {
	g := &HTTPGateway{
		endpoint:   strings.TrimRight(endpoint, "/"),
		timeout:    defaultRequestTimeout,
		httpClient: &http.Client{},
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

func (g *HTTPGateway) Generate(ctx context.Context, image Image, opts Options) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Image:   image.Base64(),
		Options: opts,
	})
	if err != nil {
		return "", &Error{Message: "failed to encode request", Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint+generatePath, bytes.NewReader(payload))
	if err != nil {
		return "", &Error{Message: "failed to create request", Err: err}
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", &Error{Message: fmt.Sprintf("request timed out after %s", g.timeout), Err: err}
		}

		return "", &Error{Message: "could not reach the prompt service", Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Message: "failed to read response", StatusCode: resp.StatusCode, Err: err}
	}

	var result generateResponse
	decodeErr := json.Unmarshal(body, &result)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &Error{Message: errorMessage(result, body, decodeErr), StatusCode: resp.StatusCode}
	}

	if decodeErr != nil {
		return "", &Error{Message: "malformed response from prompt service", StatusCode: resp.StatusCode, Err: decodeErr}
	}

	if result.Error != "" {
		return "", &Error{Message: errorMessage(result, body, nil), StatusCode: resp.StatusCode}
	}

	if strings.TrimSpace(result.Prompt) == "" {
		return "", &Error{Message: "prompt service returned an empty prompt", StatusCode: resp.StatusCode}
	}

	return result.Prompt, nil
}

// picks the most readable message from an error body
func errorMessage(result generateResponse, body []byte, decodeErr error) string {
	if decodeErr == nil {
		if result.Message != "" {
			return result.Message
		}

		if result.Error != "" {
			return result.Error
		}
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return "prompt service request failed"
	}

	if len(text) > maxErrorBody {
		cut := maxErrorBody
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	return text
}
