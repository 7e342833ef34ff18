package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/habitual/habitual/internal/constants"
	"github.com/habitual/habitual/internal/logger"
	"github.com/habitual/habitual/internal/models"
)

// GeminiClient calls the Gemini generateContent endpoint
type GeminiClient struct {
	apiKey       string
	baseURL      string
	model        string
	timeout      time.Duration
	initialDelay time.Duration
	client       *http.Client
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Options configures a GeminiClient. Zero values fall back to defaults.
type Options struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewGeminiClient creates a client for apiKey
func NewGeminiClient(apiKey string, opts Options) *GeminiClient {
	c := &GeminiClient{
		apiKey:       apiKey,
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		model:        opts.Model,
		timeout:      opts.Timeout,
		initialDelay: constants.SuggestInitialDelay,
		client:       &http.Client{},
	}
	if c.baseURL == "" {
		c.baseURL = constants.DefaultSuggestBaseURL
	}
	if c.model == "" {
		c.model = constants.DefaultSuggestModel
	}
	if c.timeout <= 0 {
		c.timeout = constants.DefaultSuggestTimeout
	}
	return c
}

// New returns a GeminiClient when apiKey is set, otherwise Unavailable
func New(apiKey string, opts Options) Generator {
	if apiKey == "" {
		return Unavailable{}
	}
	return NewGeminiClient(apiKey, opts)
}

// Suggestions asks for new habit ideas based on the profile
func (c *GeminiClient) Suggestions(ctx context.Context, profile models.Profile) (string, error) {
	return c.generate(ctx, SuggestionPrompt(profile))
}

// Greeting asks for a personal welcome message based on the profile and history
func (c *GeminiClient) Greeting(ctx context.Context, profile models.Profile, events []models.Event) (string, error) {
	return c.generate(ctx, GreetingPrompt(profile, events))
}

func (c *GeminiClient) endpoint() string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
}

func (c *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < constants.SuggestMaxRetries; attempt++ {
		if attempt > 0 {
			// 1s, 2s, 4s with the default initial delay
			delay := time.Duration(math.Pow(2, float64(attempt-1))) * c.initialDelay
			logger.Debug("Retrying suggestion request", "attempt", attempt+1, "delay", delay, "error", lastErr)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return "", fmt.Errorf("suggestion request failed: %w", ctx.Err())
			}
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			var apiErr geminiError
			if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
				lastErr = fmt.Errorf("gemini API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
			} else {
				lastErr = fmt.Errorf("gemini API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
			}

			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				continue
			}
			return "", lastErr
		}

		var parsed geminiResponse
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			return "", fmt.Errorf("failed to decode response: %w", err)
		}

		text := parsed.text()
		if text == "" {
			return "", fmt.Errorf("gemini API returned no text")
		}
		return text, nil
	}

	logger.Warn("Suggestion request failed", "model", c.model, "error", lastErr)
	return "", fmt.Errorf("max retries (%d) exceeded: %w", constants.SuggestMaxRetries, lastErr)
}

func (r geminiResponse) text() string {
	var b strings.Builder
	for _, cand := range r.Candidates {
		for _, part := range cand.Content.Parts {
			b.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(b.String())
}
