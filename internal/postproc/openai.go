// Package postproc rewrites recognized text through an OpenAI-compatible
// chat completions endpoint.
package postproc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultSystemPrompt = "You are a helpful assistant."

// Config holds the chat completions endpoint settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64

	// PromptFile is a path to the system prompt; the default prompt is used
	// when the file does not exist.
	PromptFile string

	// MaxRetries is the number of request attempts before falling back to
	// the input text.
	MaxRetries int
	// Timeout bounds each individual request.
	Timeout time.Duration
	// RetryPause is the wait between attempts.
	RetryPause time.Duration
}

// Client implements ports.PostProcessor. When the endpoint keeps failing it
// returns the input text unchanged rather than an error, so a flaky LLM
// never loses a transcript.
type Client struct {
	cfg    Config
	prompt string
	http   *http.Client
	log    zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 2
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.RetryPause <= 0 {
		cfg.RetryPause = time.Second
	}
	return &Client{
		cfg:    cfg,
		prompt: loadPrompt(cfg.PromptFile, log),
		http:   &http.Client{Timeout: cfg.Timeout},
		log:    log,
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) Process(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		c.log.Warn().Msg("no api key configured, post-processing disabled")
		return text, nil
	}

	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		processed, retryable, err := c.complete(ctx, text)
		if err == nil {
			return processed, nil
		}
		c.log.Error().Err(err).Int("attempt", attempt).Msg("chat completion failed")
		if !retryable {
			break
		}
		if attempt < c.cfg.MaxRetries {
			select {
			case <-time.After(c.cfg.RetryPause):
			case <-ctx.Done():
				return text, nil
			}
		}
	}

	c.log.Warn().Msg("post-processing exhausted retries, keeping original text")
	return text, nil
}

// complete performs one request. The second return value reports whether the
// failure is worth retrying; malformed responses are not.
func (c *Client) complete(ctx context.Context, text string) (string, bool, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []message{
			{Role: "system", Content: c.prompt},
			{Role: "user", Content: text},
		},
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return "", false, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", true, fmt.Errorf("api error: %d - %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return "", false, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return "", false, errors.New("response has no choices")
	}

	return strings.TrimSpace(chat.Choices[0].Message.Content), false, nil
}

func loadPrompt(path string, log zerolog.Logger) string {
	if path == "" {
		return defaultSystemPrompt
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Debug().Str("path", path).Msg("prompt file not readable, using default prompt")
		return defaultSystemPrompt
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return defaultSystemPrompt
	}
	return prompt
}
