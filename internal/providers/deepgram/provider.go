// Package deepgram streams PCM audio to the Deepgram realtime recognition
// API over a websocket and surfaces transcripts as domain events.
package deepgram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/postpersonality/float-speech-to-text/internal/domain"
	"github.com/postpersonality/float-speech-to-text/internal/ports"
)

const defaultBaseURL = "https://api.deepgram.com/v1"

// Config holds the provider-level settings shared by every stream.
type Config struct {
	APIKey      string
	APIBaseURL  string
	Model       string
	Language    string
	SmartFormat bool
}

// Provider implements ports.TranscriptionProvider against Deepgram.
type Provider struct {
	cfg Config
}

func NewProvider(cfg Config) *Provider {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = "nova-2"
	}
	return &Provider{cfg: cfg}
}

func (p *Provider) StartStreaming(ctx context.Context, cfg ports.StreamingConfig) (ports.StreamingSession, error) {
	if strings.TrimSpace(p.cfg.APIKey) == "" {
		return nil, errors.New("deepgram api key is not configured")
	}

	endpoint, err := listenURL(p.cfg, cfg)
	if err != nil {
		return nil, err
	}

	headers := http.Header{}
	headers.Set("Authorization", "Token "+p.cfg.APIKey)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, headers)
	if err != nil {
		return nil, fmt.Errorf("dial deepgram: %w", err)
	}

	return newLiveSession(ctx, conn), nil
}

// listenURL turns the HTTP base URL into the websocket /listen endpoint with
// all stream parameters encoded in the query string.
func listenURL(providerCfg Config, streamCfg ports.StreamingConfig) (string, error) {
	base := strings.TrimSpace(providerCfg.APIBaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}

	endpoint, err := url.Parse(strings.TrimRight(base, "/") + "/listen")
	if err != nil {
		return "", fmt.Errorf("invalid deepgram base url: %w", err)
	}

	if streamCfg.Encoding == "" {
		streamCfg.Encoding = "linear16"
	}
	if streamCfg.SampleRate <= 0 {
		streamCfg.SampleRate = 16000
	}
	if streamCfg.Channels <= 0 {
		streamCfg.Channels = 1
	}

	query := endpoint.Query()
	query.Set("model", providerCfg.Model)
	query.Set("encoding", streamCfg.Encoding)
	query.Set("sample_rate", fmt.Sprintf("%d", streamCfg.SampleRate))
	query.Set("channels", fmt.Sprintf("%d", streamCfg.Channels))
	query.Set("interim_results", fmt.Sprintf("%t", streamCfg.InterimResults))
	query.Set("smart_format", fmt.Sprintf("%t", providerCfg.SmartFormat))
	if providerCfg.Language != "" {
		query.Set("language", providerCfg.Language)
	}
	endpoint.RawQuery = query.Encode()
	return endpoint.String(), nil
}

// listenMessage covers both response shapes Deepgram uses on the live
// endpoint: a top-level channel and the batch-style nested results.
type listenMessage struct {
	Type        string `json:"type"`
	Message     string `json:"message"`
	IsFinal     bool   `json:"is_final"`
	SpeechFinal bool   `json:"speech_final"`

	Channel struct {
		Alternatives []alternative `json:"alternatives"`
	} `json:"channel"`

	Results struct {
		Channels []struct {
			Alternatives []alternative `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

type alternative struct {
	Transcript string `json:"transcript"`
}

func (m listenMessage) transcript() string {
	if len(m.Channel.Alternatives) > 0 {
		if text := strings.TrimSpace(m.Channel.Alternatives[0].Transcript); text != "" {
			return text
		}
	}
	if len(m.Results.Channels) > 0 && len(m.Results.Channels[0].Alternatives) > 0 {
		return strings.TrimSpace(m.Results.Channels[0].Alternatives[0].Transcript)
	}
	return ""
}

func (m listenMessage) event() (domain.TranscriptEvent, bool) {
	text := m.transcript()
	if text == "" {
		return domain.TranscriptEvent{}, false
	}
	kind := domain.TranscriptKindPartial
	if m.IsFinal || m.SpeechFinal {
		kind = domain.TranscriptKindFinal
	}
	return domain.TranscriptEvent{Kind: kind, Text: text, IsSpeechFinal: m.SpeechFinal}, true
}
