package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/emrgen/reader/internal/model"
)

// DefaultEndpoint is the speech endpoint used when none is configured.
const DefaultEndpoint = "https://tts-voice-magic.1941109171.workers.dev/v1/audio/speech"

var _ Synthesizer = (*HTTPSynthesizer)(nil)

// HTTPSynthesizer posts the text to an OpenAI style /v1/audio/speech endpoint.
type HTTPSynthesizer struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPSynthesizer creates a synthesizer for the endpoint. A zero timeout means 30s.
func NewHTTPSynthesizer(endpoint, apiKey string, timeout time.Duration) *HTTPSynthesizer {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &HTTPSynthesizer{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

type speechRequest struct {
	Input string `json:"input"`
	Voice string `json:"voice"`
	Speed string `json:"speed"`
	Pitch string `json:"pitch"`
	Style string `json:"style"`
}

func (h *HTTPSynthesizer) Synthesize(ctx context.Context, text string, opts model.VoiceOptions) ([]byte, error) {
	body, err := json.Marshal(speechRequest{
		Input: text,
		Voice: opts.Voice,
		Speed: opts.Speed,
		Pitch: opts.Pitch,
		Style: opts.Style,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrSynthesis, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrSynthesis, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: speech endpoint returned %d: %s", model.ErrSynthesis, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read audio: %w", model.ErrSynthesis, err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: speech endpoint returned no audio", model.ErrSynthesis)
	}

	return audio, nil
}
