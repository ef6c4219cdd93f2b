package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"conquest/game"

	"github.com/rs/zerolog"
)

// HookSink pushes frames to an external visualizer over HTTP. Frames identical to
// the last one pushed are skipped, so the hook only sees changes.
type HookSink struct {
	url    string
	client *http.Client
	logger zerolog.Logger

	mu   sync.Mutex
	last []byte

	queue chan []byte
}

func NewHookSink(url string, logger zerolog.Logger) *HookSink {
	return &HookSink{
		url:    url,
		client: &http.Client{Timeout: 2 * time.Second},
		logger: logger,
		queue:  make(chan []byte, 16),
	}
}

// Publish queues frame for the hook. It never blocks the engine; when the hook
// falls behind, frames are dropped.
func (h *HookSink) Publish(frame game.View) {
	payload, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error().Err(err).Msg("cannot encode frame for hook")
		return
	}

	h.mu.Lock()
	if bytes.Equal(payload, h.last) {
		h.mu.Unlock()
		return
	}
	h.last = payload
	h.mu.Unlock()

	select {
	case h.queue <- payload:
	default:
		h.logger.Warn().Str("url", h.url).Msg("hook is behind, dropping frame")
	}
}

// Run posts queued frames until ctx is cancelled.
func (h *HookSink) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload := <-h.queue:
			if err := h.post(ctx, payload); err != nil {
				h.logger.Warn().Err(err).Str("url", h.url).Msg("cannot push frame")
			}
		}
	}
}

func (h *HookSink) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		out, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("hook returned status %d: %s", resp.StatusCode, out)
	}
	return nil
}
