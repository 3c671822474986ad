package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RemoteConfig configures an HTTP embedding backend speaking the
// llama.cpp-compatible /v1/embeddings contract the teacher's
// llmclient.Client.Embed already targets.
type RemoteConfig struct {
	Host       string
	Timeout    time.Duration
	MaxRetries int
	BaseDelay  time.Duration
	Logger     *zap.Logger
}

type embeddingRequest struct {
	Content string `json:"content"`
}

type embeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

// RemoteEmbedder calls out to an HTTP embeddings endpoint, retrying on
// 503 (model still loading) with exponential backoff, the same pattern
// as the teacher's llmclient.Client.Embed/backoffSleep.
type RemoteEmbedder struct {
	cfg    RemoteConfig
	client *http.Client
}

// NewRemoteEmbedder builds a RemoteEmbedder from cfg.
func NewRemoteEmbedder(cfg RemoteConfig) *RemoteEmbedder {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	return &RemoteEmbedder{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Embed requests an embedding vector for text from the configured host.
func (e *RemoteEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embeddingRequest{Content: text})
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/embeddings", strings.TrimRight(e.cfg.Host, "/"))
	var resp *http.Response
	var lastErr error
	for attempt := 0; attempt < e.cfg.MaxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("create embedding request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		r, err := e.client.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		if r.StatusCode == http.StatusServiceUnavailable {
			io.Copy(io.Discard, r.Body)
			r.Body.Close()
			if e.cfg.Logger != nil {
				e.cfg.Logger.Warn("embedding backend loading, retrying")
			}
			e.backoffSleep(attempt)
			continue
		}

		resp = r
		break
	}
	if resp == nil {
		return nil, fmt.Errorf("no response from embedding backend: %w", lastErr)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read embedding response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding backend status %s: %s", resp.Status, string(bodyBytes))
	}

	var er embeddingResponse
	if err := json.Unmarshal(bodyBytes, &er); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	return er.Embedding, nil
}

func (e *RemoteEmbedder) backoffSleep(attempt int) {
	d := e.cfg.BaseDelay * time.Duration(1<<attempt)
	const cap = 30 * time.Second
	if d > cap {
		d = cap
	}
	time.Sleep(d)
}
