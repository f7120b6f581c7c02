package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/exp/slog"

	"babytracker/internal/domain/record"
)

// Remote - сервер синхронизации.
type Remote interface {
	Health(ctx context.Context) error
	Push(ctx context.Context, c record.Collection, doc record.Document) error
}

type httpClient struct {
	client    *http.Client
	log       *slog.Logger
	baseURL   string
	timeout   time.Duration
	userAgent string
}

// NewHTTPClient создает клиента сервера синхронизации. timeout
// ограничивает каждый запрос отдельно.
func NewHTTPClient(baseURL string, timeout time.Duration, log *slog.Logger) *httpClient {
	client := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 2,
		},
	}

	return &httpClient{
		client:    client,
		log:       log.With(slog.String("component", "remote")),
		baseURL:   baseURL,
		timeout:   timeout,
		userAgent: "BabyTracker-Client/1.0",
	}
}

type healthResponse struct {
	OK bool `json:"ok"`
}

// Health проверяет доступность сервера. Любой ответ кроме {"ok": true}
// считается недоступностью.
func (h *httpClient) Health(ctx context.Context) error {
	resp, err := h.do(ctx, http.MethodGet, "/api/health", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health status %d", ErrRemoteUnavailable, resp.StatusCode)
	}

	var body healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: bad health response: %v", ErrRemoteUnavailable, err)
	}
	if !body.OK {
		return fmt.Errorf("%w: server reports not ok", ErrRemoteUnavailable)
	}
	return nil
}

// Push отправляет документ записи. Флаг synced в тело не попадает.
func (h *httpClient) Push(ctx context.Context, c record.Collection, doc record.Document) error {
	resp, err := h.do(ctx, http.MethodPost, "/api/"+c.String(), doc.Without(record.KeySynced))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &PushError{Collection: c, ID: doc.ID(), Status: resp.StatusCode}
	}
	return nil
}

func (h *httpClient) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", h.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	h.log.Debug("request", slog.String("method", method), slog.String("path", path))

	resp, err := h.client.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// cancelBody освобождает контекст запроса при закрытии тела ответа.
type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	defer b.cancel()
	return b.ReadCloser.Close()
}
