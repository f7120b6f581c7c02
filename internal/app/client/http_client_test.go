package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"babytracker/internal/domain/record"
	"babytracker/internal/utils/logger"
)

func TestHealth(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{name: "ok", status: http.StatusOK, body: `{"ok":true,"storage":"memory"}`},
		{name: "not ok", status: http.StatusOK, body: `{"ok":false}`, wantErr: true},
		{name: "garbage", status: http.StatusOK, body: `<html>`, wantErr: true},
		{name: "server error", status: http.StatusServiceUnavailable, body: `{"ok":true}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/health", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := NewHTTPClient(srv.URL, time.Second, logger.Discard()).Health(context.Background())
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrRemoteUnavailable), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestHealthUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewHTTPClient(url, time.Second, logger.Discard()).Health(context.Background())
	assert.True(t, errors.Is(err, ErrRemoteUnavailable))
}

func TestHealthTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	err := NewHTTPClient(srv.URL, 50*time.Millisecond, logger.Discard()).Health(context.Background())
	assert.True(t, errors.Is(err, ErrRemoteUnavailable))
}

func TestPushBody(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/diapers", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	doc := record.Document{"id": int64(7), "babyId": int64(1), "type": "wet", "synced": false}
	err := NewHTTPClient(srv.URL, time.Second, logger.Discard()).Push(context.Background(), record.Diapers, doc)
	require.NoError(t, err)

	assert.Equal(t, float64(7), got["id"])
	assert.Equal(t, "wet", got["type"])
	assert.NotContains(t, got, "synced")
}

func TestPushRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewHTTPClient(srv.URL, time.Second, logger.Discard()).
		Push(context.Background(), record.Feeds, record.Document{"id": int64(3)})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPushRejected))

	var pushErr *PushError
	require.True(t, errors.As(err, &pushErr))
	assert.Equal(t, record.Feeds, pushErr.Collection)
	assert.Equal(t, int64(3), pushErr.ID)
	assert.Equal(t, http.StatusInternalServerError, pushErr.Status)
}
