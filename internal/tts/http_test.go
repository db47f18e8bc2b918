package tts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/emrgen/reader/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSynthesizer_Synthesize(t *testing.T) {
	var got speechRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3audio"))
	}))
	defer srv.Close()

	s := NewHTTPSynthesizer(srv.URL, "secret", time.Second)
	audio, err := s.Synthesize(context.Background(), "hello", DefaultOptions)
	require.NoError(t, err)
	assert.Equal(t, []byte("ID3audio"), audio)
	assert.Equal(t, speechRequest{Input: "hello", Voice: "zh-CN-XiaoxiaoNeural", Speed: "1.0", Pitch: "0", Style: "general"}, got)
}

func TestHTTPSynthesizer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "server error", status: http.StatusBadGateway, body: "upstream down", wantErr: "502"},
		{name: "empty body", status: http.StatusOK, body: "", wantErr: "no audio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHTTPSynthesizer(srv.URL, "", time.Second).Synthesize(context.Background(), "hello", DefaultOptions)
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrSynthesis)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHTTPSynthesizer_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewHTTPSynthesizer(url, "", time.Second).Synthesize(context.Background(), "hello", DefaultOptions)
	assert.ErrorIs(t, err, model.ErrSynthesis)
}
