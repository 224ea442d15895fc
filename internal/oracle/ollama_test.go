package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllama_Query(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(generateResponse{Response: `[]`, Done: true})
	}))
	defer srv.Close()

	o := NewOllama(srv.URL+"/", "codellama")
	resp, err := o.Query(context.Background(), "find joins")
	require.NoError(t, err)

	assert.Equal(t, `[]`, resp)
	assert.Equal(t, "codellama", got.Model)
	assert.Equal(t, "find joins", got.Prompt)
	assert.False(t, got.Stream)
}

func TestOllama_Defaults(t *testing.T) {
	o := NewOllama("", "")
	assert.Equal(t, DefaultModel, o.Model())
	assert.Equal(t, DefaultOllamaURL, o.baseURL)
}

func TestOllama_QueryErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		errPart string
	}{
		{
			name: "non 2xx status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "model not found", http.StatusNotFound)
			},
			errPart: "status 404",
		},
		{
			name: "error field",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"error":"out of memory"}`))
			},
			errPart: "out of memory",
		},
		{
			name: "invalid body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`not json`))
			},
			errPart: "decode response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewOllama(srv.URL, "").Query(context.Background(), "p")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestOllama_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/version" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"version":"0.5.1"}`))
	}))

	o := NewOllama(srv.URL, "")
	assert.NoError(t, o.Ping(context.Background()))

	srv.Close()
	assert.Error(t, o.Ping(context.Background()))
}
