// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
)

// OllamaServer is a fake Ollama endpoint answering /api/generate from a
// table of prompt substrings.
type OllamaServer struct {
	*httptest.Server

	mu      sync.Mutex
	answers map[string]string
	def     string
	models  []string
}

// NewOllamaServer starts a fake server that answers def when no substring
// of answers matches the prompt. It is closed when the test ends.
func NewOllamaServer(t *testing.T, answers map[string]string, def string) *OllamaServer {
	t.Helper()

	s := &OllamaServer{answers: answers, def: def}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/version", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"version":"0.0.0-test"}`))
	})
	mux.HandleFunc("POST /api/generate", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		s.models = append(s.models, req.Model)
		s.mu.Unlock()

		answer := s.def
		for substr, a := range s.answers {
			if strings.Contains(req.Prompt, substr) {
				answer = a
				break
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"response": answer, "done": true})
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// Models returns the model names of every generate request received.
func (s *OllamaServer) Models() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.models...)
}

// WriteRepo creates a directory with the given files and returns its path.
func WriteRepo(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return root
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}
