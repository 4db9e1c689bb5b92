package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/poll88/deep-research-endpoint/internal/ai"
	"github.com/poll88/deep-research-endpoint/internal/digest"
)

// Researcher runs the research prompt against the upstream model and returns
// the raw generated text.
type Researcher interface {
	Research(ctx context.Context, prompt string) (string, error)
}

// Weekly handles GET /api/weekly. It authorizes the request, runs the fixed
// research prompt upstream, and returns the sanitized article list. Upstream
// API failures map to 502 with the raw error body as detail; anything else
// maps to 500. Malformed model output is not an error: it degrades to an
// empty article list.
func Weekly(researcher Researcher, token string, allowQueryToken bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
			return
		}

		if token != "" && !authorized(r, token, allowQueryToken) {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		text, err := researcher.Research(r.Context(), digest.Prompt())
		if err != nil {
			var apiErr *ai.APIError
			if errors.As(err, &apiErr) {
				slog.Error("openai call failed", "status", apiErr.Status)
				writeErrorDetail(w, http.StatusBadGateway, "OpenAI call failed", apiErr.Detail)
				return
			}
			slog.Error("weekly digest failed", "error", err)
			writeErrorDetail(w, http.StatusInternalServerError, "Server error", err.Error())
			return
		}

		result := digest.Sanitize(text)
		slog.Info("weekly digest served", "articles", len(result.Articles))
		writeJSON(w, http.StatusOK, result)
	}
}

// authorized checks the supplied bearer token against the configured one.
// The Authorization header is always consulted; the token query parameter
// only when enabled.
func authorized(r *http.Request, token string, allowQuery bool) bool {
	header := r.Header.Get("Authorization")
	if bearer, ok := strings.CutPrefix(header, "Bearer "); ok && bearer == token {
		return true
	}
	if allowQuery && r.URL.Query().Get("token") == token {
		return true
	}
	return false
}
