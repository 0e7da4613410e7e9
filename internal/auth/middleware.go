package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/odyssey-erp/odyssey-tasks/internal/platform/httpx"
)

// TokenVerifier validates a raw token string.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// Gate rejects requests that do not carry a currently valid bearer token.
type Gate struct {
	verifier TokenVerifier
	logger   *slog.Logger
}

// NewGate constructs a Gate.
func NewGate(verifier TokenVerifier, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{verifier: verifier, logger: logger}
}

// Require is chi middleware that attaches the verified claims to the request
// context. A missing header is 403, any unusable token is 401.
func (g *Gate) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			httpx.Problem(w, http.StatusForbidden, "Forbidden", httpx.MsgNoToken)
			return
		}
		claims, err := g.verifier.Verify(credential(header))
		if err != nil {
			g.logger.Debug("token rejected", slog.String("path", r.URL.Path))
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", httpx.MsgInvalidToken)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

// credential returns the second whitespace-separated field of an
// Authorization header. The scheme word is not checked.
func credential(header string) string {
	fields := strings.Fields(header)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}
