package middleware

import (
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/duynhne/storefront-service/internal/core/session"
)

// AdminClaimsKey is the gin context key holding the verified *session.Claims
// of an admin request that passed the gate.
const AdminClaimsKey = "admin_claims"

// ReturnToParam is the login redirect query parameter carrying the originally
// requested path.
const ReturnToParam = "from"

// SessionState classifies the session token presented with a request.
type SessionState string

const (
	StateNoToken            SessionState = "no_token"
	StateTokenInvalid       SessionState = "token_invalid"
	StateTokenValidNonAdmin SessionState = "token_valid_non_admin"
	StateTokenValidAdmin    SessionState = "token_valid_admin"
)

// TokenVerifier verifies a session token, returning nil for any failure.
type TokenVerifier interface {
	Verify(token string) *session.Claims
}

// AdminGateConfig scopes the gate.
type AdminGateConfig struct {
	// Prefix is the admin path segment, e.g. "/admin".
	Prefix string
	// LoginPath is always let through, e.g. "/admin/login".
	LoginPath string
	// SecureCookie marks the cookie-deletion response as Secure.
	SecureCookie bool
}

// ClassifySession reads the session cookie from r and reports its state.
// Claims are returned only for valid tokens.
func ClassifySession(r *http.Request, verifier TokenVerifier) (SessionState, *session.Claims) {
	token := session.TokenFromRequest(r)
	if token == "" {
		return StateNoToken, nil
	}

	claims := verifier.Verify(token)
	switch {
	case claims == nil:
		return StateTokenInvalid, nil
	case !claims.IsAdmin():
		return StateTokenValidNonAdmin, claims
	default:
		return StateTokenValidAdmin, claims
	}
}

// AdminGate lets signed-in admins through to every path under cfg.Prefix and
// redirects everyone else to cfg.LoginPath?from=<path>. Invalid tokens also get
// their cookie deleted. Paths outside the prefix and the login path pass untouched.
func AdminGate(verifier TokenVerifier, cfg AdminGateConfig) gin.HandlerFunc {
	prefix := strings.TrimSuffix(cfg.Prefix, "/")
	loginPath := strings.TrimSuffix(cfg.LoginPath, "/")

	return func(c *gin.Context) {
		reqPath := c.Request.URL.Path
		if !inScope(reqPath, prefix) || strings.TrimSuffix(reqPath, "/") == loginPath {
			c.Next()
			return
		}

		state, claims := ClassifySession(c.Request, verifier)
		AdminGateDecisions.WithLabelValues(string(state)).Inc()

		logger := zerolog.Ctx(c.Request.Context())

		if state == StateTokenValidAdmin {
			c.Set(AdminClaimsKey, claims)
			c.Next()
			return
		}

		if state == StateTokenInvalid {
			http.SetCookie(c.Writer, session.ExpiredCookie(cfg.SecureCookie))
		}

		logger.Debug().
			Str("path", reqPath).
			Str("session_state", string(state)).
			Msg("Admin request redirected to login")

		target := loginPath + "?" + url.Values{ReturnToParam: {reqPath}}.Encode()
		c.Redirect(http.StatusTemporaryRedirect, target)
		c.Abort()
	}
}

// AdminClaims returns the claims stored by AdminGate, or nil.
func AdminClaims(c *gin.Context) *session.Claims {
	v, ok := c.Get(AdminClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*session.Claims)
	return claims
}

// ReturnPath returns from when it is a local path inside the admin area, and ""
// otherwise. Absolute URLs, protocol-relative and backslash forms, and paths
// that escape the prefix through dot segments are rejected.
func ReturnPath(from, prefix string) string {
	if !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") || strings.Contains(from, `\`) {
		return ""
	}
	u, err := url.Parse(from)
	if err != nil || u.Scheme != "" || u.Host != "" || u.User != nil {
		return ""
	}
	if !inScope(path.Clean(u.Path), strings.TrimSuffix(prefix, "/")) {
		return ""
	}
	return from
}

func inScope(p, prefix string) bool {
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}
