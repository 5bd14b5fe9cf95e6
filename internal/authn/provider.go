package authn

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"tempo/internal/session"
)

// Provider is the authentication strategy, chosen exactly once at startup:
// the development bypass or SAML single sign-on. Handlers and the router
// depend only on this interface.
type Provider interface {
	// Middleware attaches the caller identity to the request context and
	// rejects requests it cannot authenticate.
	Middleware() func(http.Handler) http.Handler
	LoginHandler() http.HandlerFunc
	CallbackHandler() http.HandlerFunc
	MetadataHandler() http.HandlerFunc
	LogoutHandler() http.HandlerFunc
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// RequireSession authenticates from the session cookie only. A store outage
// is a 503 retry-able condition, never treated as "unauthenticated".
func RequireSession(mgr *session.Manager, lg *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid, data, err := mgr.Read(r.Context(), r)
			if err != nil {
				if errors.Is(err, session.ErrUnavailable) {
					writeJSONError(w, http.StatusServiceUnavailable, "authentication temporarily unavailable")
					return
				}
				lg.Errorw("session read failed", "error", err)
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
				return
			}
			if data == nil || !data.IsAuthenticated {
				writeJSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			// sliding expiry; a failed touch is not worth failing the request
			_ = mgr.Touch(r.Context(), sid)
			ctx := WithIdentity(r.Context(), Identity{UserID: data.UserID, Email: data.Email})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// destroySession is shared by both providers' logout handlers.
func destroySession(ctx context.Context, mgr *session.Manager, w http.ResponseWriter, r *http.Request, lg *zap.SugaredLogger) {
	sid, _, err := mgr.Read(ctx, r)
	if err != nil {
		lg.Warnw("session read during logout failed", "error", err)
	}
	if err := mgr.Destroy(ctx, w, sid); err != nil {
		lg.Warnw("session destroy failed", "error", err)
	}
}
