package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sozercan/ticket-dashboard/internal/session"
)

const sessionCookieName = "ticket_dashboard_session"

type sessionKey struct{}

// sessionMiddleware attaches the caller's session to the request context and
// holds its lock until the request is fully served, so interactions within one
// session never overlap.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(sessionCookieName); err == nil {
			id = c.Value
		}

		st, created := s.sessions.GetOrCreate(id)
		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    st.ID,
				Path:     "/",
				HttpOnly: true,
				Secure:   s.cfg.Session.SecureCookie,
				SameSite: http.SameSiteLaxMode,
			})
		}

		st.Lock()
		defer st.Unlock()

		slog.Debug("Session attached", "session_id", st.ID, "phase", st.Phase())
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, st)))
	})
}

func sessionFrom(ctx context.Context) *session.State {
	st, _ := ctx.Value(sessionKey{}).(*session.State)
	return st
}
